package chatui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"chatrelay/internal/models"
)

var (
	// ErrBusy rejects recording while a clip is still being transcribed.
	ErrBusy = errors.New("transcription in progress")
	// ErrEmptyTranscript reports a transcription without usable text.
	ErrEmptyTranscript = errors.New("empty transcription")
)

// RecordingState is the voice input state machine: idle, recording, transcribing.
type RecordingState int

const (
	StateIdle RecordingState = iota
	StateRecording
	StateTranscribing
)

func (s RecordingState) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	default:
		return "idle"
	}
}

// Relay is the pair of server endpoints the controller drives.
type Relay interface {
	Chat(ctx context.Context, message string, language models.Language) (string, error)
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// View is a snapshot of the controller state for rendering.
type View struct {
	History   []models.Message
	Input     string
	Language  models.Language
	Loading   bool
	Recording RecordingState
	Error     string
}

// Controller owns the state of one chat session. It allows at most one chat
// request in flight and at most one active recording.
type Controller struct {
	relay    Relay
	recorder Recorder
	onChange func(View)

	mu        sync.Mutex
	history   []models.Message
	input     string
	language  models.Language
	loading   bool
	recording RecordingState
	errMsg    string
}

// NewController builds a controller. onChange, when set, is called with a
// fresh snapshot after every state change.
func NewController(relay Relay, recorder Recorder, onChange func(View)) *Controller {
	return &Controller{
		relay:    relay,
		recorder: recorder,
		onChange: onChange,
		language: models.LanguageAuto,
	}
}

// View returns a snapshot of the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	history := make([]models.Message, len(c.history))
	copy(history, c.history)
	return View{
		History:   history,
		Input:     c.input,
		Language:  c.language,
		Loading:   c.loading,
		Recording: c.recording,
		Error:     c.errMsg,
	}
}

// SetInput replaces the pending input text.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
	c.notify()
}

// SetLanguage changes the reply language preference.
func (c *Controller) SetLanguage(lang models.Language) {
	c.mu.Lock()
	c.language = lang
	c.mu.Unlock()
	c.notify()
}

// Submit sends text as a user message. It returns false without touching the
// history when text is blank or another chat request is in flight.
func (c *Controller) Submit(ctx context.Context, text string) bool {
	message := strings.TrimSpace(text)
	c.mu.Lock()
	if message == "" || c.loading {
		c.mu.Unlock()
		return false
	}
	c.loading = true
	c.errMsg = ""
	c.history = append(c.history, models.Message{Role: models.RoleUser, Content: message})
	c.input = ""
	lang := c.language
	c.mu.Unlock()
	c.notify()

	reply, err := c.relay.Chat(ctx, message, lang)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.errMsg = Describe(err)
	} else {
		c.history = append(c.history, models.Message{Role: models.RoleAssistant, Content: reply})
	}
	c.mu.Unlock()
	c.notify()
	return true
}

// SubmitInput submits the pending input text.
func (c *Controller) SubmitInput(ctx context.Context) bool {
	c.mu.Lock()
	text := c.input
	c.mu.Unlock()
	return c.Submit(ctx, text)
}

// ToggleRecording starts a capture when idle and stops it when recording.
// While transcribing it returns ErrBusy.
func (c *Controller) ToggleRecording(ctx context.Context) error {
	c.mu.Lock()
	state := c.recording
	c.mu.Unlock()

	switch state {
	case StateIdle:
		return c.StartRecording()
	case StateRecording:
		return c.StopRecording(ctx)
	default:
		return ErrBusy
	}
}

// StartRecording opens a capture session. Only one session can be active.
func (c *Controller) StartRecording() error {
	c.mu.Lock()
	switch c.recording {
	case StateRecording:
		c.mu.Unlock()
		return ErrAlreadyRecording
	case StateTranscribing:
		c.mu.Unlock()
		return ErrBusy
	}
	if err := c.recorder.Start(); err != nil {
		if !errors.Is(err, ErrMicrophone) {
			err = fmt.Errorf("%w: %w", ErrMicrophone, err)
		}
		c.errMsg = Describe(err)
		c.mu.Unlock()
		c.notify()
		return err
	}
	c.recording = StateRecording
	c.errMsg = ""
	c.mu.Unlock()
	c.notify()
	return nil
}

// StopRecording ends the capture, transcribes the clip and submits the text.
// On failure an error is shown and nothing is sent.
func (c *Controller) StopRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.recording != StateRecording {
		c.mu.Unlock()
		return ErrNotRecording
	}
	audio, err := c.recorder.Stop()
	if err != nil {
		c.recording = StateIdle
		c.errMsg = Describe(fmt.Errorf("%w: %w", ErrMicrophone, err))
		c.mu.Unlock()
		c.notify()
		return err
	}
	if len(audio) == 0 {
		c.recording = StateIdle
		c.errMsg = Describe(ErrEmptyTranscript)
		c.mu.Unlock()
		c.notify()
		return ErrEmptyTranscript
	}
	c.recording = StateTranscribing
	c.mu.Unlock()
	c.notify()

	text, err := c.relay.Transcribe(ctx, audio)
	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = ErrEmptyTranscript
	}

	c.mu.Lock()
	c.recording = StateIdle
	if err != nil {
		c.errMsg = Describe(err)
		c.mu.Unlock()
		c.notify()
		return err
	}
	// Left in the input if a chat request is already in flight.
	c.input = text
	c.mu.Unlock()
	c.notify()

	c.Submit(ctx, text)
	return nil
}

func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.View())
}

// Describe turns an error into the short message shown to the user.
func Describe(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrEmptyTranscript):
		return "Didn't catch that. Try speaking again."
	case errors.Is(err, ErrMicrophone):
		return "Microphone unavailable. Check permissions and try again."
	case errors.As(err, &statusErr):
		msg := statusErr.Message
		if statusErr.Detail != "" {
			msg = fmt.Sprintf("%s (%s)", msg, statusErr.Detail)
		}
		return fmt.Sprintf("Server returned %d: %s", statusErr.Code, msg)
	case errors.Is(err, ErrNetwork):
		return "Network error. Check your connection and try again."
	default:
		return "Something went wrong. Please try again."
	}
}
