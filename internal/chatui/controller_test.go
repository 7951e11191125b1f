package chatui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"chatrelay/internal/models"
)

type fakeRelay struct {
	mu          sync.Mutex
	reply       string
	chatErr     error
	text        string
	transErr    error
	chatCalls   int
	transCalls  int
	lastMessage string
	lastLang    models.Language
	started     chan struct{}
	release     chan struct{}
}

func (f *fakeRelay) Chat(ctx context.Context, message string, language models.Language) (string, error) {
	f.mu.Lock()
	f.chatCalls++
	f.lastMessage = message
	f.lastLang = language
	started, release := f.started, f.release
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return f.reply, f.chatErr
}

func (f *fakeRelay) Transcribe(ctx context.Context, audio []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transCalls++
	return f.text, f.transErr
}

type fakeRecorder struct {
	starts int
	stops  int
	err    error
	clip   []byte
}

func (r *fakeRecorder) Start() error {
	if r.err != nil {
		return r.err
	}
	r.starts++
	return nil
}

func (r *fakeRecorder) Stop() ([]byte, error) {
	r.stops++
	if r.clip != nil {
		return r.clip, nil
	}
	return []byte("clip"), nil
}

func TestSubmitAppendsUserThenAssistant(t *testing.T) {
	relay := &fakeRelay{
		reply:   "Bill higher because of extra data.",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := NewController(relay, &fakeRecorder{}, nil)
	c.SetLanguage(models.LanguageEnglish)
	c.SetInput("Why my bill so high one?")

	done := make(chan bool)
	go func() { done <- c.SubmitInput(context.Background()) }()

	<-relay.started
	view := c.View()
	if len(view.History) != 1 || view.History[0].Role != models.RoleUser {
		t.Fatalf("expected optimistic user entry, got %+v", view.History)
	}
	if view.Input != "" || !view.Loading {
		t.Fatalf("expected cleared input and loading, got %+v", view)
	}
	close(relay.release)

	if !<-done {
		t.Fatalf("expected submission accepted")
	}
	view = c.View()
	if len(view.History) != 2 || view.History[1].Content != "Bill higher because of extra data." {
		t.Fatalf("expected assistant reply appended, got %+v", view.History)
	}
	if view.Loading {
		t.Fatalf("expected loading cleared")
	}
	if relay.lastLang != models.LanguageEnglish {
		t.Fatalf("expected language passed through, got %q", relay.lastLang)
	}
}

func TestSubmitIgnoresBlankText(t *testing.T) {
	relay := &fakeRelay{reply: "x"}
	c := NewController(relay, &fakeRecorder{}, nil)
	for _, text := range []string{"", "   ", "\n\t"} {
		if c.Submit(context.Background(), text) {
			t.Fatalf("expected %q to be ignored", text)
		}
	}
	if n := len(c.View().History); n != 0 || relay.chatCalls != 0 {
		t.Fatalf("expected no history and no calls, got %d entries %d calls", n, relay.chatCalls)
	}
}

func TestSubmitWhileInFlightIsIgnored(t *testing.T) {
	relay := &fakeRelay{reply: "ok", started: make(chan struct{}), release: make(chan struct{})}
	c := NewController(relay, &fakeRecorder{}, nil)

	done := make(chan bool)
	go func() { done <- c.Submit(context.Background(), "first") }()
	<-relay.started

	if c.Submit(context.Background(), "second") {
		t.Fatalf("expected second submission ignored while in flight")
	}
	if n := len(c.View().History); n != 1 {
		t.Fatalf("expected one history entry during flight, got %d", n)
	}
	close(relay.release)
	<-done

	view := c.View()
	if len(view.History) != 2 || relay.chatCalls != 1 {
		t.Fatalf("expected one exchange, got %d entries %d calls", len(view.History), relay.chatCalls)
	}
}

func TestSubmitErrorKeepsSessionUsable(t *testing.T) {
	relay := &fakeRelay{chatErr: &StatusError{Code: 502, Message: "upstream error", Detail: "status 500: boom"}}
	c := NewController(relay, &fakeRecorder{}, nil)
	if !c.Submit(context.Background(), "hello") {
		t.Fatalf("expected submission accepted")
	}
	view := c.View()
	if len(view.History) != 1 {
		t.Fatalf("expected only the user entry, got %+v", view.History)
	}
	if !strings.Contains(view.Error, "502") {
		t.Fatalf("expected status in error banner, got %q", view.Error)
	}

	relay.chatErr = nil
	relay.reply = "fixed"
	if !c.Submit(context.Background(), "again") {
		t.Fatalf("expected retry accepted")
	}
	view = c.View()
	if view.Error != "" || len(view.History) != 3 {
		t.Fatalf("expected error cleared and reply appended, got %+v", view)
	}
}

func TestDescribeDistinctMessages(t *testing.T) {
	msgs := map[string]bool{}
	for _, err := range []error{
		ErrEmptyTranscript,
		ErrMicrophone,
		&StatusError{Code: 400, Message: "bad request"},
		errors.Join(ErrNetwork, errors.New("dial tcp: refused")),
	} {
		msgs[Describe(err)] = true
	}
	if len(msgs) != 4 {
		t.Fatalf("expected four distinct messages, got %v", msgs)
	}
}

func TestRecordingFlowSubmitsTranscript(t *testing.T) {
	relay := &fakeRelay{text: "  roaming how to off  ", reply: "Can one!"}
	rec := &fakeRecorder{}
	c := NewController(relay, rec, nil)

	if err := c.ToggleRecording(context.Background()); err != nil {
		t.Fatalf("start recording: %v", err)
	}
	if got := c.View().Recording; got != StateRecording {
		t.Fatalf("expected recording state, got %v", got)
	}
	if err := c.ToggleRecording(context.Background()); err != nil {
		t.Fatalf("stop recording: %v", err)
	}

	view := c.View()
	if view.Recording != StateIdle {
		t.Fatalf("expected idle after transcription, got %v", view.Recording)
	}
	if relay.lastMessage != "roaming how to off" {
		t.Fatalf("expected trimmed transcript submitted, got %q", relay.lastMessage)
	}
	if len(view.History) != 2 || view.History[1].Content != "Can one!" {
		t.Fatalf("expected exchange from voice input, got %+v", view.History)
	}
}

func TestRecordingDoubleStartRejected(t *testing.T) {
	rec := &fakeRecorder{}
	c := NewController(&fakeRelay{}, rec, nil)
	if err := c.StartRecording(); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := c.StartRecording(); !errors.Is(err, ErrAlreadyRecording) {
		t.Fatalf("expected ErrAlreadyRecording, got %v", err)
	}
	if rec.starts != 1 {
		t.Fatalf("expected one capture session, got %d", rec.starts)
	}
}

func TestEmptyTranscriptShowsErrorWithoutSending(t *testing.T) {
	relay := &fakeRelay{text: "   "}
	c := NewController(relay, &fakeRecorder{}, nil)
	_ = c.StartRecording()
	if err := c.StopRecording(context.Background()); !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
	view := c.View()
	if relay.chatCalls != 0 || len(view.History) != 0 {
		t.Fatalf("expected nothing sent")
	}
	if view.Error != Describe(ErrEmptyTranscript) || view.Recording != StateIdle {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestEmptyClipSkipsUpload(t *testing.T) {
	relay := &fakeRelay{text: "unused"}
	c := NewController(relay, &fakeRecorder{clip: []byte{}}, nil)
	_ = c.StartRecording()
	if err := c.StopRecording(context.Background()); !errors.Is(err, ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
	if relay.transCalls != 0 || relay.chatCalls != 0 {
		t.Fatalf("expected no upload, got %d transcriptions %d chats", relay.transCalls, relay.chatCalls)
	}
	view := c.View()
	if view.Error != Describe(ErrEmptyTranscript) || view.Recording != StateIdle {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestTranscriptionFailureShowsError(t *testing.T) {
	relay := &fakeRelay{transErr: &StatusError{Code: 502, Message: "upstream error"}}
	c := NewController(relay, &fakeRecorder{}, nil)
	_ = c.StartRecording()
	if err := c.StopRecording(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if relay.chatCalls != 0 {
		t.Fatalf("expected nothing sent")
	}
	if !strings.Contains(c.View().Error, "502") {
		t.Fatalf("expected status error banner, got %q", c.View().Error)
	}
}

func TestMicrophoneFailure(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("permission denied")}
	c := NewController(&fakeRelay{}, rec, nil)
	if err := c.ToggleRecording(context.Background()); !errors.Is(err, ErrMicrophone) {
		t.Fatalf("expected ErrMicrophone, got %v", err)
	}
	view := c.View()
	if view.Recording != StateIdle || view.Error != Describe(ErrMicrophone) {
		t.Fatalf("unexpected view %+v", view)
	}
}

type blockingTranscriber struct {
	fakeRelay
	started chan struct{}
	release chan struct{}
}

func (b *blockingTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	b.started <- struct{}{}
	<-b.release
	return "hello", nil
}

func TestToggleWhileTranscribingIsBusy(t *testing.T) {
	relay := &blockingTranscriber{
		fakeRelay: fakeRelay{reply: "hi"},
		started:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	rec := &fakeRecorder{}
	c := NewController(relay, rec, nil)
	_ = c.StartRecording()

	done := make(chan error)
	go func() { done <- c.StopRecording(context.Background()) }()
	<-relay.started

	if err := c.ToggleRecording(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy while transcribing, got %v", err)
	}
	if rec.starts != 1 {
		t.Fatalf("expected no new capture session, got %d starts", rec.starts)
	}
	// Sending stays available while transcribing.
	if !c.Submit(context.Background(), "typed meanwhile") {
		t.Fatalf("expected typed submission accepted during transcription")
	}
	close(relay.release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("StopRecording error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("transcription did not finish")
	}
	if got := len(c.View().History); got != 4 {
		t.Fatalf("expected two exchanges, got %d entries", got)
	}
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	var views []View
	c := NewController(&fakeRelay{reply: "ok"}, &fakeRecorder{}, func(v View) { views = append(views, v) })
	c.Submit(context.Background(), "hi")
	if len(views) < 2 {
		t.Fatalf("expected at least two notifications, got %d", len(views))
	}
	if !views[0].Loading || views[len(views)-1].Loading {
		t.Fatalf("expected loading then settled snapshots")
	}
}
