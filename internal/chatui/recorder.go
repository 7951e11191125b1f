package chatui

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	// ErrMicrophone reports that audio capture could not start.
	ErrMicrophone = errors.New("microphone unavailable")
	// ErrAlreadyRecording rejects a second start while a capture is active.
	ErrAlreadyRecording = errors.New("already recording")
	// ErrNotRecording rejects a stop without an active capture.
	ErrNotRecording = errors.New("not recording")
)

// Recorder captures one audio clip at a time.
type Recorder interface {
	// Start begins a capture session.
	Start() error
	// Stop ends the session and returns the captured clip.
	Stop() ([]byte, error)
}

const chunkSize = 4096

// FileRecorder captures from an audio file instead of a microphone. The file
// is read in chunks when the capture starts, mirroring a browser recorder
// that buffers chunks until it is stopped.
type FileRecorder struct {
	mu     sync.Mutex
	path   string
	active bool
	chunks [][]byte
}

// SetSource selects the file read by the next capture.
func (r *FileRecorder) SetSource(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = path
}

func (r *FileRecorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return ErrAlreadyRecording
	}
	if r.path == "" {
		return fmt.Errorf("%w: no audio source selected", ErrMicrophone)
	}
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMicrophone, err)
	}
	defer f.Close()

	var chunks [][]byte
	for {
		buf := make([]byte, chunkSize)
		n, err := f.Read(buf)
		if n > 0 {
			chunks = append(chunks, buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMicrophone, err)
		}
	}
	r.chunks = chunks
	r.active = true
	return nil
}

func (r *FileRecorder) Stop() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return nil, ErrNotRecording
	}
	clip := bytes.Join(r.chunks, nil)
	r.chunks = nil
	r.active = false
	return clip, nil
}
