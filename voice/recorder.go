// Package voice bridges microphone recording start/stop into a finished
// audio asset consumed by voice submissions.
package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/SubhamSharma-IITM/dost-chat/chat"
	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

// Phase names the recording states.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRecording
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRecording:
		return "recording"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrAlreadyRecording rejects Start while a recording is in progress; the
// caller must stop first.
var ErrAlreadyRecording = errors.New("already recording")

// ErrNotRecording rejects Stop with no recording in progress.
var ErrNotRecording = errors.New("not recording")

// Source captures audio between Start and Stop. ExecSource is the production
// implementation.
type Source interface {
	// Start acquires the capture stream and begins buffering. A failure
	// (no microphone, permission denied) must leave the source reusable.
	Start(ctx context.Context) error

	// Stop finalizes the capture and returns the buffered WAV bytes.
	Stop() ([]byte, error)
}

// Recorder drives a Source through Idle -> Recording -> Stopped. A Start
// failure surfaces to the user and changes no state.
type Recorder struct {
	src    Source
	logger *zap.Logger

	mu    sync.Mutex
	phase Phase
}

// NewRecorder creates a recorder over the given capture source.
func NewRecorder(src Source, logger *zap.Logger) *Recorder {
	return &Recorder{src: src, logger: logger}
}

// Phase returns the current recording state.
func (r *Recorder) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Recording reports whether a capture is in progress.
func (r *Recorder) Recording() bool {
	return r.Phase() == PhaseRecording
}

// Start acquires the microphone stream and begins buffering audio. Valid
// only from Idle.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == PhaseRecording {
		return ErrAlreadyRecording
	}
	if err := r.src.Start(ctx); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	r.phase = PhaseRecording
	r.logger.Info("recording started")
	return nil
}

// Stop finalizes the audio asset from the buffered capture. Valid only from
// Recording.
func (r *Recorder) Stop() (*chat.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseRecording {
		return nil, ErrNotRecording
	}
	data, err := r.src.Stop()
	if err != nil {
		r.phase = PhaseIdle
		return nil, fmt.Errorf("finalize capture: %w", err)
	}
	r.phase = PhaseStopped
	r.logger.Info("recording stopped", zap.Int("bytes", len(data)))
	return &chat.Attachment{Name: dost.AudioFilename, Data: data}, nil
}

// Reset returns a stopped recorder to Idle so a new recording can start.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == PhaseStopped {
		r.phase = PhaseIdle
	}
}
