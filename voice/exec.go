package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// DefaultCaptureCommand returns the default microphone capture invocation:
// arecord streaming CD-quality WAV to stdout until interrupted.
func DefaultCaptureCommand() (string, []string) {
	return "arecord", []string{"-q", "-f", "cd", "-t", "wav"}
}

// ExecSource captures audio by running an external recorder binary that
// writes WAV to stdout (arecord, sox, ffmpeg). Stop interrupts the process
// and returns whatever was buffered.
type ExecSource struct {
	command string
	args    []string
	logger  *zap.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
	buf *bytes.Buffer
}

// NewExecSource creates a capture source for the given recorder command.
func NewExecSource(command string, args []string, logger *zap.Logger) *ExecSource {
	return &ExecSource{command: command, args: args, logger: logger}
}

// Start launches the recorder process. Launch failures (missing binary,
// device or permission problems) are returned without holding any resources.
func (s *ExecSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return errors.New("capture process already running")
	}

	buf := &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, s.command, s.args...)
	cmd.Stdout = buf

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("microphone capture unavailable: %w", err)
	}

	s.cmd = cmd
	s.buf = buf
	s.logger.Debug("capture process started",
		zap.String("command", s.command),
		zap.Int("pid", cmd.Process.Pid),
	)
	return nil
}

// Stop interrupts the recorder process and returns the buffered audio.
func (s *ExecSource) Stop() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		return nil, errors.New("no capture process running")
	}
	cmd, buf := s.cmd, s.buf
	s.cmd, s.buf = nil, nil

	_ = cmd.Process.Signal(os.Interrupt)
	// Recorders commonly exit non-zero on interrupt; buffered audio decides.
	waitErr := cmd.Wait()

	data := buf.Bytes()
	if len(data) == 0 {
		if waitErr != nil {
			return nil, fmt.Errorf("capture produced no audio: %w", waitErr)
		}
		return nil, errors.New("capture produced no audio")
	}

	s.logger.Debug("capture process stopped", zap.Int("bytes", len(data)))
	return data, nil
}
