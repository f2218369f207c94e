package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

type fakeSource struct {
	startErr error
	stopErr  error
	data     []byte

	starts int
	stops  int
}

func (f *fakeSource) Start(ctx context.Context) error {
	f.starts++
	return f.startErr
}

func (f *fakeSource) Stop() ([]byte, error) {
	f.stops++
	if f.stopErr != nil {
		return nil, f.stopErr
	}
	return f.data, nil
}

func TestRecorderFullCycle(t *testing.T) {
	src := &fakeSource{data: []byte("wav-bytes")}
	r := NewRecorder(src, zap.NewNop())

	assert.Equal(t, PhaseIdle, r.Phase())
	assert.False(t, r.Recording())

	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, PhaseRecording, r.Phase())
	assert.True(t, r.Recording())

	att, err := r.Stop()
	require.NoError(t, err)
	assert.Equal(t, PhaseStopped, r.Phase())
	assert.Equal(t, dost.AudioFilename, att.Name)
	assert.Equal(t, []byte("wav-bytes"), att.Data)

	r.Reset()
	assert.Equal(t, PhaseIdle, r.Phase())
	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, 2, src.starts)
}

func TestRecorderRejectsDoubleStart(t *testing.T) {
	src := &fakeSource{}
	r := NewRecorder(src, zap.NewNop())

	require.NoError(t, r.Start(context.Background()))
	err := r.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRecording)
	assert.Equal(t, 1, src.starts, "the source is not touched on a rejected start")
}

func TestRecorderStartFailureChangesNoState(t *testing.T) {
	cause := errors.New("permission denied")
	src := &fakeSource{startErr: cause}
	r := NewRecorder(src, zap.NewNop())

	err := r.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, PhaseIdle, r.Phase())

	// Recoverable: a working source can start right after.
	src.startErr = nil
	assert.NoError(t, r.Start(context.Background()))
}

func TestRecorderRejectsStopWhenNotRecording(t *testing.T) {
	r := NewRecorder(&fakeSource{}, zap.NewNop())

	_, err := r.Stop()
	assert.ErrorIs(t, err, ErrNotRecording)
}

func TestRecorderStopFailureReturnsToIdle(t *testing.T) {
	src := &fakeSource{stopErr: errors.New("capture produced no audio")}
	r := NewRecorder(src, zap.NewNop())

	require.NoError(t, r.Start(context.Background()))
	_, err := r.Stop()
	require.Error(t, err)
	assert.Equal(t, PhaseIdle, r.Phase())
}

func TestRecorderResetOnlyFromStopped(t *testing.T) {
	src := &fakeSource{}
	r := NewRecorder(src, zap.NewNop())

	require.NoError(t, r.Start(context.Background()))
	r.Reset()
	assert.Equal(t, PhaseRecording, r.Phase(), "reset does not interrupt an active recording")
}
