package apperr

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("train: %w", NewTrainingError("need at least 2 classes", nil))
	assert.Equal(t, KindTraining, KindOf(err))
	assert.True(t, Is(err, KindTraining))
	assert.False(t, Is(err, KindData))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(io.EOF))
	assert.Equal(t, "internal error", MessageOf(io.EOF))
	assert.False(t, Is(nil, KindInternal))
}

func TestErrorUnwrap(t *testing.T) {
	err := NewDataError("read dataset", io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "DATA: read dataset: unexpected EOF", err.Error())
}

func TestArtifactMissingMessage(t *testing.T) {
	err := NewArtifactMissing("model")
	assert.Equal(t, "model not found, run training first", MessageOf(err))
}
