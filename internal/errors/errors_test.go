package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCodeAndCause(t *testing.T) {
	root := stderrors.New("partition count must be positive")
	err := Wrap(ComputationFailed("Simpson failed", root), "comparison aborted")

	assert.Equal(t, CodeComputationFailed, GetCode(err))
	assert.True(t, stderrors.Is(err, root))
	assert.Equal(t, "comparison aborted: Simpson failed: partition count must be positive", err.Error())
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	err := Wrapf(stderrors.New("disk full"), "saving run %d", 3)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCode_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", InvalidInput("n must be an integer"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("x")))
}
