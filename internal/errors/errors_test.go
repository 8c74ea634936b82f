package errors

import (
	stderrors "errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WrappingAndType(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewWriteError("failed to save report", cause)

	assert.Contains(t, err.Error(), "[WRITE]")
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("pipeline failed: %w", err)
	assert.True(t, IsType(wrapped, ErrTypeWrite))
	assert.False(t, IsType(wrapped, ErrTypeLoad))
	assert.False(t, IsType(stderrors.New("plain"), ErrTypeWrite))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewLoadError("missing column", nil).WithContext("column", "price")

	assert.Equal(t, "price", err.Context["column"])
}

func TestWriteError_RendersEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrInvalidFileType)

	assert.Equal(t, ErrInvalidFileType.StatusCode, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "INVALID_FILE_TYPE")
}

func TestErrAnalyzerExecution(t *testing.T) {
	err := ErrAnalyzerExecution("missing column: price")
	assert.Equal(t, 500, err.StatusCode)
	assert.Equal(t, "missing column: price", err.Message)

	require.NotNil(t, ErrAnalyzerExecution(""))
	assert.NotEmpty(t, ErrAnalyzerExecution("").Message)
}
