package function

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SakethVetcha/Excel-Sheet-Analyser/internal/config"
)

// stubInvoker returns a canned result instead of spawning a subprocess.
type stubInvoker struct {
	result    *InvokeResult
	err       error
	lastInput string
}

func (s *stubInvoker) Invoke(_ context.Context, inputPath, _ string) (*InvokeResult, error) {
	s.lastInput = inputPath
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.UploadDir = t.TempDir()
	return cfg
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_Analyze_RelaysJSONEnvelope(t *testing.T) {
	invoker := &stubInvoker{result: &InvokeResult{
		Stdout: []byte(`{"statusCode":200,"headers":{"Content-Type":"application/json"},"body":"{\"total\":150}"}`),
	}}
	handler := NewHandler(testConfig(t), invoker, slog.Default())

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, uploadRequest(t, "sales.xlsx", []byte("workbook bytes")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"total":150}`, rec.Body.String())
	assert.NotEmpty(t, invoker.lastInput)
}

func TestHandler_Analyze_RelaysRawTextAsHTML(t *testing.T) {
	invoker := &stubInvoker{result: &InvokeResult{
		Stdout: []byte("=== BASIC STATISTICS ===\n"),
	}}
	handler := NewHandler(testConfig(t), invoker, slog.Default())

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, uploadRequest(t, "sales.xlsx", []byte("workbook bytes")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "BASIC STATISTICS")
}

func TestHandler_Analyze_SubprocessFailureBecomes500(t *testing.T) {
	invoker := &stubInvoker{result: &InvokeResult{
		Stderr:   []byte("missing column: price"),
		ExitCode: 1,
	}}
	handler := NewHandler(testConfig(t), invoker, slog.Default())

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, uploadRequest(t, "sales.xlsx", []byte("workbook bytes")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing column: price")
}

func TestHandler_Analyze_MissingFile(t *testing.T) {
	handler := NewHandler(testConfig(t), &stubInvoker{}, slog.Default())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_FILE")
}

func TestHandler_Analyze_RejectsNonExcelUpload(t *testing.T) {
	handler := NewHandler(testConfig(t), &stubInvoker{}, slog.Default())

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, uploadRequest(t, "notes.txt", []byte("plain text")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_FILE_TYPE")
}

func TestHandler_Analyze_RejectsOversizedUpload(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.MaxUploadBytes = 64
	handler := NewHandler(cfg, &stubInvoker{}, slog.Default())

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, uploadRequest(t, "sales.xlsx", bytes.Repeat([]byte("x"), 4096)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "FILE_TOO_LARGE")
}

func TestHandler_Health(t *testing.T) {
	handler := NewHandler(testConfig(t), &stubInvoker{}, slog.Default())

	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
