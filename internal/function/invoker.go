// Package function implements the serverless-style wrapper around the
// analyzer CLI: it spawns one analyzer subprocess per request and converts
// the subprocess stdout and exit code into an HTTP response.
package function

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	apperrors "github.com/SakethVetcha/Excel-Sheet-Analyser/internal/errors"
)

// InvokeResult captures one analyzer subprocess run.
type InvokeResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Failed reports whether the run should map to an error response: a
// non-zero exit, or nothing on stdout while stderr carries content.
func (r *InvokeResult) Failed() bool {
	if r.ExitCode != 0 {
		return true
	}
	return len(bytes.TrimSpace(r.Stdout)) == 0 && len(bytes.TrimSpace(r.Stderr)) > 0
}

// ErrorMessage returns the captured stderr, trimmed, with a fallback for a
// silent failure.
func (r *InvokeResult) ErrorMessage() string {
	msg := strings.TrimSpace(string(r.Stderr))
	if msg == "" {
		msg = "analyzer exited without output"
	}
	return msg
}

// Invoker runs the analyzer binary as a subprocess.
type Invoker interface {
	Invoke(ctx context.Context, inputPath, outputDir string) (*InvokeResult, error)
}

// AnalyzerInvoker is the exec-based Invoker used in production. One
// subprocess per request, waited on synchronously.
type AnalyzerInvoker struct {
	bin    string
	logger *slog.Logger
}

// NewAnalyzerInvoker creates an invoker for the given analyzer binary.
func NewAnalyzerInvoker(bin string, logger *slog.Logger) *AnalyzerInvoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzerInvoker{bin: bin, logger: logger}
}

// Invoke runs the analyzer against inputPath, directing report output into
// outputDir, and captures stdout, stderr and the exit code. A non-zero exit
// is not an error here: the caller maps it to an HTTP response.
func (a *AnalyzerInvoker) Invoke(ctx context.Context, inputPath, outputDir string) (*InvokeResult, error) {
	cmd := exec.CommandContext(ctx, a.bin, "-in", inputPath, "-out-dir", outputDir, "-emit", "json")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	a.logger.InfoContext(ctx, "invoking analyzer subprocess",
		slog.String("bin", a.bin),
		slog.String("input", inputPath),
		slog.String("output_dir", outputDir))

	err := cmd.Run()
	result := &InvokeResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// The subprocess never started (missing binary, bad path).
			return nil, apperrors.NewInvokeError("failed to start analyzer subprocess", err)
		}
	}

	a.logger.InfoContext(ctx, "analyzer subprocess finished",
		slog.Int("exit_code", result.ExitCode),
		slog.Int("stdout_bytes", len(result.Stdout)),
		slog.Int("stderr_bytes", len(result.Stderr)))

	return result, nil
}

// FunctionResponse is the wire shape the analyzer may print on stdout and
// the shape the wrapper replays to the HTTP client.
type FunctionResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

// MapOutput converts a subprocess result into the response to relay:
//   - failed run: 500 with the captured stderr as the message body;
//   - stdout that parses as a JSON object with statusCode: replayed as-is;
//   - anything else: 200 with raw stdout as an HTML body.
func MapOutput(result *InvokeResult) FunctionResponse {
	if result.Failed() {
		return FunctionResponse{
			StatusCode: 500,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       result.ErrorMessage(),
		}
	}

	var resp FunctionResponse
	if err := json.Unmarshal(bytes.TrimSpace(result.Stdout), &resp); err == nil && resp.StatusCode != 0 {
		if resp.Headers == nil {
			resp.Headers = map[string]string{}
		}
		return resp
	}

	return FunctionResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "text/html; charset=utf-8"},
		Body:       string(result.Stdout),
	}
}
