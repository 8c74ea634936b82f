package function

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/SakethVetcha/Excel-Sheet-Analyser/internal/config"
	apierrors "github.com/SakethVetcha/Excel-Sheet-Analyser/internal/errors"
	"github.com/SakethVetcha/Excel-Sheet-Analyser/internal/middleware"
)

// allowedExtensions mirrors the original upload surface: Excel workbooks only.
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

// Handler exposes the analyzer over HTTP.
type Handler struct {
	cfg     *config.Config
	invoker Invoker
	logger  *slog.Logger
}

// NewHandler creates the wrapper handler.
func NewHandler(cfg *config.Config, invoker Invoker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:     cfg,
		invoker: invoker,
		logger:  logger.With(slog.String("component", "function_handler")),
	}
}

// Routes returns the wrapper routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(h.logger))
	r.Use(middleware.Recoverer(h.logger))

	r.Post("/analyze", h.Analyze)
	r.Get("/healthz", h.Health)

	return r
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// Analyze handles POST /analyze: accepts a multipart workbook upload, runs
// the analyzer subprocess against it, and relays the subprocess output as
// the HTTP response.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// File names use a fresh server-side id; the client-supplied request id
	// stays in logs only.
	invocationID := uuid.NewString()

	h.logger.InfoContext(ctx, "analysis request received",
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("invocation_id", invocationID),
		slog.String("remote", r.RemoteAddr))

	inputPath, cleanup, apiErr := h.saveUpload(r, invocationID)
	if apiErr != nil {
		h.logger.WarnContext(ctx, "upload rejected",
			slog.String("error", apiErr.Message))
		apierrors.WriteError(w, apiErr)
		return
	}
	defer cleanup()

	outputDir := filepath.Join(h.cfg.Paths.UploadDir, invocationID)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		apierrors.WriteError(w, apierrors.FileSystemError("creating output directory", err))
		return
	}

	result, err := h.invoker.Invoke(ctx, inputPath, outputDir)
	if err != nil {
		h.logger.ErrorContext(ctx, "analyzer invocation failed",
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrAnalysisFailed)
		return
	}

	if result.Failed() {
		h.logger.ErrorContext(ctx, "analyzer subprocess failed",
			slog.Int("exit_code", result.ExitCode),
			slog.String("stderr", result.ErrorMessage()))
	}

	writeFunctionResponse(w, MapOutput(result))
}

// saveUpload extracts the workbook from the multipart form and stores it
// under the upload directory. The returned cleanup removes the stored file.
func (h *Handler) saveUpload(r *http.Request, invocationID string) (string, func(), *apierrors.APIError) {
	noop := func() {}

	r.Body = http.MaxBytesReader(nil, r.Body, h.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.Server.MaxUploadBytes); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return "", noop, apierrors.ErrFileTooLarge
		}
		return "", noop, apierrors.InvalidRequestWithError(err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", noop, apierrors.ErrMissingFile
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", noop, apierrors.ErrInvalidFileType
	}

	if err := h.cfg.EnsureUploadDir(); err != nil {
		return "", noop, apierrors.FileSystemError("creating upload directory", err)
	}

	// Prefix with the invocation id so concurrent uploads never collide.
	inputPath := filepath.Join(h.cfg.Paths.UploadDir, fmt.Sprintf("%s%s", invocationID, ext))
	out, err := os.Create(inputPath)
	if err != nil {
		return "", noop, apierrors.FileSystemError("saving upload", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(inputPath)
		return "", noop, apierrors.FileSystemError("saving upload", err)
	}

	return inputPath, func() { os.Remove(inputPath) }, nil
}

// writeFunctionResponse replays a mapped subprocess response verbatim.
func writeFunctionResponse(w http.ResponseWriter, resp FunctionResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(resp.StatusCode)
	io.WriteString(w, resp.Body)
}
