package web

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"github.com/tsawler/marginalia"
)

// DefaultMaxUploadBytes bounds uploads when no limit is configured.
const DefaultMaxUploadBytes = 64 << 20 // 64 MiB

// Server handles flatten requests over HTTP.
type Server struct {
	log       *logrus.Logger
	maxUpload int64
}

// NewServer creates a Server logging through log. A nil log uses the
// logrus standard logger.
func NewServer(log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		log:       log,
		maxUpload: DefaultMaxUploadBytes,
	}
}

// MaxUploadBytes sets the upload size limit and returns the server.
func (s *Server) MaxUploadBytes(n int64) *Server {
	s.maxUpload = n
	return s
}

// Handler returns the HTTP handler serving the upload form and the
// flatten endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/flatten", s.handleFlatten)
	return s.withLogging(mux)
}

// ListenAndServe serves on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.log.WithField("addr", addr).Info("listening")
	return http.ListenAndServe(addr, s.Handler())
}

// withLogging wraps a handler with per-request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Info("request")
	})
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexHTML)
}

// handleFlatten accepts a multipart upload under the "file" field,
// flattens it, and returns the result as a PDF attachment. Statistics for
// the run travel in the X-Flatten-Stats header as JSON; failures come back
// as a JSON error body.
func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "reading upload")
		return
	}

	out, stats, err := marginalia.FromBytes(data).Flatten()
	if err != nil {
		s.log.WithError(err).WithField("file", header.Filename).Warn("flatten failed")
		s.jsonError(w, http.StatusUnprocessableEntity, fmt.Sprintf("flattening failed: %v", err))
		return
	}

	statsJSON, err := sonic.Marshal(stats)
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "encoding stats")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", outputName(header.Filename)))
	w.Header().Set("X-Flatten-Stats", string(statsJSON))
	w.Write(out)
}

// jsonError writes an error response as a JSON object with a single
// "error" field.
func (s *Server) jsonError(w http.ResponseWriter, status int, msg string) {
	body, err := sonic.Marshal(map[string]string{"error": msg})
	if err != nil {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// outputName derives the download filename from the uploaded one.
func outputName(in string) string {
	if in == "" {
		return "flattened.pdf"
	}
	if strings.HasSuffix(strings.ToLower(in), ".pdf") {
		return in[:len(in)-len(".pdf")] + "_flattened.pdf"
	}
	return in + "_flattened.pdf"
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>PDF Annotation Flattener</title></head>
<body>
<h1>PDF Annotation Flattener</h1>
<p>Flattens PDF annotations onto pages with numbered summary pages.</p>
<form action="/flatten" method="post" enctype="multipart/form-data">
  <input type="file" name="file" accept=".pdf" required>
  <button type="submit">Flatten</button>
</form>
</body>
</html>
`
