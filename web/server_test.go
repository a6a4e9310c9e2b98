package web

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"github.com/tsawler/marginalia/model"
)

// annotatedPDF builds a one-page PDF carrying a single note annotation.
func annotatedPDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := pdf.NewWriter(&buf, pdf.V1_7, nil)
	if err != nil {
		t.Fatalf("creating writer: %v", err)
	}
	rm := pdf.NewResourceManager(w)
	tree := pagetree.NewWriter(w, rm)

	annotRef := w.Alloc()
	if err := w.Put(annotRef, pdf.Dict{
		"Type":     pdf.Name("Annot"),
		"Subtype":  pdf.Name("Text"),
		"Rect":     pdf.Array{pdf.Integer(72), pdf.Integer(700), pdf.Integer(92), pdf.Integer(720)},
		"Contents": pdf.String("needs a citation"),
	}); err != nil {
		t.Fatalf("writing annotation: %v", err)
	}

	if err := tree.AppendPageDict(w.Alloc(), pdf.Dict{
		"Type":     pdf.Name("Page"),
		"MediaBox": &pdf.Rectangle{LLx: 0, LLy: 0, URx: 612, URy: 792},
		"Annots":   pdf.Array{annotRef},
	}); err != nil {
		t.Fatalf("appending page: %v", err)
	}

	ref, err := tree.Close()
	if err != nil {
		t.Fatalf("closing tree: %v", err)
	}
	w.GetMeta().Catalog.Pages = ref
	if err := rm.Close(); err != nil {
		t.Fatalf("closing resource manager: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, url, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func testServer() *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewServer(log)
}

func TestFlattenEndpoint(t *testing.T) {
	handler := testServer().Handler()

	req := uploadRequest(t, "/flatten", "review.pdf", annotatedPDF(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "review_flattened.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	var stats model.Stats
	if err := sonic.Unmarshal([]byte(rec.Header().Get("X-Flatten-Stats")), &stats); err != nil {
		t.Fatalf("decoding stats header: %v", err)
	}
	if stats.TotalAnnotations != 1 || stats.AnnotatedPages != 1 {
		t.Errorf("stats = %+v", stats)
	}

	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("response body is not a PDF")
	}
}

func TestFlattenEndpointRejectsGarbage(t *testing.T) {
	handler := testServer().Handler()

	req := uploadRequest(t, "/flatten", "junk.pdf", []byte("not a pdf at all"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if !strings.Contains(body.Error, "flattening failed") {
		t.Errorf("error = %q, want a flattening failure", body.Error)
	}
}

func TestFlattenEndpointRequiresPost(t *testing.T) {
	handler := testServer().Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/flatten", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestFlattenEndpointRequiresFile(t *testing.T) {
	handler := testServer().Handler()

	req := httptest.NewRequest(http.MethodPost, "/flatten", strings.NewReader(""))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestIndexServesForm(t *testing.T) {
	handler := testServer().Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `action="/flatten"`) {
		t.Error("upload form missing from index page")
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"review.pdf", "review_flattened.pdf"},
		{"REPORT.PDF", "REPORT_flattened.pdf"},
		{"notes", "notes_flattened.pdf"},
		{"", "flattened.pdf"},
	}
	for _, tt := range tests {
		if got := outputName(tt.in); got != tt.want {
			t.Errorf("outputName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
