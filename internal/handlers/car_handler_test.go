package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"fleetmaster/internal/models"
	"fleetmaster/internal/services"
)

type stubCarService struct {
	CarService
	gotType string
	gotBody []byte
}

func (s *stubCarService) SetImage(ctx context.Context, id int, contentType string, body io.Reader) (*models.Car, error) {
	if contentType != "image/png" && contentType != "image/jpeg" && contentType != "image/webp" {
		return nil, &services.ValidationError{Message: "Unsupported image type"}
	}
	s.gotType = contentType
	s.gotBody, _ = io.ReadAll(body)
	url := "https://cdn.example/cars/1/x.png"
	return &models.Car{ID: id, ImageURL: &url}, nil
}

func imageRouter(h *CarHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/car/{id}/image", h.UploadCarImage)
	return r
}

func multipartImage(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "photo")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadCarImageWithoutMultipartReturnsJSON(t *testing.T) {
	h := NewCarHandler(&stubCarService{})

	req := httptest.NewRequest(http.MethodPost, "/api/car/1/image", nil)
	w := httptest.NewRecorder()
	imageRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json got %q", ct)
	}
}

func TestUploadCarImageBadID(t *testing.T) {
	h := NewCarHandler(&stubCarService{})

	req := httptest.NewRequest(http.MethodPost, "/api/car/zero/image", nil)
	w := httptest.NewRecorder()
	imageRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestUploadCarImageSniffsContentType(t *testing.T) {
	svc := &stubCarService{}
	h := NewCarHandler(svc)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	body, ct := multipartImage(t, png)

	req := httptest.NewRequest(http.MethodPost, "/api/car/1/image", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	imageRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	if svc.gotType != "image/png" {
		t.Fatalf("expected image/png got %q", svc.gotType)
	}
	if !bytes.Equal(svc.gotBody, png) {
		t.Fatalf("uploaded body was not rewound before upload")
	}
}

func TestUploadCarImageRejectsText(t *testing.T) {
	h := NewCarHandler(&stubCarService{})
	body, ct := multipartImage(t, []byte("just some words"))

	req := httptest.NewRequest(http.MethodPost, "/api/car/1/image", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	imageRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d (%s)", w.Code, w.Body.String())
	}
}
