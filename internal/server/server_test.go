package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genreshift/internal/api"
	"genreshift/internal/artifacts"
	"genreshift/internal/genres"
	"genreshift/internal/ledger"
	"genreshift/internal/logging"
	"genreshift/internal/services"
	"genreshift/internal/testsupport"
	"genreshift/internal/transform"

	"genreshift/internal/server"
)

type fakeTransformer struct {
	fn func(ctx context.Context, artifactID int64, genre string) (*transform.Result, error)
}

func (f *fakeTransformer) EnsureTransformed(ctx context.Context, artifactID int64, genre string) (*transform.Result, error) {
	return f.fn(ctx, artifactID, genre)
}

func newServer(t *testing.T, transformer server.Transformer) (http.Handler, *ledger.Store, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	registry := genres.NewRegistry()
	artifactSvc := artifacts.NewService(cfg, store, registry, logging.NewNop())
	srv := server.New(cfg, store, registry, artifactSvc, transformer, nil, logging.NewNop())
	return srv.Handler(), store, cfg.Paths.OutputDir
}

func uploadRequest(t *testing.T, filename string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("writing multipart payload failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
}

func TestUploadStoresArtifact(t *testing.T) {
	handler, store, _ := newServer(t, &fakeTransformer{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, uploadRequest(t, "My Song.mp3", []byte("audio-bytes")))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp api.ArtifactResponse
	decodeJSON(t, rec, &resp)
	if resp.Artifact.ID == 0 {
		t.Fatal("expected artifact id in response")
	}
	if resp.Artifact.OriginalName != "My Song.mp3" {
		t.Fatalf("unexpected original name %q", resp.Artifact.OriginalName)
	}

	stored, err := store.GetArtifact(context.Background(), resp.Artifact.ID)
	if err != nil || stored == nil {
		t.Fatalf("artifact not persisted: %v", err)
	}
	if _, err := os.Stat(stored.Path); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestUploadRequiresFileField(t *testing.T) {
	handler, _, _ := newServer(t, &fakeTransformer{})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	handler, _, _ := newServer(t, &fakeTransformer{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, uploadRequest(t, "notes.txt", []byte("hello")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported extension, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUploadListAndDetail(t *testing.T) {
	handler, store, _ := newServer(t, &fakeTransformer{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, uploadRequest(t, "song.wav", []byte("wav-bytes")))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d", rec.Code)
	}
	var created api.ArtifactResponse
	decodeJSON(t, rec, &created)

	if _, err := store.NewRequest(context.Background(), created.Artifact.ID, "jazz"); err != nil {
		t.Fatalf("seeding request failed: %v", err)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d", rec.Code)
	}
	var list api.ArtifactListResponse
	decodeJSON(t, rec, &list)
	if len(list.Artifacts) != 1 {
		t.Fatalf("expected 1 artifact, got %d", len(list.Artifacts))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/uploads/%d", created.Artifact.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("detail failed: %d", rec.Code)
	}
	var detail api.ArtifactResponse
	decodeJSON(t, rec, &detail)
	if len(detail.Requests) != 1 || detail.Requests[0].Genre != "jazz" {
		t.Fatalf("unexpected request history: %#v", detail.Requests)
	}
}

func TestUploadDetailMissing(t *testing.T) {
	handler, _, _ := newServer(t, &fakeTransformer{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/uploads/42", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUploadDownloadStreamsOriginal(t *testing.T) {
	handler, _, _ := newServer(t, &fakeTransformer{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, uploadRequest(t, "tune.mp3", []byte("original-audio")))
	var created api.ArtifactResponse
	decodeJSON(t, rec, &created)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/uploads/%d/download", created.Artifact.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download failed: %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != "original-audio" {
		t.Fatalf("unexpected download body %q", got)
	}
	if disposition := rec.Header().Get("Content-Disposition"); !strings.Contains(disposition, "tune.mp3") {
		t.Fatalf("unexpected content disposition %q", disposition)
	}
}

func TestTransformInvokesTransformer(t *testing.T) {
	var gotID int64
	var gotGenre string
	transformer := &fakeTransformer{fn: func(_ context.Context, artifactID int64, genre string) (*transform.Result, error) {
		gotID = artifactID
		gotGenre = genre
		return &transform.Result{
			Artifact: &ledger.Artifact{ID: artifactID, OriginalName: "tune.mp3"},
			Request:  &ledger.Request{ID: 5, ArtifactID: artifactID, Genre: "jazz", Status: ledger.StatusCompleted, Outcome: ledger.OutcomeTransformed},
			CacheHit: true,
		}, nil
	}}
	handler, _, _ := newServer(t, transformer)

	body := strings.NewReader(`{"artifactId": 3, "genre": "jazz"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/transform", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("transform failed: %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != 3 || gotGenre != "jazz" {
		t.Fatalf("transformer received (%d, %q)", gotID, gotGenre)
	}

	var resp api.RequestResponse
	decodeJSON(t, rec, &resp)
	if !resp.CacheHit {
		t.Fatal("expected cacheHit true")
	}
	if resp.Request.Outcome != "transformed" {
		t.Fatalf("unexpected outcome %q", resp.Request.Outcome)
	}
}

func TestTransformValidatesBody(t *testing.T) {
	handler, _, _ := newServer(t, &fakeTransformer{})

	for name, payload := range map[string]string{
		"invalid json":       "{",
		"missing artifactId": `{"genre": "jazz"}`,
		"missing genre":      `{"artifactId": 3}`,
		"blank genre":        `{"artifactId": 3, "genre": "  "}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/transform", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestTransformErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", services.Wrap(services.ErrNotFound, "transform", "resolve", "artifact 9 not found", nil), http.StatusNotFound},
		{"invalid input", services.Wrap(services.ErrInvalidInput, "transform", "resolve", "unknown genre", nil), http.StatusBadRequest},
		{"storage", services.Wrap(services.ErrStorage, "transform", "execute", "fallback copy failed", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transformer := &fakeTransformer{fn: func(context.Context, int64, string) (*transform.Result, error) {
				return nil, tc.err
			}}
			handler, _, _ := newServer(t, transformer)

			req := httptest.NewRequest(http.MethodPost, "/api/transform", strings.NewReader(`{"artifactId": 9, "genre": "jazz"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestTransformDownloadStreamsRendition(t *testing.T) {
	var handler http.Handler
	var outputDir string
	transformer := &fakeTransformer{fn: func(_ context.Context, artifactID int64, genre string) (*transform.Result, error) {
		outputPath := filepath.Join(outputDir, "stored_jazz.mp3")
		if err := os.WriteFile(outputPath, []byte("jazz-rendition"), 0o644); err != nil {
			return nil, err
		}
		return &transform.Result{
			Artifact: &ledger.Artifact{ID: artifactID, OriginalName: "tune.mp3"},
			Request:  &ledger.Request{ID: 1, ArtifactID: artifactID, Genre: genre, Status: ledger.StatusCompleted, Outcome: ledger.OutcomeTransformed, OutputPath: outputPath},
		}, nil
	}}
	handler, _, outputDir = newServer(t, transformer)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/uploads/7/transform/jazz/download", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download failed: %d: %s", rec.Code, rec.Body.String())
	}
	payload, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("reading body failed: %v", err)
	}
	if string(payload) != "jazz-rendition" {
		t.Fatalf("unexpected body %q", payload)
	}
	if disposition := rec.Header().Get("Content-Disposition"); !strings.Contains(disposition, "tune_jazz.mp3") {
		t.Fatalf("unexpected content disposition %q", disposition)
	}
}

func TestTransformRequestDetail(t *testing.T) {
	handler, store, _ := newServer(t, &fakeTransformer{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, uploadRequest(t, "song.flac", []byte("flac-bytes")))
	var created api.ArtifactResponse
	decodeJSON(t, rec, &created)

	request, err := store.NewRequest(context.Background(), created.Artifact.ID, "rock")
	if err != nil {
		t.Fatalf("seeding request failed: %v", err)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/transform/%d", request.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("detail failed: %d", rec.Code)
	}
	var resp api.RequestResponse
	decodeJSON(t, rec, &resp)
	if resp.Request.Genre != "rock" || resp.Request.Status != "pending" {
		t.Fatalf("unexpected request payload: %#v", resp.Request)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transform/999", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing request, got %d", rec.Code)
	}
}

func TestGenresEndpoint(t *testing.T) {
	handler, _, _ := newServer(t, &fakeTransformer{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/genres", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("genres failed: %d", rec.Code)
	}
	var resp api.GenreListResponse
	decodeJSON(t, rec, &resp)
	if len(resp.Genres) != 8 {
		t.Fatalf("expected 8 genres, got %d", len(resp.Genres))
	}
	if resp.Default == "" {
		t.Fatal("expected default genre")
	}
}

func TestStatusEndpoint(t *testing.T) {
	handler, _, _ := newServer(t, &fakeTransformer{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status failed: %d", rec.Code)
	}
	var resp api.ServiceStatus
	decodeJSON(t, rec, &resp)
	if !resp.Running {
		t.Fatal("expected running true")
	}
	if resp.LedgerDBPath == "" {
		t.Fatal("expected ledger database path")
	}
	if len(resp.Dependencies) == 0 {
		t.Fatal("expected dependency report")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler, _, _ := newServer(t, &fakeTransformer{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/uploads", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
