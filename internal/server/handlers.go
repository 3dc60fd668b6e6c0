package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"log/slog"

	"genreshift/internal/api"
	"genreshift/internal/deps"
	"genreshift/internal/logging"
)

// multipartOverheadBytes allows for field boundaries and headers beyond
// the raw file payload when capping upload request bodies.
const multipartOverheadBytes = 1 << 20

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.ledgerSvc.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	payload := api.ServiceStatus{
		Running:      true,
		PID:          os.Getpid(),
		LedgerDBPath: s.store.Path(),
		UploadDir:    s.cfg.Paths.UploadDir,
		OutputDir:    s.cfg.Paths.OutputDir,
		Ledger:       stats,
		Dependencies: api.FromDependencies(deps.CheckBinaries(deps.Requirements(s.cfg))),
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromRegistry(s.registry))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes()+multipartOverheadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}
	artifact, err := s.artifacts.Store(r.Context(), header.Filename, contentType, file)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if err := s.notifier.NotifyUploadReceived(r.Context(), artifact.OriginalName, artifact.SizeBytes); err != nil {
		s.logger.Warn("upload notification failed", logging.Error(err))
	}
	s.logger.Info("artifact stored",
		slog.Int64("artifact_id", artifact.ID),
		slog.String("original_name", artifact.OriginalName),
		slog.Int64("size_bytes", artifact.SizeBytes))
	s.writeJSON(w, http.StatusCreated, api.ArtifactResponse{Artifact: api.FromArtifact(artifact)})
}

func (s *Server) handleUploads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	items, err := s.ledgerSvc.ListArtifacts(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.ArtifactListResponse{Artifacts: items})
}

// handleUploadItem routes /api/uploads/{id}, /api/uploads/{id}/download,
// and /api/uploads/{id}/transform/{genre}/download.
func (s *Server) handleUploadItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/uploads/")
	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		s.writeError(w, http.StatusNotFound, "upload not found")
		return
	}
	id, err := strconv.ParseInt(segments[0], 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid upload id")
		return
	}

	switch {
	case len(segments) == 1:
		s.handleUploadDetail(w, r, id)
	case len(segments) == 2 && segments[1] == "download":
		s.handleUploadDownload(w, r, id)
	case len(segments) == 4 && segments[1] == "transform" && segments[3] == "download":
		s.handleTransformDownload(w, r, id, segments[2])
	default:
		s.writeError(w, http.StatusNotFound, "upload not found")
	}
}

func (s *Server) handleUploadDetail(w http.ResponseWriter, r *http.Request, id int64) {
	resp, err := s.ledgerSvc.DescribeArtifact(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp == nil {
		s.writeError(w, http.StatusNotFound, "upload not found")
		return
	}
	s.writeJSON(w, http.StatusOK, *resp)
}

func (s *Server) handleUploadDownload(w http.ResponseWriter, r *http.Request, id int64) {
	artifact, err := s.artifacts.Resolve(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	serveDownload(w, r, artifact.Path, artifact.OriginalName)
}

func (s *Server) handleTransformDownload(w http.ResponseWriter, r *http.Request, id int64, genre string) {
	result, err := s.transformer.EnsureTransformed(r.Context(), id, genre)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	name := downloadName(result.Artifact.OriginalName, result.Request.Genre, result.Request.OutputPath)
	serveDownload(w, r, result.Request.OutputPath, name)
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		ArtifactID int64  `json:"artifactId"`
		Genre      string `json:"genre"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ArtifactID <= 0 {
		s.writeError(w, http.StatusBadRequest, "artifactId is required")
		return
	}
	if strings.TrimSpace(body.Genre) == "" {
		s.writeError(w, http.StatusBadRequest, "genre is required")
		return
	}
	result, err := s.transformer.EnsureTransformed(r.Context(), body.ArtifactID, body.Genre)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.RequestResponse{
		Request:  api.FromRequest(result.Request),
		CacheHit: result.CacheHit,
	})
}

func (s *Server) handleTransformItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/api/transform/")
	if idStr == "" || strings.Contains(idStr, "/") {
		s.writeError(w, http.StatusNotFound, "transform request not found")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid transform request id")
		return
	}
	request, err := s.ledgerSvc.DescribeRequest(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if request == nil {
		s.writeError(w, http.StatusNotFound, "transform request not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.RequestResponse{Request: *request})
}

// serveDownload streams a file as an attachment. ServeFile handles range
// requests and content type sniffing.
func serveDownload(w http.ResponseWriter, r *http.Request, path, name string) {
	if name == "" {
		name = filepath.Base(path)
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+strings.ReplaceAll(name, "\"", "")+"\"")
	http.ServeFile(w, r, path)
}

// downloadName derives a client-facing filename for a transformed
// rendition from the original upload name.
func downloadName(originalName, genre, outputPath string) string {
	if originalName == "" {
		return filepath.Base(outputPath)
	}
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(originalName, ext)
	if genre != "" {
		return base + "_" + genre + ext
	}
	return originalName
}
