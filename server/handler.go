// Package server exposes the repository gateway over HTTP. Handlers decode
// per-request credentials, drive validation and the immutability protocol, and
// map the error taxonomy onto status codes; they hold no state of their own.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/j3t/mvnio/maven"
	"github.com/j3t/mvnio/storage"
)

const defaultMetadataLimit = 10

// Repository is the credential-scoped gateway to the backing object store.
type Repository interface {
	Upload(ctx context.Context, creds storage.Credentials, repository, key, contentType string, contentLength int64, body io.Reader, ifAbsent bool) error
	Download(ctx context.Context, creds storage.Credentials, repository, key string) (*storage.Object, error)
	Head(ctx context.Context, creds storage.Credentials, repository, key string) error
	List(ctx context.Context, creds storage.Credentials, repository, path string) ([]string, error)
	Metadata(ctx context.Context, creds storage.Credentials, repository, startAfter string, limit int) ([]string, error)
}

// Handler serves the Maven repository endpoints.
type Handler struct {
	repo     Repository
	validate bool
	logger   *slog.Logger
}

// NewHandler creates the HTTP handler. When validate is false, non-metadata
// paths are accepted without artifact-grammar checks; the immutability
// protocol still applies to them.
func NewHandler(repo Repository, validate bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{repo: repo, validate: validate, logger: logger}
}

// RegisterRoutes registers the repository routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /maven/{repository}/{path...}", h.upload)
	mux.HandleFunc("GET /maven/{repository}/{path...}", h.download)
	mux.HandleFunc("GET /metadata/{repository}", h.metadata)
	mux.HandleFunc("GET /list/{repository}/{path...}", h.list)
	mux.HandleFunc("GET /healthz", h.health)
}

// credentials decodes the caller's basic-auth credentials. The repository
// name rides on the error so the 401 challenge can name the target bucket,
// also when the header is missing or malformed.
func credentials(r *http.Request, repository string) (storage.Credentials, error) {
	user, pass, ok := r.BasicAuth()
	if !ok {
		return storage.Credentials{}, &storage.NotAuthorizedError{Repository: repository}
	}
	return storage.Credentials{AccessKey: user, SecretKey: pass}, nil
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	repository := r.PathValue("repository")
	artifactPath := "/" + r.PathValue("path")
	key := strings.TrimPrefix(artifactPath, "/")

	creds, err := credentials(r, repository)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if r.ContentLength < 0 {
		http.Error(w, "Content-Length required", http.StatusLengthRequired)
		return
	}

	// Metadata files are mutable and exempt from grammar validation; anything
	// else runs the existence check before the store write.
	if !maven.IsMetadataPath(artifactPath) {
		if h.validate {
			if verr := maven.ValidateArtifactPath(artifactPath); verr != nil {
				h.writeError(w, r, &pathNotValidError{cause: verr})
				return
			}
		}
		switch err := h.repo.Head(r.Context(), creds, repository, key); {
		case err == nil:
			h.writeError(w, r, storage.ErrAlreadyExists)
			return
		case !errors.Is(err, storage.ErrNotFound):
			h.writeError(w, r, err)
			return
		}
	}

	contentType := h.contentType(r, artifactPath)
	ifAbsent := !maven.IsMetadataPath(artifactPath)
	if err := h.repo.Upload(r.Context(), creds, repository, key, contentType, r.ContentLength, r.Body, ifAbsent); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// contentType resolves the media type to record with the object: the caller's
// explicit header wins, then the extension table, then a binary fallback.
func (h *Handler) contentType(r *http.Request, path string) string {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := maven.MediaTypeByPath(path); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	repository := r.PathValue("repository")
	key := r.PathValue("path")

	creds, err := credentials(r, repository)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	obj, err := h.repo.Download(r.Context(), creds, repository, key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	if _, err := io.Copy(w, obj.Body); err != nil {
		// Headers are out; nothing left to do but stop the transfer.
		h.logger.Debug("download aborted", "repository", repository, "key", key, "error", err)
	}
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	repository := r.PathValue("repository")

	creds, err := credentials(r, repository)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	// The feed emits absolute paths, so accept them as cursors too.
	startAfter := strings.TrimPrefix(r.URL.Query().Get("startAfter"), "/")
	limit := defaultMetadataLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	paths, err := h.repo.Metadata(r.Context(), creds, repository, startAfter, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paths)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	repository := r.PathValue("repository")
	path := r.PathValue("path")

	creds, err := credentials(r, repository)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	entries, err := h.repo.List(r.Context(), creds, repository, path)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

// pathNotValidError wraps a grammar rejection for status mapping. The response
// body is fixed; the underlying sub-check failure goes to the log only.
type pathNotValidError struct {
	cause *maven.Error
}

func (e *pathNotValidError) Error() string { return "Path validation failed" }

func (e *pathNotValidError) Unwrap() error { return e.cause }

// writeError maps the error taxonomy onto HTTP statuses: NotAuthorized 401
// with challenge, AlreadyExists 403, PathNotValid 400, missing repository or
// artifact 404, other store faults keep the store's status, fallback 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var notAuth *storage.NotAuthorizedError
	var pathErr *pathNotValidError
	var storeErr *storage.StoreError
	switch {
	case errors.As(err, &notAuth):
		status = http.StatusUnauthorized
		w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q, bucket=%q", "s3", notAuth.Repository))
	case errors.As(err, &pathErr):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrAlreadyExists):
		status = http.StatusForbidden
	case errors.Is(err, storage.ErrRepositoryNotFound), errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &storeErr):
		if storeErr.StatusCode > 0 {
			status = storeErr.StatusCode
		}
	}

	if status < http.StatusInternalServerError {
		h.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if s, ok := v.([]string); ok && s == nil {
		v = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
