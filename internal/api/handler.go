package api

import (
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/arcanejobs/arcanejobs/internal/job"
)

//go:embed static/index.html
var frontendHTML []byte

// maxImportBytes caps request bodies; export files of a few thousand jobs fit easily.
const maxImportBytes = 5 << 20

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	store  *job.Store
	events *Events
}

// NewHandler constructs a Handler and starts forwarding store changes to SSE clients.
func NewHandler(store *job.Store) *Handler {
	events := NewEvents()
	store.Subscribe(events.Publish)
	return &Handler{store: store, events: events}
}

// RegisterRoutes registers all API routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.ServeFrontend)
	mux.HandleFunc("GET /api/v1/jobs", h.ListJobs)
	mux.HandleFunc("POST /api/v1/jobs", h.CreateJob)
	mux.HandleFunc("GET /api/v1/jobs/{id}", h.GetJob)
	mux.HandleFunc("PUT /api/v1/jobs/{id}", h.UpdateJob)
	mux.HandleFunc("DELETE /api/v1/jobs/{id}", h.DeleteJob)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("GET /api/v1/export", h.Export)
	mux.HandleFunc("POST /api/v1/import", h.Import)
	mux.HandleFunc("GET /api/v1/events", h.StreamEvents)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ServeFrontend serves the embedded single-page UI.
func (h *Handler) ServeFrontend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(frontendHTML) //nolint:errcheck
}

// ListJobs handles GET /api/v1/jobs?q=&status= and responds with the
// matching jobs, newest application first.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := job.Query{
		Search: r.URL.Query().Get("q"),
		Status: r.URL.Query().Get("status"),
	}
	if q.Status != "" && q.Status != job.StatusAll && !job.Status(q.Status).IsValid() {
		writeError(w, http.StatusBadRequest, "status must be one of: All, Applied, Interviewing, Offer, Rejected")
		return
	}

	jobs := h.store.List(q)
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// CreateJob handles POST /api/v1/jobs and responds 201 with the created job.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var f job.Fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := h.store.Create(r.Context(), f)
	if err != nil {
		writeStoreError(w, err, "failed to create job")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetJob handles GET /api/v1/jobs/{id}.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	j, ok := h.store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, j)
}

// UpdateJob handles PUT /api/v1/jobs/{id}. The id in the path wins over any id in the body.
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var rec job.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	rec.ID = r.PathValue("id")

	updated, err := h.store.Update(r.Context(), rec)
	if err != nil {
		writeStoreError(w, err, "failed to update job")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteJob handles DELETE /api/v1/jobs/{id} and responds 204.
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.store.Get(id); !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "failed to delete job")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats())
}

// Export handles GET /api/v1/export and streams the export envelope as a download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+job.ExportFilename(time.Now())+`"`)

	n, err := h.store.Export(w)
	if err != nil {
		slog.Error("export failed", "error", err)
		return
	}
	slog.Info("exported jobs", "count", n)
}

// Import handles POST /api/v1/import?mode=merge|replace. The mode carries the
// user's answer to the replace-or-merge question and is mandatory.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var merge bool
	switch job.ImportMode(r.URL.Query().Get("mode")) {
	case job.ImportMerge:
		merge = true
	case job.ImportReplace:
	default:
		writeError(w, http.StatusBadRequest, "mode must be 'merge' or 'replace'")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "import file too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read import body")
		return
	}

	res, err := h.store.Import(r.Context(), body, merge)
	if err != nil {
		var ferr *job.ImportFormatError
		if errors.As(err, &ferr) {
			writeError(w, http.StatusBadRequest, "Import failed: "+ferr.Error())
			return
		}
		slog.Error("import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to import jobs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"mode":    res.Mode,
		"added":   res.Added,
		"skipped": res.Skipped,
		"message": res.Message(),
	})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "jobs": h.store.Len()})
}

// writeStoreError maps store errors onto HTTP responses.
func writeStoreError(w http.ResponseWriter, err error, fallback string) {
	var verrs job.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verrs,
		})
	case errors.Is(err, job.ErrNotFound):
		writeError(w, http.StatusNotFound, "job not found")
	default:
		slog.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
