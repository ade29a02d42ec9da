// Package httpapi exposes the task service over HTTP with JSON bodies.
package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/forsidenis/kanban/internal/infra/logging"
	"github.com/forsidenis/kanban/internal/manager"
	"github.com/forsidenis/kanban/internal/service"
	"github.com/forsidenis/kanban/internal/telemetry"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handler serves the REST routes.
type Handler struct {
	svc     *service.Service
	metrics *telemetry.Metrics
	log     zerolog.Logger
}

// deleteResponse is the body of a single-entity DELETE.
type deleteResponse struct {
	ID      int  `json:"id"`
	Deleted bool `json:"deleted"`
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(svc *service.Service, metrics *telemetry.Metrics, logger zerolog.Logger) http.Handler {
	h := &Handler{
		svc:     svc,
		metrics: metrics,
		log:     logging.Component(logger, "httpapi"),
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(h.log, metrics))
	r.Use(chimw.RequestSize(maxBodyBytes))

	r.Get("/healthz", h.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", listAll(h.svc.Tasks))
		r.Post("/", h.postTask)
		r.Delete("/", h.clearAll(h.svc.DeleteAllTasks))
		r.Get("/{id}", getOne(h, h.svc.Task))
		r.Delete("/{id}", h.deleteOne(h.svc.DeleteTask))
	})
	r.Route("/epics", func(r chi.Router) {
		r.Get("/", listAll(h.svc.Epics))
		r.Post("/", h.postEpic)
		r.Delete("/", h.clearAll(h.svc.DeleteAllEpics))
		r.Get("/{id}", getOne(h, h.svc.Epic))
		r.Delete("/{id}", h.deleteOne(h.svc.DeleteEpic))
		r.Get("/{id}/subtasks", h.epicSubtasks)
	})
	r.Route("/subtasks", func(r chi.Router) {
		r.Get("/", listAll(h.svc.Subtasks))
		r.Post("/", h.postSubtask)
		r.Delete("/", h.clearAll(h.svc.DeleteAllSubtasks))
		r.Get("/{id}", getOne(h, h.svc.Subtask))
		r.Delete("/{id}", h.deleteOne(h.svc.DeleteSubtask))
	})
	r.Get("/history", listAll(h.svc.History))
	r.Get("/prioritized", listAll(h.svc.Prioritized))

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func listAll[E domain.Entity](list func() []E) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, domain.ToViews(list()))
	}
}

func getOne[E domain.Entity](h *Handler, get func(context.Context, int) (E, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		e, err := get(r.Context(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.ToView(e))
	}
}

func (h *Handler) deleteOne(del func(context.Context, int) (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		deleted, err := del(r.Context(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteResponse{ID: id, Deleted: deleted})
	}
}

func (h *Handler) clearAll(clearFn func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := clearFn(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (h *Handler) epicSubtasks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToViews(h.svc.SubtasksByEpic(id)))
}

// writeCurrent renders the stored entity after an update.
func (h *Handler) writeCurrent(w http.ResponseWriter, r *http.Request, kind domain.Kind, id int) {
	e, ok := h.svc.Lookup(id)
	if !ok {
		h.fail(w, r, fmt.Errorf("%s #%d: %w", kind.Name(), id, domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, domain.ToView(e))
}

func (h *Handler) postTask(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	t, err := req.task()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if req.isCreate() {
		created, err := h.svc.CreateTask(r.Context(), t)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, domain.ToView(created))
		return
	}

	applied, err := h.svc.UpdateTask(r.Context(), t)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !applied {
		h.fail(w, r, fmt.Errorf("task #%d: %w", t.ID, domain.ErrNotFound))
		return
	}
	h.writeCurrent(w, r, domain.KindTask, t.ID)
}

func (h *Handler) postEpic(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status, err := req.status()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if req.isCreate() {
		// New epics have no subtasks, so only NEW can be echoed back.
		if status != "" && status != domain.StatusNew {
			h.fail(w, r, fmt.Errorf("%w: got %s", domain.ErrEpicStatusDerived, status))
			return
		}
		created, err := h.svc.CreateEpic(r.Context(), domain.NewEpic(req.Title, req.Description))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, domain.ToView(created))
		return
	}

	id := req.id()
	applied, err := h.svc.UpdateEpicWithStatus(r.Context(), manager.EpicUpdate{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
	}, status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !applied {
		h.fail(w, r, fmt.Errorf("epic #%d: %w", id, domain.ErrNotFound))
		return
	}
	h.writeCurrent(w, r, domain.KindEpic, id)
}

func (h *Handler) postSubtask(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	t, err := req.task()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	// Without epicId an update keeps the current epic.
	st := domain.Subtask{Task: t}
	if req.EpicID != nil {
		if *req.EpicID <= 0 {
			h.fail(w, r, fmt.Errorf("epic #%d: %w", *req.EpicID, domain.ErrInvalidReference))
			return
		}
		st.EpicID = *req.EpicID
	}

	if req.isCreate() {
		created, err := h.svc.CreateSubtask(r.Context(), st)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, domain.ToView(created))
		return
	}

	applied, err := h.svc.UpdateSubtask(r.Context(), st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !applied {
		h.fail(w, r, fmt.Errorf("subtask #%d: %w", st.ID, domain.ErrNotFound))
		return
	}
	h.writeCurrent(w, r, domain.KindSubtask, st.ID)
}
