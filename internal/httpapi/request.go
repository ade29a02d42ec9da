package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/go-chi/chi/v5"
)

// entityRequest is the POST body for every entity kind.
// Read-only fields of domain.View (type, endTime, subtaskIds) are accepted
// and ignored so a fetched entity can be posted back unchanged.
// Fields are ordered to minimize memory padding.
type entityRequest struct {
	StartTime   *time.Time `json:"startTime"`
	Duration    *int64     `json:"duration"` // Minutes
	EpicID      *int       `json:"epicId"`
	Status      *string    `json:"status"`
	ID          *int       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

func decodeRequest(r *http.Request) (entityRequest, error) {
	var req entityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return req, err
		}
		return req, fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	if req.ID != nil && *req.ID < 0 {
		return req, fmt.Errorf("%w: id must not be negative", errBadRequest)
	}
	return req, nil
}

// isCreate reports whether the request creates a new entity.
// A missing id and id 0 both mean create.
func (req entityRequest) isCreate() bool {
	return req.ID == nil || *req.ID == 0
}

func (req entityRequest) id() int {
	if req.ID == nil {
		return 0
	}
	return *req.ID
}

// status parses the submitted status. Empty means unset.
func (req entityRequest) status() (domain.Status, error) {
	if req.Status == nil || *req.Status == "" {
		return "", nil
	}
	st, err := domain.ParseStatus(*req.Status)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, *req.Status)
	}
	return st, nil
}

func (req entityRequest) task() (domain.Task, error) {
	st, err := req.status()
	if err != nil {
		return domain.Task{}, err
	}
	return domain.Task{
		ID:          req.id(),
		Title:       req.Title,
		Description: req.Description,
		Status:      st,
		StartTime:   req.StartTime,
		Duration:    domain.MinutesDuration(req.Duration),
	}, nil
}

func pathID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}
