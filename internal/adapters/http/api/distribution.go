package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/diveplan/internal/domain/failure"
	"github.com/okian/diveplan/internal/domain/model"
	"github.com/okian/diveplan/internal/domain/types"
)

const maxBodyBytes = 1 << 20

// DistributionHandler serves the JSON distribution API.
type DistributionHandler struct {
	deps Dependencies
}

// NewDistributionHandler creates a new distribution handler.
func NewDistributionHandler(deps Dependencies) *DistributionHandler {
	return &DistributionHandler{deps: deps}
}

// HandlePostDistribution handles POST /api/distribution requests.
func (h *DistributionHandler) HandlePostDistribution(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_distribution"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req types.DistributionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Swimmers == nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing swimmers")))
		return
	}
	participants, err := toParticipants(req.Swimmers)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if limit := h.deps.MaxParticipants(); len(participants) > limit {
		writeError(w, http.StatusRequestEntityTooLarge, "too_many_participants",
			WrapKind(op, ErrTooManyParticipants, fmt.Errorf("%d > %d", len(participants), limit)))
		return
	}

	plan, err := h.deps.Distribute(r.Context(), participants)
	if err != nil {
		if f, ok := failure.As(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, types.FailureResponse{
				Code:    f.Kind.String(),
				Message: h.deps.Describe(f),
				Value:   f.Value(),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", NewKind(op, ErrDistribution))
		return
	}
	writeJSON(w, http.StatusOK, toResponse(plan))
}

// toParticipants validates wire swimmers and converts them in order.
func toParticipants(swimmers []types.Swimmer) ([]model.Participant, error) {
	out := make([]model.Participant, len(swimmers))
	for i, s := range swimmers {
		if s.Age < 0 {
			return nil, fmt.Errorf("swimmers[%d]: negative age %d", i, s.Age)
		}
		if s.Duration < 0 {
			return nil, fmt.Errorf("swimmers[%d]: negative duration %d", i, s.Duration)
		}
		out[i] = model.Participant{Name: s.Name, Age: s.Age, Skill: s.Skill, Duration: s.Duration}
	}
	return out, nil
}
