package api

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"

	"github.com/okian/diveplan/internal/domain/failure"
	"github.com/okian/diveplan/internal/domain/types"
)

// swimmerKey matches swimmers[<index>][<field>] once percent-decoding has
// been applied by url.ParseQuery.
var swimmerKey = regexp.MustCompile(`^swimmers\[(\d+)\]\[([a-z]+)\]$`)

// Bits recording which fields a form row carried.
const (
	fieldName uint8 = 1 << iota
	fieldAge
	fieldSkill
	fieldDuration

	fieldAll = fieldName | fieldAge | fieldSkill | fieldDuration
)

type formRow struct {
	swimmer types.Swimmer
	seen    uint8
}

// ParseSwimmerQuery reads the participant table sent by the index page form.
// Indices may be sparse; rows are returned in ascending index order. Keys
// outside the swimmers table are ignored.
func ParseSwimmerQuery(values url.Values) ([]types.Swimmer, error) {
	rows := map[int]*formRow{}
	for key, vals := range values {
		m := swimmerKey.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%s: bad index: %w", key, err)
		}
		row := rows[idx]
		if row == nil {
			row = &formRow{}
			rows[idx] = row
		}
		if err := row.set(m[2], vals[0]); err != nil {
			return nil, fmt.Errorf("swimmers[%d]: %w", idx, err)
		}
	}

	out := make([]types.Swimmer, 0, len(rows))
	for _, idx := range slices.Sorted(maps.Keys(rows)) {
		row := rows[idx]
		if row.seen != fieldAll {
			return nil, fmt.Errorf("swimmers[%d]: incomplete row", idx)
		}
		out = append(out, row.swimmer)
	}
	return out, nil
}

func (r *formRow) set(field, raw string) error {
	if field == "name" {
		r.swimmer.Name = raw
		r.seen |= fieldName
		return nil
	}

	var (
		dst *int
		bit uint8
	)
	switch field {
	case "age":
		dst, bit = &r.swimmer.Age, fieldAge
	case "skill":
		dst, bit = &r.swimmer.Skill, fieldSkill
	case "duration":
		dst, bit = &r.swimmer.Duration, fieldDuration
	default:
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 31)
	if err != nil {
		return fmt.Errorf("%s: not a non-negative integer: %q", field, raw)
	}
	*dst = int(n)
	r.seen |= bit
	return nil
}

// SubmitHandler serves the HTML form endpoint.
type SubmitHandler struct {
	deps Dependencies
}

// NewSubmitHandler creates a new submit handler.
func NewSubmitHandler(deps Dependencies) *SubmitHandler {
	return &SubmitHandler{deps: deps}
}

// HandleSubmit handles GET /submit requests. Undistributable rosters are
// answered with status 200 and an error fragment so the page can swap it in.
func (h *SubmitHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	values, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		writeErrorFragment(w, http.StatusBadRequest, WrapKind(op, ErrBadRequest, err).Error())
		return
	}
	swimmers, err := ParseSwimmerQuery(values)
	if err != nil {
		writeErrorFragment(w, http.StatusBadRequest, WrapKind(op, ErrBadRequest, err).Error())
		return
	}
	if limit := h.deps.MaxParticipants(); len(swimmers) > limit {
		writeErrorFragment(w, http.StatusRequestEntityTooLarge,
			WrapKind(op, ErrTooManyParticipants, fmt.Errorf("%d > %d", len(swimmers), limit)).Error())
		return
	}
	participants, err := toParticipants(swimmers)
	if err != nil {
		writeErrorFragment(w, http.StatusBadRequest, WrapKind(op, ErrBadRequest, err).Error())
		return
	}

	plan, err := h.deps.Distribute(r.Context(), participants)
	if err != nil {
		if f, ok := failure.As(err); ok {
			writeErrorFragment(w, http.StatusOK, h.deps.Describe(f))
			return
		}
		writeErrorFragment(w, http.StatusInternalServerError, NewKind(op, ErrDistribution).Error())
		return
	}
	writePlanFragment(w, plan)
}
