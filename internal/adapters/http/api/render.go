package api

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/okian/diveplan/internal/domain/model"
	"github.com/okian/diveplan/internal/domain/types"
)

// Fragment classes understood by the index page stylesheet.
const (
	classSuccess = "success"
	classError   = "error"
)

var fragmentTmpl = template.Must(template.New("response").Parse(
	`<div id="response-message" class="{{.Class}}">{{range .Lines}}{{.}}<br>{{end}}{{.Message}}</div>`,
))

type fragment struct {
	Class   string
	Lines   []string
	Message string
}

// WardLabel renders a ward slot as "name (instruction)".
func WardLabel(w model.PlannedWard) string {
	return w.Participant.Name + " (" + w.Instruction + ")"
}

// Lines renders one "escort: ward, ward" line per group, in plan order.
func Lines(plan model.Plan) []string {
	lines := make([]string, 0, len(plan.Groups))
	for _, g := range plan.Groups {
		labels := make([]string, len(g.Wards))
		for i, w := range g.Wards {
			labels[i] = WardLabel(w)
		}
		lines = append(lines, g.Escort.Name+": "+strings.Join(labels, ", "))
	}
	return lines
}

// Text renders the plan as newline-separated lines.
func Text(plan model.Plan) string {
	return strings.Join(Lines(plan), "\n")
}

func writeFragment(w http.ResponseWriter, status int, f fragment) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = fragmentTmpl.Execute(w, f)
}

func writePlanFragment(w http.ResponseWriter, plan model.Plan) {
	writeFragment(w, http.StatusOK, fragment{Class: classSuccess, Lines: Lines(plan)})
}

func writeErrorFragment(w http.ResponseWriter, status int, msg string) {
	writeFragment(w, status, fragment{Class: classError, Message: msg})
}

func toSwimmer(p model.Participant) types.Swimmer {
	return types.Swimmer{Name: p.Name, Age: p.Age, Skill: p.Skill, Duration: p.Duration}
}

// toResponse maps a plan to its JSON wire shape.
func toResponse(plan model.Plan) types.DistributionResponse {
	resp := types.DistributionResponse{RunID: plan.RunID, Groups: make([]types.Group, len(plan.Groups))}
	for i, g := range plan.Groups {
		wards := make([]types.Ward, len(g.Wards))
		for j, w := range g.Wards {
			wards[j] = types.Ward{Swimmer: toSwimmer(w.Participant), Instruction: w.Instruction}
		}
		resp.Groups[i] = types.Group{Escort: toSwimmer(g.Escort), Wards: wards}
	}
	return resp
}
