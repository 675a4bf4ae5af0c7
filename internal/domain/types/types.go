// Package types contains the JSON wire shapes shared by the HTTP API and
// its clients.
package types

// Swimmer is one participant as submitted by clients.
type Swimmer struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Skill    int    `json:"skill"`
	Duration int    `json:"duration"`
}

// DistributionRequest is the body of POST /api/distribution.
type DistributionRequest struct {
	Swimmers []Swimmer `json:"swimmers"`
}

// Ward is a filled ward slot with its instruction.
type Ward struct {
	Swimmer
	Instruction string `json:"instruction"`
}

// Group is one escort with up to two wards.
type Group struct {
	Escort Swimmer `json:"escort"`
	Wards  []Ward  `json:"wards"`
}

// DistributionResponse is the success body of POST /api/distribution.
type DistributionResponse struct {
	RunID  string  `json:"run_id"`
	Groups []Group `json:"groups"`
}

// FailureResponse is returned when a distribution cannot be built.
type FailureResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}
