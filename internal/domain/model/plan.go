package model

// PlannedWard is a ward slot with its resolved dive instruction.
type PlannedWard struct {
	Participant Participant
	Instruction string
}

// PlannedGroup is a Group ready for presentation.
type PlannedGroup struct {
	Escort Participant
	Wards  []PlannedWard
}

// Plan is the successful outcome of a run: the assignment with every ward
// slot resolved to an instruction text.
type Plan struct {
	RunID  string
	Groups []PlannedGroup
}
