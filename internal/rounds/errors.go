package rounds

import "errors"

var (
	// ErrLockedRound rejects any candidate mutation once the round is locked
	// for the application's department.
	ErrLockedRound = errors.New("round is locked for this department")

	// ErrForbidden rejects actors whose scope does not cover the target
	// department.
	ErrForbidden = errors.New("actor is not allowed to act on this department")

	// ErrNotFound covers missing rounds, applications and round-department rows.
	// A missing RoundCandidate is not an error; it reads as pending.
	ErrNotFound = errors.New("record not found")

	// ErrCyclicPrerequisite rejects a prerequisite edge that would make the
	// prerequisite graph cyclic, including self-reference.
	ErrCyclicPrerequisite = errors.New("prerequisite would create a cycle")

	// ErrHasDependents refuses to delete a round while other rounds name it
	// as their prerequisite.
	ErrHasDependents = errors.New("other rounds depend on this round")
)
