package domain

import "errors"

// ErrSessionNotFound covers both ids that never existed and ids whose
// session has expired. The two cases are deliberately indistinguishable.
var ErrSessionNotFound = errors.New("session not found or expired")

// ErrCollaboratorFailure marks a failed or unparsable response from the
// external text-generation/scoring service. Callers recover with the
// local fallback; it never reaches the API surface as a hard error.
var ErrCollaboratorFailure = errors.New("collaborator request failed")

// ErrInvalidPhase marks a session carrying a phase value the state
// machine does not recognize. Recovered by resetting to greeting.
var ErrInvalidPhase = errors.New("invalid conversation phase")

// ErrConcurrentTurn is returned when a turn loses the race against
// another turn on the same session: the state it was computed from
// changed before it could commit. The client retries with fresh state.
var ErrConcurrentTurn = errors.New("session was modified by a concurrent turn")
