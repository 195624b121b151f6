package domain

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindState
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindState:
		return "state"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is a league error of a known kind. Sentinels below are *Error values;
// callers add detail with fmt.Errorf("%w: ...", sentinel).
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// Validation errors
var (
	ErrInvalidScore       = &Error{Kind: KindValidation, Msg: "invalid score"}
	ErrUnknownSquad       = &Error{Kind: KindValidation, Msg: "unknown squad"}
	ErrSquadExists        = &Error{Kind: KindValidation, Msg: "squad name already taken"}
	ErrTagTaken           = &Error{Kind: KindValidation, Msg: "squad tag already taken"}
	ErrInvalidName        = &Error{Kind: KindValidation, Msg: "name must not be empty"}
	ErrSelfMatch          = &Error{Kind: KindValidation, Msg: "a squad cannot battle itself"}
	ErrRosterFull         = &Error{Kind: KindValidation, Msg: "main roster is limited to 5 players"}
	ErrSubsFull           = &Error{Kind: KindValidation, Msg: "subs are limited to 3 players"}
	ErrDuplicatePlayer    = &Error{Kind: KindValidation, Msg: "player listed more than once"}
	ErrNotSquadMember     = &Error{Kind: KindValidation, Msg: "player is not a member of the squad"}
	ErrInvalidRole        = &Error{Kind: KindValidation, Msg: "invalid lane role"}
	ErrInvalidBounty      = &Error{Kind: KindValidation, Msg: "bounty points must be positive"}
	ErrDuplicateChallenge = &Error{Kind: KindValidation, Msg: "a live challenge already exists between these squads"}
	ErrNotChallenged      = &Error{Kind: KindValidation, Msg: "only the challenged squad can respond"}
	ErrInvalidSchedule    = &Error{Kind: KindValidation, Msg: "invalid schedule date"}
	ErrInvalidPosition    = &Error{Kind: KindValidation, Msg: "title and position are required"}
)

// Not found errors
var (
	ErrSquadNotFound     = &Error{Kind: KindNotFound, Msg: "squad not found"}
	ErrMatchNotFound     = &Error{Kind: KindNotFound, Msg: "match not found"}
	ErrChallengeNotFound = &Error{Kind: KindNotFound, Msg: "challenge not found"}
	ErrBountyNotFound    = &Error{Kind: KindNotFound, Msg: "bounty not found"}
	ErrPlayerNotFound    = &Error{Kind: KindNotFound, Msg: "player not found"}
)

// State errors
var (
	ErrInvalidTransition = &Error{Kind: KindState, Msg: "invalid challenge transition"}
	ErrSquadDisbanded    = &Error{Kind: KindState, Msg: "squad is disbanded"}
)

var ErrPersistence = &Error{Kind: KindPersistence, Msg: "failed to persist league document"}
