package entities

// OutcomeKind classifies the result of a claim attempt.
type OutcomeKind int

const (
	OutcomeNoMatch OutcomeKind = iota
	OutcomeDenied
	OutcomeAlreadyClaimed
	OutcomeExhausted
	OutcomeClaimed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDenied:
		return "denied"
	case OutcomeAlreadyClaimed:
		return "already_claimed"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeClaimed:
		return "claimed"
	default:
		return "no_match"
	}
}

// ClaimOutcome is what the claim engine decided for one private message.
// Reply is only set for OutcomeClaimed and holds the rendered response.
type ClaimOutcome struct {
	Kind  OutcomeKind
	Event *Event
	Code  string
	Reply string
}
