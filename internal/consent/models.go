package consent

// Decision is the visitor's tracking-consent state. It is a tri-state value:
// absence of a stored record is DecisionUnset, and an explicit user action
// moves it to DecisionAccepted or DecisionDeclined exactly once. Only external
// storage clearance resets it to DecisionUnset.
type Decision string

const (
	DecisionUnset    Decision = ""
	DecisionAccepted Decision = "accepted"
	DecisionDeclined Decision = "rejected"
)

// RecordName is the single named record under which the decision is persisted.
const RecordName = "tracking_consent"

// ParseDecision maps a stored value to a Decision. Anything other than the two
// recognized literals, including the empty string, is treated as DecisionUnset.
// A malformed stored value is indistinguishable from absence and is not an
// error.
func ParseDecision(s string) Decision {
	switch Decision(s) {
	case DecisionAccepted:
		return DecisionAccepted
	case DecisionDeclined:
		return DecisionDeclined
	default:
		return DecisionUnset
	}
}

// Terminal reports whether the decision has been explicitly made.
func (d Decision) Terminal() bool {
	return d == DecisionAccepted || d == DecisionDeclined
}

// String returns the persisted literal for the decision.
func (d Decision) String() string {
	return string(d)
}
