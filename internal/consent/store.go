package consent

import "context"

// Store persists the single consent decision record. Implementations are
// interface-driven to keep the controller testable and to allow swapping
// cookie, file, or in-memory persistence without rewiring business code.
//
// Read returns (DecisionUnset, nil) when no record exists; absence is a valid,
// expected state, not an error. A non-nil error means the storage medium
// itself is unavailable, which callers handle as a local degraded mode.
type Store interface {
	Read(ctx context.Context) (Decision, error)
	Write(ctx context.Context, decision Decision) error
}
