package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string
	Timestamp time.Time
	VisitorID string
	Action    string
	Decision  string
	Reason    string
	Detail    string
	Device    string
}

// Audit event actions describe what operation occurred.
const (
	ActionConsentGranted      = "consent_granted"      // Visitor accepted tracking
	ActionConsentDeclined     = "consent_declined"     // Visitor declined tracking
	ActionConsentCleared      = "consent_cleared"      // Stored decision externally cleared
	ActionActivationSucceeded = "activation_succeeded" // Instrumentation runtime activated
	ActionActivationFailed    = "activation_failed"    // Runtime acquisition or configuration failed
)

// Audit event reasons explain why the action was taken.
const (
	ReasonUserInitiated      = "user_initiated" // Visitor explicitly performed the action
	ReasonPriorConsent       = "prior_consent"  // Activation triggered by a pre-existing accepted record
	ReasonAcquisitionFailure = "acquisition_failure"
)
