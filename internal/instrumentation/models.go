package instrumentation

import (
	dErrors "consentgate/pkg/domain-errors"
)

// ActivationState tracks the at-most-once activation lifecycle. It is owned
// exclusively by the Activator and never persisted: a fresh process always
// starts at StateNotActivated.
type ActivationState int32

const (
	StateNotActivated ActivationState = iota
	StateActivating
	StateActivated
)

func (s ActivationState) String() string {
	switch s {
	case StateActivating:
		return "activating"
	case StateActivated:
		return "activated"
	default:
		return "not_activated"
	}
}

// TrackingOptions configures the external capability. Each boolean enables a
// named automatic-tracking category; SessionRecordingSampleRate is the
// fraction of sessions recorded by the replay feature.
type TrackingOptions struct {
	SessionRecordingSampleRate float64

	Attribution             bool
	Sessions                bool
	PageViews               bool
	FormInteractions        bool
	FileDownloads           bool
	ElementInteractions     bool
	FrustrationInteractions bool
}

// DefaultTrackingOptions returns the production tracking configuration: every
// session recorded, with form-interaction and file-download capture disabled.
func DefaultTrackingOptions() TrackingOptions {
	return TrackingOptions{
		SessionRecordingSampleRate: 1,
		Attribution:                true,
		Sessions:                   true,
		PageViews:                  true,
		FormInteractions:           false,
		FileDownloads:              false,
		ElementInteractions:        true,
		FrustrationInteractions:    true,
	}
}

// Validate rejects sample rates outside [0,1].
func (o TrackingOptions) Validate() error {
	if o.SessionRecordingSampleRate < 0 || o.SessionRecordingSampleRate > 1 {
		return dErrors.New(dErrors.CodeInvalidInput, "session recording sample rate must be within [0,1]")
	}
	return nil
}

// EnabledCategories lists the names of the enabled tracking categories, in a
// stable order, for status notices.
func (o TrackingOptions) EnabledCategories() []string {
	var categories []string
	for _, c := range []struct {
		name    string
		enabled bool
	}{
		{"attribution", o.Attribution},
		{"sessions", o.Sessions},
		{"pageViews", o.PageViews},
		{"formInteractions", o.FormInteractions},
		{"fileDownloads", o.FileDownloads},
		{"elementInteractions", o.ElementInteractions},
		{"frustrationInteractions", o.FrustrationInteractions},
	} {
		if c.enabled {
			categories = append(categories, c.name)
		}
	}
	return categories
}

// ReplayOptions configures the session-recording extension.
type ReplayOptions struct {
	SampleRate float64
}
