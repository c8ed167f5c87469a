package handler

import (
	"context"
	"errors"
	"net/http"

	"consentgate/internal/consent"
)

// cookieMaxAge keeps the decision for a year; the browser may drop it sooner,
// which simply resets the lifecycle to unset.
const cookieMaxAge = 365 * 24 * 60 * 60

// CookieStore is the origin-scoped rendition of the consent store: one named
// cookie per visitor, bound to a single request/response pair. A write is
// visible to reads on the same instance so a decision round-trips within the
// session even before the browser echoes the cookie back.
type CookieStore struct {
	w       http.ResponseWriter
	r       *http.Request
	pending consent.Decision
	written bool
}

func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r}
}

func (s *CookieStore) Read(_ context.Context) (consent.Decision, error) {
	if s.written {
		return s.pending, nil
	}
	cookie, err := s.r.Cookie(consent.RecordName)
	if errors.Is(err, http.ErrNoCookie) {
		return consent.DecisionUnset, nil
	}
	if err != nil {
		return consent.DecisionUnset, err
	}
	return consent.ParseDecision(cookie.Value), nil
}

func (s *CookieStore) Write(_ context.Context, decision consent.Decision) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     consent.RecordName,
		Value:    decision.String(),
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.pending = decision
	s.written = true
	return nil
}

// Clear expires the cookie, resetting the visitor's lifecycle to unset on the
// next page load.
func (s *CookieStore) Clear() {
	http.SetCookie(s.w, &http.Cookie{
		Name:     consent.RecordName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.pending = consent.DecisionUnset
	s.written = true
}
