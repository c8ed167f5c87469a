package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"consentgate/internal/audit"
	"consentgate/internal/consent"
	consentHandler "consentgate/internal/consent/handler"
	"consentgate/internal/consent/service"
	"consentgate/internal/instrumentation"
	"consentgate/internal/jwttoken"
	"consentgate/pkg/testutil"
)

// RouterSuite wires the real components end to end, with only the vendor CDN
// faked, and walks the visitor journey across page loads.
type RouterSuite struct {
	suite.Suite
	cdn     *httptest.Server
	server  http.Handler
	visitor *consentHandler.Handler
	admin   *AdminHandler
	page    *PageHandler
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.cdn = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("!function(){}"))
	}))
	s.T().Cleanup(s.cdn.Close)

	publisher := audit.NewPublisher(audit.NewInMemoryStore(), logger)
	sink := audit.NewInstrumentationSink(publisher, logger)
	loader := instrumentation.NewHTTPLoader(s.cdn.URL, instrumentation.NewMemoryBundleCache(), logger)
	activator := instrumentation.NewActivator(loader, logger, nil, sink)

	flow := service.New("test-api-key", instrumentation.DefaultTrackingOptions(), activator, logger, nil, publisher)

	jwtService := jwttoken.NewJWTService("test-signing-key", "consentgate", "consentgate-admin")
	s.admin = NewAdminHandler(publisher, jwtService, jwttoken.NewMiddlewareAdapter(jwtService), "", logger)
	s.page = NewPageHandler(flow, activator, logger)
	s.visitor = consentHandler.New(flow, logger, nil)

	s.server = NewRouter(s.visitor, s.admin, s.page)
}

type stubHealth struct {
	err error
}

func (h *stubHealth) Health(_ context.Context) error { return h.err }

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) TestHealthz() {
	s.Run("reports ok without configured checks", func() {
		rr := testutil.DoRequest(s.server, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("reports ok when dependencies are healthy", func() {
		router := NewRouter(s.visitor, s.admin, s.page, &stubHealth{})

		rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("reports unavailable when a dependency is down", func() {
		router := NewRouter(s.visitor, s.admin, s.page, &stubHealth{err: errors.New("connection refused")})

		rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/healthz"))

		testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)
	})
}

func (s *RouterSuite) TestMetrics() {
	rr := testutil.DoRequest(s.server, testutil.NewRequest(s.T(), http.MethodGet, "/metrics"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *RouterSuite) TestVisitorJourney() {
	// First page load: no record, modal shown over blurred content.
	rr := testutil.DoRequest(s.server, testutil.NewRequest(s.T(), http.MethodGet, "/demo"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Contains(string(testutil.ReadBody(s.T(), rr)), `id="consent-modal"`)

	// The visitor accepts; the decision cookie is set.
	rr = testutil.DoRequest(s.server, testutil.NewRequest(s.T(), http.MethodPost, "/consent/accept"))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	cookie := testutil.DecisionCookie(rr, consent.RecordName)
	s.Require().NotNil(cookie)
	s.Equal("accepted", cookie.Value)

	// Next page load with the cookie: no modal, bootstrap snippet injected.
	req := testutil.NewRequest(s.T(), http.MethodGet, "/demo")
	req.AddCookie(cookie)
	rr = testutil.DoRequest(s.server, req)
	body := string(testutil.ReadBody(s.T(), rr))
	s.NotContains(body, `id="consent-modal"`)
	s.Contains(body, "!function(){}")
	s.Contains(body, `amplitude.init("test-api-key"`)

	// The visitor clears the decision; the cookie is expired.
	req = testutil.NewRequest(s.T(), http.MethodDelete, "/consent")
	req.AddCookie(cookie)
	rr = testutil.DoRequest(s.server, req)
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	expired := testutil.DecisionCookie(rr, consent.RecordName)
	s.Require().NotNil(expired)
	s.Negative(expired.MaxAge)

	// A fresh page load starts from unset again.
	rr = testutil.DoRequest(s.server, testutil.NewRequest(s.T(), http.MethodGet, "/demo"))
	s.Contains(string(testutil.ReadBody(s.T(), rr)), `id="consent-modal"`)
}

func (s *RouterSuite) TestDeclineJourney() {
	rr := testutil.DoRequest(s.server, testutil.NewRequest(s.T(), http.MethodPost, "/consent/decline"))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	cookie := testutil.DecisionCookie(rr, consent.RecordName)
	s.Require().NotNil(cookie)
	s.Equal("rejected", cookie.Value)

	req := testutil.NewRequest(s.T(), http.MethodGet, "/consent")
	req.AddCookie(cookie)
	rr = testutil.DoRequest(s.server, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[struct {
		Decision      string `json:"decision"`
		PromptVisible bool   `json:"prompt_visible"`
	}](s.T(), rr)
	s.Equal("rejected", resp.Decision)
	s.False(resp.PromptVisible)
}
