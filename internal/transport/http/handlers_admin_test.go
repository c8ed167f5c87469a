package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"consentgate/internal/audit"
	"consentgate/internal/jwttoken"
	"consentgate/pkg/platform/secrets"
	"consentgate/pkg/testutil"
)

const operatorSecret = "test-operator-secret"

type AdminHandlerSuite struct {
	suite.Suite
	publisher *audit.Publisher
	router    chi.Router
}

func (s *AdminHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.publisher = audit.NewPublisher(audit.NewInMemoryStore(), logger)

	hash, err := secrets.Hash(operatorSecret)
	s.Require().NoError(err)

	jwtService := jwttoken.NewJWTService("test-signing-key", "consentgate", "consentgate-admin")
	validator := jwttoken.NewMiddlewareAdapter(jwtService)

	s.router = chi.NewRouter()
	NewAdminHandler(s.publisher, jwtService, validator, hash, logger).Register(s.router)
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerSuite))
}

func (s *AdminHandlerSuite) obtainToken() string {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/token", map[string]string{"secret": operatorSecret})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[tokenResponse](s.T(), rr)
	s.Require().NotEmpty(resp.AccessToken)
	return resp.AccessToken
}

func (s *AdminHandlerSuite) TestToken() {
	s.Run("valid secret yields a short-lived token", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/token", map[string]string{"secret": operatorSecret})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[tokenResponse](s.T(), rr)
		s.NotEmpty(resp.AccessToken)
		s.Equal(int64(operatorTokenTTL.Seconds()), resp.ExpiresIn)
	})

	s.Run("wrong secret is rejected", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/token", map[string]string{"secret": "wrong"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
		testutil.AssertErrorCode(s.T(), rr, "unauthorized")
	})

	s.Run("unconfigured operator surface is unavailable", func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		jwtService := jwttoken.NewJWTService("test-signing-key", "consentgate", "consentgate-admin")
		router := chi.NewRouter()
		NewAdminHandler(s.publisher, jwtService, jwttoken.NewMiddlewareAdapter(jwtService), "", logger).Register(router)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/token", map[string]string{"secret": operatorSecret})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)
	})
}

func (s *AdminHandlerSuite) TestAudit() {
	s.Run("requires a bearer token", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/admin/audit")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("lists recorded events", func() {
		s.publisher.Emit(context.Background(), audit.Event{
			Action:   audit.ActionConsentGranted,
			Decision: "accepted",
			Reason:   audit.ReasonUserInitiated,
		})

		req := testutil.NewRequest(s.T(), http.MethodGet, "/admin/audit")
		req.Header.Set("Authorization", "Bearer "+s.obtainToken())
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[struct {
			Events []auditEventResponse `json:"events"`
		}](s.T(), rr)
		s.Require().Len(resp.Events, 1)
		s.Equal(audit.ActionConsentGranted, resp.Events[0].Action)
		s.NotEmpty(resp.Events[0].ID)
		s.NotEmpty(resp.Events[0].Timestamp)
	})

	s.Run("rejects a garbage token", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/admin/audit")
		req.Header.Set("Authorization", "Bearer not-a-token")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})
}
