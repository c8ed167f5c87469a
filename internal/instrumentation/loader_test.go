package instrumentation

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "consentgate/pkg/domain-errors"
	"consentgate/pkg/platform/sentinel"
)

type HTTPLoaderSuite struct {
	suite.Suite
	logger *slog.Logger
}

func (s *HTTPLoaderSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPLoaderSuite(t *testing.T) {
	suite.Run(t, new(HTTPLoaderSuite))
}

func (s *HTTPLoaderSuite) TestAcquire() {
	s.Run("fetches the bundle keyed by API key", func() {
		var requestedPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedPath = r.URL.Path
			_, _ = w.Write([]byte("!function(){}"))
		}))
		defer server.Close()

		loader := NewHTTPLoader(server.URL, nil, s.logger)
		capability, err := loader.Acquire(context.Background(), "api-key-1")

		s.Require().NoError(err)
		s.Require().NotNil(capability)
		s.Equal("/script/api-key-1.js", requestedPath)
	})

	s.Run("missing bundle surfaces as unavailable", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		loader := NewHTTPLoader(server.URL, nil, s.logger)
		_, err := loader.Acquire(context.Background(), "api-key-1")

		s.Require().Error(err)
		s.Equal(dErrors.CodeUnavailable, dErrors.CodeOf(err))
		s.Require().ErrorIs(err, sentinel.ErrUnavailable)
	})

	s.Run("empty bundle surfaces as unavailable", func() {
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		defer server.Close()

		loader := NewHTTPLoader(server.URL, nil, s.logger)
		_, err := loader.Acquire(context.Background(), "api-key-1")

		s.Require().Error(err)
		s.Equal(dErrors.CodeUnavailable, dErrors.CodeOf(err))
	})

	s.Run("unreachable host surfaces as unavailable", func() {
		loader := NewHTTPLoader("http://127.0.0.1:1", nil, s.logger)
		_, err := loader.Acquire(context.Background(), "api-key-1")

		s.Require().Error(err)
		s.Equal(dErrors.CodeUnavailable, dErrors.CodeOf(err))
	})

	s.Run("rejects a missing API key", func() {
		loader := NewHTTPLoader("http://example.invalid", nil, s.logger)
		_, err := loader.Acquire(context.Background(), "")

		s.Require().Error(err)
		s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))
	})

	s.Run("serves from the cache without touching the CDN", func() {
		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits++
			_, _ = w.Write([]byte("!function(){}"))
		}))
		defer server.Close()

		cache := NewMemoryBundleCache()
		loader := NewHTTPLoader(server.URL, cache, s.logger)

		_, err := loader.Acquire(context.Background(), "api-key-1")
		s.Require().NoError(err)
		_, err = loader.Acquire(context.Background(), "api-key-1")
		s.Require().NoError(err)

		s.Equal(1, hits)
	})
}

type RuntimeSuite struct {
	suite.Suite
}

func TestRuntimeSuite(t *testing.T) {
	suite.Run(t, new(RuntimeSuite))
}

func (s *RuntimeSuite) TestOrdering() {
	s.Run("initialize before replay registration is rejected", func() {
		runtime := NewRuntime([]byte("bundle"))

		err := runtime.Initialize(context.Background(), "key", DefaultTrackingOptions())

		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("replay registration after initialization is rejected", func() {
		runtime := NewRuntime([]byte("bundle"))
		s.Require().NoError(runtime.RegisterReplay(ReplayOptions{SampleRate: 1}))
		s.Require().NoError(runtime.Initialize(context.Background(), "key", DefaultTrackingOptions()))

		err := runtime.RegisterReplay(ReplayOptions{SampleRate: 0.5})

		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("double initialization is rejected", func() {
		runtime := NewRuntime([]byte("bundle"))
		s.Require().NoError(runtime.RegisterReplay(ReplayOptions{SampleRate: 1}))
		s.Require().NoError(runtime.Initialize(context.Background(), "key", DefaultTrackingOptions()))

		err := runtime.Initialize(context.Background(), "key", DefaultTrackingOptions())

		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})
}

func (s *RuntimeSuite) TestSnippet() {
	s.Run("empty before the runtime is configured", func() {
		runtime := NewRuntime([]byte("bundle"))
		s.Empty(runtime.Snippet())
	})

	s.Run("renders replay registration ahead of initialization", func() {
		runtime := NewRuntime([]byte("!function(){}"))
		s.Require().NoError(runtime.RegisterReplay(ReplayOptions{SampleRate: 0.5}))

		opts := DefaultTrackingOptions()
		s.Require().NoError(runtime.Initialize(context.Background(), "api-key-1", opts))

		snippet := runtime.Snippet()
		s.Contains(snippet, "!function(){}")
		s.Contains(snippet, "sessionReplay.plugin({sampleRate: 0.5})")
		s.Contains(snippet, `amplitude.init("api-key-1"`)
		s.Contains(snippet, "formInteractions: false")
		s.Less(
			strings.Index(snippet, "sessionReplay.plugin"),
			strings.Index(snippet, "amplitude.init"),
		)
	})
}
