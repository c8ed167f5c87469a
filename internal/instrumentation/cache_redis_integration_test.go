//go:build integration

package instrumentation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"consentgate/internal/instrumentation"
	"consentgate/pkg/platform/sentinel"
	"consentgate/pkg/testutil/containers"
)

type RedisBundleCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *instrumentation.RedisBundleCache
}

func TestRedisBundleCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisBundleCacheSuite))
}

func (s *RedisBundleCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = instrumentation.NewRedisBundleCache(s.redis.Client)
}

func (s *RedisBundleCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisBundleCacheSuite) TestGet() {
	s.Run("miss returns ErrNotFound", func() {
		_, err := s.cache.Get(context.Background(), "missing")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("round-trips a stored bundle", func() {
		s.Require().NoError(s.cache.Set(context.Background(), "api-key-1", []byte("!function(){}")))

		bundle, err := s.cache.Get(context.Background(), "api-key-1")
		s.Require().NoError(err)
		s.Equal([]byte("!function(){}"), bundle)
	})

	s.Run("keys are scoped per API key", func() {
		s.Require().NoError(s.cache.Set(context.Background(), "api-key-1", []byte("one")))
		s.Require().NoError(s.cache.Set(context.Background(), "api-key-2", []byte("two")))

		bundle, err := s.cache.Get(context.Background(), "api-key-1")
		s.Require().NoError(err)
		s.Equal([]byte("one"), bundle)
	})
}
