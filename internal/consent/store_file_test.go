package consent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"consentgate/pkg/platform/sentinel"
)

type FileStoreSuite struct {
	suite.Suite
	dir   string
	store *FileStore
}

func (s *FileStoreSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.store = NewFileStore(s.dir)
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, new(FileStoreSuite))
}

func (s *FileStoreSuite) TestRead() {
	s.Run("missing file reads as unset without error", func() {
		decision, err := s.store.Read(context.Background())
		s.Require().NoError(err)
		s.Equal(DecisionUnset, decision)
	})

	s.Run("round-trips a written decision", func() {
		s.Require().NoError(s.store.Write(context.Background(), DecisionAccepted))

		decision, err := s.store.Read(context.Background())
		s.Require().NoError(err)
		s.Equal(DecisionAccepted, decision)
	})

	s.Run("malformed record reads as unset", func() {
		path := filepath.Join(s.dir, RecordName)
		s.Require().NoError(os.WriteFile(path, []byte("garbage"), 0o600))

		decision, err := s.store.Read(context.Background())
		s.Require().NoError(err)
		s.Equal(DecisionUnset, decision)
	})

	s.Run("tolerates surrounding whitespace", func() {
		path := filepath.Join(s.dir, RecordName)
		s.Require().NoError(os.WriteFile(path, []byte("rejected\n"), 0o600))

		decision, err := s.store.Read(context.Background())
		s.Require().NoError(err)
		s.Equal(DecisionDeclined, decision)
	})
}

func (s *FileStoreSuite) TestWrite() {
	s.Run("overwrites a prior decision", func() {
		s.Require().NoError(s.store.Write(context.Background(), DecisionAccepted))
		s.Require().NoError(s.store.Write(context.Background(), DecisionDeclined))

		decision, err := s.store.Read(context.Background())
		s.Require().NoError(err)
		s.Equal(DecisionDeclined, decision)
	})

	s.Run("unwritable directory surfaces ErrUnavailable", func() {
		store := NewFileStore(filepath.Join(s.dir, "does-not-exist"))
		err := store.Write(context.Background(), DecisionAccepted)
		s.Require().ErrorIs(err, sentinel.ErrUnavailable)
	})
}
