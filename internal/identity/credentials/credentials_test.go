package credentials

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// testCost keeps scrypt cheap in tests.
const testCost = 1 << 4

type HasherSuite struct {
	suite.Suite
	hasher *Hasher
}

func (s *HasherSuite) SetupTest() {
	s.hasher = NewHasher(testCost)
}

func TestHasherSuite(t *testing.T) {
	suite.Run(t, new(HasherSuite))
}

func (s *HasherSuite) TestHashAndVerify() {
	s.Run("round trips a password", func() {
		hash, salt, err := s.hasher.Hash("s3cret")
		s.Require().NoError(err)
		s.NotEmpty(hash)
		s.NotEmpty(salt)

		s.NoError(s.hasher.Verify("s3cret", hash, salt))
	})

	s.Run("rejects the wrong password", func() {
		hash, salt, err := s.hasher.Hash("s3cret")
		s.Require().NoError(err)

		err = s.hasher.Verify("not-it", hash, salt)
		s.Require().ErrorIs(err, ErrMismatch)
	})

	s.Run("never derives the hash from the plaintext alone", func() {
		hash1, salt1, err := s.hasher.Hash("same-password")
		s.Require().NoError(err)
		hash2, salt2, err := s.hasher.Hash("same-password")
		s.Require().NoError(err)

		s.NotEqual(salt1, salt2)
		s.NotEqual(hash1, hash2)
	})

	s.Run("hash output is not the plaintext", func() {
		hash, _, err := s.hasher.Hash("plaintext-password")
		s.Require().NoError(err)
		s.NotEqual("plaintext-password", hash)
	})
}

func (s *HasherSuite) TestCorruptStoredPair() {
	s.Run("garbage salt is an internal error, not a mismatch", func() {
		hash, _, err := s.hasher.Hash("s3cret")
		s.Require().NoError(err)

		err = s.hasher.Verify("s3cret", hash, "!!not-base64!!")
		s.Require().Error(err)
		s.NotErrorIs(err, ErrMismatch)
	})

	s.Run("garbage hash is an internal error, not a mismatch", func() {
		_, salt, err := s.hasher.Hash("s3cret")
		s.Require().NoError(err)

		err = s.hasher.Verify("s3cret", "!!not-base64!!", salt)
		s.Require().Error(err)
		s.NotErrorIs(err, ErrMismatch)
	})
}
