package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type PasswordServiceTestSuite struct {
	suite.Suite
	service PasswordServiceInterface
}

func TestPasswordServiceSuite(t *testing.T) {
	suite.Run(t, new(PasswordServiceTestSuite))
}

func (s *PasswordServiceTestSuite) SetupTest() {
	s.service = NewPasswordService()
}

func (s *PasswordServiceTestSuite) TestHashPassword() {
	hash, err := s.service.HashPassword("correct horse battery")
	s.NoError(err)
	s.NotEmpty(hash)
	s.NotEqual("correct horse battery", hash)
}

func (s *PasswordServiceTestSuite) TestHashPassword_Empty() {
	_, err := s.service.HashPassword("")
	s.ErrorIs(err, ErrPasswordEmpty)
}

func (s *PasswordServiceTestSuite) TestHashPassword_TooShort() {
	_, err := s.service.HashPassword("short")
	s.ErrorIs(err, ErrPasswordTooShort)
}

func (s *PasswordServiceTestSuite) TestHashPassword_TooLong() {
	_, err := s.service.HashPassword(strings.Repeat("a", 73))
	s.ErrorIs(err, ErrPasswordTooLong)
}

func (s *PasswordServiceTestSuite) TestHashPassword_UniqueSalts() {
	first, err := s.service.HashPassword("correct horse battery")
	s.Require().NoError(err)
	second, err := s.service.HashPassword("correct horse battery")
	s.Require().NoError(err)
	s.NotEqual(first, second)
}

func (s *PasswordServiceTestSuite) TestComparePassword() {
	hash, err := s.service.HashPassword("correct horse battery")
	s.Require().NoError(err)

	s.True(s.service.ComparePassword("correct horse battery", hash))
	s.False(s.service.ComparePassword("wrong password", hash))
}
