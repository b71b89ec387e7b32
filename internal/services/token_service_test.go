package services

import (
	"crypto/rsa"
	"testing"
	"time"

	"github.com/allknee486/Impulse/internal/config"
	"github.com/allknee486/Impulse/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// TokenServiceTestSuite defines the test suite for TokenService
type TokenServiceTestSuite struct {
	suite.Suite
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	service    TokenServiceInterface
	issuer     string
}

// SetupTest runs before each test
func (s *TokenServiceTestSuite) SetupTest() {
	var err error
	s.privateKey, s.publicKey, err = config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	s.issuer = "test-issuer"
	s.service = NewTokenService(&config.JWTConfig{
		PrivateKey:           s.privateKey,
		PublicKey:            s.publicKey,
		Issuer:               s.issuer,
		AccessTokenDuration:  24 * time.Hour,
		RefreshTokenDuration: 7 * 24 * time.Hour,
	})
}

// TestTokenServiceSuite runs the test suite
func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}

func (s *TokenServiceTestSuite) TestGenerateAccessToken() {
	user := &models.User{
		ID:    uuid.New(),
		Email: "test@example.com",
	}

	token, expiresAt, err := s.service.GenerateAccessToken(user)
	s.NoError(err)
	s.NotEmpty(token)
	s.True(expiresAt.After(time.Now()))
	s.True(expiresAt.Before(time.Now().Add(25 * time.Hour)))
}

func (s *TokenServiceTestSuite) TestGenerateAccessToken_NilUser() {
	_, _, err := s.service.GenerateAccessToken(nil)
	s.Error(err)
}

func (s *TokenServiceTestSuite) TestGenerateRefreshToken() {
	token, expiresAt, err := s.service.GenerateRefreshToken(uuid.New())
	s.NoError(err)
	s.NotEmpty(token)
	s.True(expiresAt.After(time.Now()))
	s.True(expiresAt.Before(time.Now().Add(8 * 24 * time.Hour)))
}

func (s *TokenServiceTestSuite) TestGenerateRefreshToken_NilUserID() {
	_, _, err := s.service.GenerateRefreshToken(uuid.Nil)
	s.Error(err)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_Success() {
	user := &models.User{
		ID:    uuid.New(),
		Email: "test@example.com",
	}

	token, _, err := s.service.GenerateAccessToken(user)
	s.Require().NoError(err)

	claims, err := s.service.ValidateAccessToken(token)
	s.NoError(err)
	s.Equal(user.ID.String(), claims.UserID)
	s.Equal(user.Email, claims.Email)
	s.Equal(TokenTypeAccess, claims.TokenType)
	s.Equal(s.issuer, claims.Issuer)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_Garbage() {
	_, err := s.service.ValidateAccessToken("not.a.token")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_Empty() {
	_, err := s.service.ValidateAccessToken("")
	s.ErrorIs(err, ErrEmptyToken)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_RejectsRefreshToken() {
	token, _, err := s.service.GenerateRefreshToken(uuid.New())
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidTokenType)
}

func (s *TokenServiceTestSuite) TestValidateRefreshToken_RejectsAccessToken() {
	user := &models.User{ID: uuid.New(), Email: "test@example.com"}
	token, _, err := s.service.GenerateAccessToken(user)
	s.Require().NoError(err)

	_, err = s.service.ValidateRefreshToken(token)
	s.ErrorIs(err, ErrInvalidTokenType)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_WrongKey() {
	otherPrivate, otherPublic, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	other := NewTokenService(&config.JWTConfig{
		PrivateKey:           otherPrivate,
		PublicKey:            otherPublic,
		Issuer:               s.issuer,
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: time.Hour,
	})

	user := &models.User{ID: uuid.New(), Email: "test@example.com"}
	token, _, err := other.GenerateAccessToken(user)
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)
	s.Error(err)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_WrongIssuer() {
	other := NewTokenService(&config.JWTConfig{
		PrivateKey:           s.privateKey,
		PublicKey:            s.publicKey,
		Issuer:               "someone-else",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: time.Hour,
	})

	user := &models.User{ID: uuid.New(), Email: "test@example.com"}
	token, _, err := other.GenerateAccessToken(user)
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidIssuer)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_Expired() {
	expired := NewTokenService(&config.JWTConfig{
		PrivateKey:           s.privateKey,
		PublicKey:            s.publicKey,
		Issuer:               s.issuer,
		AccessTokenDuration:  -time.Hour,
		RefreshTokenDuration: -time.Hour,
	})

	user := &models.User{ID: uuid.New(), Email: "test@example.com"}
	token, _, err := expired.GenerateAccessToken(user)
	s.Require().NoError(err)

	_, err = s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrExpiredToken)
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader() {
	token, err := s.service.ExtractTokenFromHeader("Bearer abc123")
	s.NoError(err)
	s.Equal("abc123", token)
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader_CaseInsensitivePrefix() {
	token, err := s.service.ExtractTokenFromHeader("bearer abc123")
	s.NoError(err)
	s.Equal("abc123", token)
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader_Invalid() {
	testCases := []string{"", "abc123", "Basic abc123", "Bearer"}
	for _, header := range testCases {
		_, err := s.service.ExtractTokenFromHeader(header)
		s.Error(err, "header %q should be rejected", header)
	}
}
