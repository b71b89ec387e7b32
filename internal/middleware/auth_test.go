package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/allknee486/Impulse/internal/config"
	"github.com/allknee486/Impulse/internal/errors"
	"github.com/allknee486/Impulse/internal/models"
	"github.com/allknee486/Impulse/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	echo         *echo.Echo
	tokenService services.TokenServiceInterface
	testUser     *models.User
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)

	s.tokenService = services.NewTokenService(&config.JWTConfig{
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "impulse-test",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
	})

	s.echo = echo.New()
	s.testUser = &models.User{Email: "auth@example.com"}
	s.testUser.ID = uuid.New()
}

func (s *AuthMiddlewareTestSuite) invoke(authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := RequireAuth(s.tokenService)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	s.NoError(handler(c))
	return rec, c
}

func (s *AuthMiddlewareTestSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body errors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func (s *AuthMiddlewareTestSuite) TestValidTokenPassesThrough() {
	token, _, err := s.tokenService.GenerateAccessToken(s.testUser)
	s.Require().NoError(err)

	rec, c := s.invoke("Bearer " + token)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(s.testUser.ID, c.Get("user_id"))
	s.Equal(s.testUser.Email, c.Get("user_email"))
}

func (s *AuthMiddlewareTestSuite) TestMissingHeader() {
	rec, _ := s.invoke("")

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(errors.AuthMissingToken), s.errorCode(rec))
}

func (s *AuthMiddlewareTestSuite) TestMalformedHeader() {
	rec, _ := s.invoke("Basic abc123")

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(errors.AuthInvalidTokenFormat), s.errorCode(rec))
}

func (s *AuthMiddlewareTestSuite) TestGarbageToken() {
	rec, _ := s.invoke("Bearer not-a-jwt")

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(errors.AuthInvalidTokenFormat), s.errorCode(rec))
}

func (s *AuthMiddlewareTestSuite) TestRefreshTokenRejected() {
	refresh, _, err := s.tokenService.GenerateRefreshToken(s.testUser.ID)
	s.Require().NoError(err)

	rec, _ := s.invoke("Bearer " + refresh)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(errors.AuthInvalidTokenFormat), s.errorCode(rec))
}

func (s *AuthMiddlewareTestSuite) TestExpiredToken() {
	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)
	expiredService := services.NewTokenService(&config.JWTConfig{
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "impulse-test",
		AccessTokenDuration:  -time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
	})
	token, _, err := expiredService.GenerateAccessToken(s.testUser)
	s.Require().NoError(err)

	s.tokenService = expiredService
	rec, _ := s.invoke("Bearer " + token)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(errors.AuthExpiredToken), s.errorCode(rec))
}
