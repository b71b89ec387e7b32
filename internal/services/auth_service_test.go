package services

import (
	"log/slog"
	"testing"
	"time"

	"github.com/allknee486/Impulse/internal/config"
	"github.com/allknee486/Impulse/internal/database"
	"github.com/allknee486/Impulse/internal/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db           *database.DB
	userRepo     repositories.UserRepositoryInterface
	tokenService TokenServiceInterface
	authService  AuthServiceInterface
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.userRepo = repositories.NewUserRepository(s.db.DB)

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)
	s.tokenService = NewTokenService(&config.JWTConfig{
		PrivateKey:           privateKey,
		PublicKey:            publicKey,
		Issuer:               "impulse-test",
		AccessTokenDuration:  time.Hour,
		RefreshTokenDuration: 24 * time.Hour,
	})

	s.authService = NewAuthService(s.userRepo, NewPasswordService(), s.tokenService, slog.Default())
}

func (s *AuthServiceTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestRegister_SuccessfulRegistration() {
	email := gofakeit.Email()
	password := "correct horse battery"

	user, err := s.authService.Register(email, password, gofakeit.FirstName(), gofakeit.LastName())

	s.NoError(err)
	s.Require().NotNil(user)
	s.Equal(email, user.Email)
	s.NotEmpty(user.PasswordHash)
	s.NotEqual(password, user.PasswordHash)

	stored, err := s.userRepo.GetByEmail(email)
	s.NoError(err)
	s.Equal(user.ID, stored.ID)
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	email := gofakeit.Email()

	_, err := s.authService.Register(email, "correct horse battery", "First", "User")
	s.Require().NoError(err)

	user, err := s.authService.Register(email, "another password 42", "Second", "User")
	s.ErrorIs(err, ErrUserAlreadyExists)
	s.Nil(user)
}

func (s *AuthServiceTestSuite) TestRegister_WeakPasswordRejected() {
	user, err := s.authService.Register(gofakeit.Email(), "short", gofakeit.FirstName(), gofakeit.LastName())
	s.Error(err)
	s.Nil(user)
}

func (s *AuthServiceTestSuite) TestLogin_ReturnsTokenPair() {
	email := gofakeit.Email()
	password := "correct horse battery"
	registered, err := s.authService.Register(email, password, "Login", "User")
	s.Require().NoError(err)

	user, accessToken, refreshToken, err := s.authService.Login(email, password)

	s.NoError(err)
	s.Require().NotNil(user)
	s.Equal(registered.ID, user.ID)
	s.NotEmpty(accessToken)
	s.NotEmpty(refreshToken)

	claims, err := s.tokenService.ValidateAccessToken(accessToken)
	s.NoError(err)
	s.Equal(registered.ID.String(), claims.UserID)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	email := gofakeit.Email()
	_, err := s.authService.Register(email, "correct horse battery", "Login", "User")
	s.Require().NoError(err)

	user, _, _, err := s.authService.Login(email, "wrong password 99")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.Nil(user)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmailSameError() {
	// Must not reveal whether the email exists.
	user, _, _, err := s.authService.Login(gofakeit.Email(), "whatever password")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.Nil(user)
}

func (s *AuthServiceTestSuite) TestRefreshTokens_RotatesPair() {
	email := gofakeit.Email()
	_, err := s.authService.Register(email, "correct horse battery", "Refresh", "User")
	s.Require().NoError(err)

	_, _, refreshToken, err := s.authService.Login(email, "correct horse battery")
	s.Require().NoError(err)

	newAccess, newRefresh, err := s.authService.RefreshTokens(refreshToken)
	s.NoError(err)
	s.NotEmpty(newAccess)
	s.NotEmpty(newRefresh)

	_, err = s.tokenService.ValidateAccessToken(newAccess)
	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestRefreshTokens_RejectsAccessToken() {
	email := gofakeit.Email()
	_, err := s.authService.Register(email, "correct horse battery", "Refresh", "User")
	s.Require().NoError(err)

	_, accessToken, _, err := s.authService.Login(email, "correct horse battery")
	s.Require().NoError(err)

	_, _, err = s.authService.RefreshTokens(accessToken)
	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceTestSuite) TestRefreshTokens_RejectsGarbage() {
	_, _, err := s.authService.RefreshTokens("not-a-jwt")
	s.ErrorIs(err, ErrInvalidRefreshToken)
}

func (s *AuthServiceTestSuite) TestGetUser() {
	registered, err := s.authService.Register(gofakeit.Email(), "correct horse battery", "Profile", "User")
	s.Require().NoError(err)

	user, err := s.authService.GetUser(registered.ID)
	s.NoError(err)
	s.Equal(registered.Email, user.Email)
}

func (s *AuthServiceTestSuite) TestGetUser_NotFound() {
	user, err := s.authService.GetUser(uuid.New())
	s.ErrorIs(err, ErrUserNotFound)
	s.Nil(user)
}
