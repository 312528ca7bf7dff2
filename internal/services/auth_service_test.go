package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/projectzen/board-api/internal/models"
	"github.com/projectzen/board-api/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	return NewAuthService(repository.NewUserRepository(db), "test-secret")
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user, token, err := svc.Register(RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	// The email was lowercased on the way in; login is case-insensitive too.
	loggedIn, loginToken, err := svc.Login(LoginInput{Email: "ALICE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, _, err = svc.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = svc.Register(RegisterInput{Name: "Other", Email: "alice@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = svc.Login(LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown accounts fail the same way; no user enumeration.
	_, _, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyToken(t *testing.T) {
	svc := newAuthService(t)

	user, token, err := svc.Register(RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	resolved, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = svc.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A token signed with a different secret is rejected.
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{UserID: user.ID})
	forgedString, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = svc.VerifyToken(forgedString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
