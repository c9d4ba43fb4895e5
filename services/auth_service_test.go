package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/papaya-padel/tournament-system/models"
)

func newAuthServiceForTest(store *memStore) AuthService {
	return NewAuthService(memUserRepo{store}, bcrypt.MinCost, discardLogger())
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	store := newMemStore()
	svc := newAuthServiceForTest(store)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name: " Lucía ", Email: "Lucia@Example.com", Password: "secreto1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lucía", user.Name)
	assert.Equal(t, "lucia@example.com", user.Email)
	assert.Equal(t, models.RolePlayer, user.Role)
	assert.Empty(t, user.PasswordHash)

	stored, err := memUserRepo{store}.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto1")))
}

func TestRegister_Errors(t *testing.T) {
	store := newMemStore()
	svc := newAuthServiceForTest(store)
	_, err := svc.Register(context.Background(), RegisterInput{Name: "Club Norte", Email: "norte@club.ar", Password: "123456", Role: "club"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"missing name", RegisterInput{Email: "a@b.c", Password: "123456"}, ErrValidationFailed},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "123456"}, ErrValidationFailed},
		{"short password", RegisterInput{Name: "A", Email: "a@b.c", Password: "123"}, ErrPasswordTooShort},
		{"unknown role", RegisterInput{Name: "A", Email: "a@b.c", Password: "123456", Role: "referee"}, ErrValidationFailed},
		{"superadmin", RegisterInput{Name: "A", Email: "a@b.c", Password: "123456", Role: "superadmin"}, ErrForbiddenOperation},
		{"duplicate email", RegisterInput{Name: "B", Email: "NORTE@club.ar", Password: "123456"}, ErrUserEmailConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	svc := newAuthServiceForTest(store)
	registered, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@padel.es", Password: "bandeja"})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), LoginInput{Email: "ANA@padel.es", Password: "bandeja"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ana@padel.es", Password: "volea"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@padel.es", Password: "bandeja"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ana@padel.es"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}
