package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/auth"
)

func TestRegisterRejectsForeignDomain(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	_, err := svc.Register(services.RegisterInput{
		Name:     "Outsider",
		Email:    "someone@gmail.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, services.ErrEmailDomain)
}

func TestRegisterNormalisesAndHashes(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	user, err := svc.Register(services.RegisterInput{
		Name:     "Asha",
		Email:    "Asha.K@MLRIT.AC.IN",
		Password: "secret123",
		UserType: "student",
	})
	require.NoError(t, err)

	assert.Equal(t, "asha.k@mlrit.ac.in", user.Email)
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "secret123"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()

	input := services.RegisterInput{
		Name:     "Asha",
		Email:    "asha@mlrit.ac.in",
		Password: "secret123",
	}
	_, err := svc.Register(input)
	require.NoError(t, err)

	_, err = svc.Register(input)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginInvalidCredentials(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()
	createUser(t, "asha@mlrit.ac.in", 0)

	_, err := svc.Login("asha@mlrit.ac.in", "wrong-password")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Unknown accounts fail the same way so the API does not leak which
	// emails exist.
	_, err = svc.Login("nobody@mlrit.ac.in", "secret123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestLoginAndToken(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()
	created := createUser(t, "asha@mlrit.ac.in", 0)

	user, err := svc.Login("asha@mlrit.ac.in", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	token, err := svc.Token(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLookup(t *testing.T) {
	setupDB(t)
	svc := services.NewAuthService()
	created := createUser(t, "asha@mlrit.ac.in", 0)

	user, ok := svc.Lookup(created.ID)
	require.True(t, ok)
	assert.Equal(t, created.Email, user.Email)

	_, ok = svc.Lookup(9999)
	assert.False(t, ok)
}
