package directory

import (
	"context"
	"testing"
	"time"

	"mindfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster() []models.User {
	return []models.User{
		{ID: "user-001", Name: "Angelica Rose", Email: "angelica@example.com", Role: models.RolePro, Preferences: &models.Preferences{DarkMode: true}},
		{ID: "user-002", Name: "Marcus Chen", Email: "marcus@example.com", Role: models.RoleUser},
	}
}

func TestSimulated_FetchUserByID(t *testing.T) {
	d := NewSimulated(roster(), Config{})

	u, err := d.FetchUserByID(context.Background(), "user-002")
	require.NoError(t, err)
	assert.Equal(t, "Marcus Chen", u.Name)

	_, err = d.FetchUserByID(context.Background(), "user-999")
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.Equal(t, "User with ID user-999 not found", err.Error())
}

func TestSimulated_FetchHonoursCancellation(t *testing.T) {
	d := NewSimulated(roster(), Config{FetchLatency: time.Minute})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := d.FetchUserByID(ctx, "user-001")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSimulated_UpdateUserProfile(t *testing.T) {
	d := NewSimulated(roster(), Config{})
	bio := "Writes about Go"
	name := "Angie Rose"

	u, err := d.UpdateUserProfile(context.Background(), "user-001", models.UserPatch{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Angie Rose", u.Name)
	assert.Equal(t, "angelica@example.com", u.Email)
	assert.True(t, u.Preferences.DarkMode)

	again, err := d.FetchUserByID(context.Background(), "user-001")
	require.NoError(t, err)
	assert.Equal(t, "Writes about Go", again.Bio)
	assert.Equal(t, "Angie Rose", d.Users()[0].Name)
}

func TestSimulated_UpdateErrors(t *testing.T) {
	d := NewSimulated(roster(), Config{})

	_, err := d.UpdateUserProfile(context.Background(), "user-404", models.UserPatch{})
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	bad := models.Role("root")
	_, err = d.UpdateUserProfile(context.Background(), "user-001", models.UserPatch{Role: &bad})
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestSimulated_UsersReturnsCopies(t *testing.T) {
	d := NewSimulated(roster(), Config{})
	users := d.Users()
	users[0].Name = "mutated"
	users[0].Preferences.DarkMode = false

	fresh := d.Users()
	assert.Equal(t, "Angelica Rose", fresh[0].Name)
	assert.True(t, fresh[0].Preferences.DarkMode)
}
