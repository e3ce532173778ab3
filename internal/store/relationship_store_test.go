package store

import (
	"fmt"
	"testing"

	"mindfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticDirectory []models.User

func (d staticDirectory) Users() []models.User { return d }

func fiveUsers() staticDirectory {
	out := make(staticDirectory, 0, 5)
	for i := 1; i <= 5; i++ {
		out = append(out, models.User{
			ID:     fmt.Sprintf("u%d", i),
			Name:   fmt.Sprintf("User %d", i),
			Email:  fmt.Sprintf("u%d@example.com", i),
			Avatar: "https://example.com/avatar.jpg",
			Role:   models.RoleUser,
			Preferences: &models.Preferences{
				DarkMode: true,
			},
		})
	}
	return out
}

func TestRelationshipStore_FollowIsIdempotent(t *testing.T) {
	s := NewRelationshipStore(fiveUsers())
	s.FollowUser("u2")
	s.FollowUser("u2")

	assert.Equal(t, []string{"u2"}, s.FollowedUsers())
	assert.True(t, s.IsFollowing("u2"))
}

func TestRelationshipStore_UnfollowNeverFollowedIsNoop(t *testing.T) {
	s := NewRelationshipStore(fiveUsers())
	s.FollowUser("u3")

	var calls int
	s.Subscribe(func() { calls++ })
	s.UnfollowUser("u4")

	assert.Equal(t, []string{"u3"}, s.FollowedUsers())
	assert.Zero(t, calls)

	s.UnfollowUser("u3")
	assert.Empty(t, s.FollowedUsers())
	assert.Equal(t, 1, calls)
}

func TestRelationshipStore_SelfFollowIsNotGuarded(t *testing.T) {
	s := NewRelationshipStore(fiveUsers())
	s.FollowUser("u1")
	assert.True(t, s.IsFollowing("u1"))
}

func TestRelationshipStore_GetSuggestedUsersLimit(t *testing.T) {
	s := NewRelationshipStore(fiveUsers())

	got := s.GetSuggestedUsers("u1", 2)
	require.Len(t, got, 2)
	for _, u := range got {
		assert.NotEqual(t, "u1", u.ID)
		require.NotNil(t, u.IsFollowing)
		assert.False(t, *u.IsFollowing)
	}
	assert.Equal(t, "u2", got[0].ID)
	assert.Equal(t, "u3", got[1].ID)
}

func TestRelationshipStore_GetSuggestedUsersIncludesFollowed(t *testing.T) {
	s := NewRelationshipStore(fiveUsers())
	s.FollowUser("u3")

	got := s.GetSuggestedUsers("u1", 0)
	require.Len(t, got, 4)
	for _, u := range got {
		assert.Equal(t, u.ID == "u3", *u.IsFollowing, u.ID)
	}
}

func TestRelationshipStore_GetUserPublicInfo(t *testing.T) {
	s := NewRelationshipStore(fiveUsers())
	s.FollowUser("u4")

	info, ok := s.GetUserPublicInfo("u4")
	require.True(t, ok)
	assert.Equal(t, "User 4", info.Name)
	require.NotNil(t, info.IsFollowing)
	assert.True(t, *info.IsFollowing)

	_, ok = s.GetUserPublicInfo("nobody")
	assert.False(t, ok)
}

func TestRelationshipStore_SnapshotProjectsDirectory(t *testing.T) {
	s := NewRelationshipStore(fiveUsers())
	s.FollowUser("u2")

	snap := s.Snapshot()
	assert.Equal(t, []string{"u2"}, snap.FollowedUsers)
	require.Len(t, snap.SuggestedUsers, 5)
	assert.Nil(t, snap.SuggestedUsers[0].IsFollowing)

	other := NewRelationshipStore(fiveUsers())
	other.Restore(RelationshipState{FollowedUsers: []string{"u5"}})
	assert.Equal(t, []string{"u5"}, other.FollowedUsers())

	other.Restore(RelationshipState{})
	assert.NotNil(t, other.FollowedUsers())
	assert.Empty(t, other.FollowedUsers())
}

func TestRelationshipStore_NilDirectory(t *testing.T) {
	s := NewRelationshipStore(nil)
	assert.Empty(t, s.GetSuggestedUsers("u1", 3))
	_, ok := s.GetUserPublicInfo("u1")
	assert.False(t, ok)
}
