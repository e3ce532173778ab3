package store

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"mindfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newThought(id string) models.Thought {
	return models.Thought{
		ID:          id,
		Content:     "content " + id,
		AuthorID:    "user-001",
		Username:    "Angelica Rose",
		AuthorImage: "https://example.com/a.jpg",
		Timestamp:   time.Date(2023, 9, 15, 14, 23, 0, 0, time.UTC),
		LikedBy:     []string{},
		CommentData: []models.Comment{},
		IsPublic:    true,
	}
}

func assertCountersConsistent(t *testing.T, th models.Thought) {
	t.Helper()
	assert.Equal(t, len(th.LikedBy), th.Likes, "likes must equal len(likedBy)")
	assert.Equal(t, len(th.CommentData), th.Comments, "comments must equal len(commentData)")
	seen := map[string]bool{}
	for _, id := range th.LikedBy {
		assert.False(t, seen[id], "duplicate like by %s", id)
		seen[id] = true
	}
}

func TestThoughtStore_LikeUnlikeScenario(t *testing.T) {
	s := NewThoughtStore(nil)
	s.AddThought(newThought("t1"))

	s.LikeThought("t1", "u1")
	s.LikeThought("t1", "u1")
	th, ok := s.Thought("t1")
	require.True(t, ok)
	assert.Equal(t, 1, th.Likes)
	assert.Equal(t, []string{"u1"}, th.LikedBy)

	s.UnlikeThought("t1", "u1")
	th, _ = s.Thought("t1")
	assert.Equal(t, 0, th.Likes)
	assert.Empty(t, th.LikedBy)

	s.UnlikeThought("t1", "u1")
	th, _ = s.Thought("t1")
	assert.Equal(t, 0, th.Likes)
}

func TestThoughtStore_UnlikeNeverLikedIsNoop(t *testing.T) {
	s := NewThoughtStore(nil)
	s.AddThought(newThought("t1"))
	s.LikeThought("t1", "u2")

	var calls int
	s.Subscribe(func() { calls++ })

	before := s.Snapshot()
	s.UnlikeThought("t1", "u1")
	assert.Equal(t, before, s.Snapshot())
	assert.Zero(t, calls)
}

func TestThoughtStore_RandomLikeSequencesKeepInvariant(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	s := NewThoughtStore([]models.Thought{newThought("a"), newThought("b")})
	users := []string{"u1", "u2", "u3", "u4"}

	for i := 0; i < 500; i++ {
		id := []string{"a", "b", "missing"}[r.Intn(3)]
		u := users[r.Intn(len(users))]
		if r.Intn(2) == 0 {
			s.LikeThought(id, u)
		} else {
			s.UnlikeThought(id, u)
		}
	}

	for _, th := range s.Thoughts() {
		assertCountersConsistent(t, th)
	}
}

func TestThoughtStore_AddCommentPreservesOrder(t *testing.T) {
	s := NewThoughtStore(nil)
	s.AddThought(newThought("t1"))

	for i := 0; i < 3; i++ {
		s.AddComment("t1", models.Comment{ID: fmt.Sprintf("c%d", i), Text: "hi"})
	}
	s.AddComment("t1", models.Comment{ID: "c0", Text: "same id again"})

	th, _ := s.Thought("t1")
	assertCountersConsistent(t, th)
	require.Len(t, th.CommentData, 4)
	assert.Equal(t, "c0", th.CommentData[0].ID)
	assert.Equal(t, "c2", th.CommentData[2].ID)
	assert.Equal(t, 4, th.Comments)
}

func TestThoughtStore_AddThoughtPrependsAndNormalizes(t *testing.T) {
	s := NewThoughtStore([]models.Thought{newThought("old")})

	malformed := newThought("new")
	malformed.CommentData = nil
	malformed.LikedBy = nil
	malformed.Likes = 12
	malformed.Comments = 3
	s.AddThought(malformed)

	all := s.Thoughts()
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].ID)
	assert.NotNil(t, all[0].CommentData)
	assert.Empty(t, all[0].CommentData)
	assertCountersConsistent(t, all[0])
}

func TestThoughtStore_MissingIDsAreNoops(t *testing.T) {
	s := NewThoughtStore([]models.Thought{newThought("t1")})
	var calls int
	s.Subscribe(func() { calls++ })
	before := s.Snapshot()

	content := "changed"
	s.UpdateThought("nope", models.ThoughtPatch{Content: &content})
	s.DeleteThought("nope")
	s.LikeThought("nope", "u1")
	s.UnlikeThought("nope", "u1")
	s.AddComment("nope", models.Comment{ID: "c"})

	assert.Equal(t, before, s.Snapshot())
	assert.Zero(t, calls)
}

func TestThoughtStore_UpdateThoughtShallowMerge(t *testing.T) {
	s := NewThoughtStore([]models.Thought{newThought("t1")})
	s.LikeThought("t1", "u1")

	content := "edited"
	tags := []string{"Go"}
	s.UpdateThought("t1", models.ThoughtPatch{Content: &content, Tags: &tags})

	th, _ := s.Thought("t1")
	assert.Equal(t, "edited", th.Content)
	assert.Equal(t, []string{"Go"}, th.Tags)
	assert.Equal(t, "Angelica Rose", th.Username)
	assert.Equal(t, []string{"u1"}, th.LikedBy)
	assertCountersConsistent(t, th)
}

func TestThoughtStore_UpdateThoughtKeepsCreationTime(t *testing.T) {
	s := NewThoughtStore([]models.Thought{newThought("t1")})
	created := newThought("t1").Timestamp

	var patch models.ThoughtPatch
	require.NoError(t, json.Unmarshal([]byte(`{"content":"edited","timestamp":"2030-01-01T00:00:00Z"}`), &patch))
	s.UpdateThought("t1", patch)

	th, _ := s.Thought("t1")
	assert.Equal(t, "edited", th.Content)
	assert.True(t, created.Equal(th.Timestamp))
}

func TestThoughtStore_DeleteThought(t *testing.T) {
	s := NewThoughtStore([]models.Thought{newThought("t1"), newThought("t2")})
	s.DeleteThought("t1")

	_, ok := s.Thought("t1")
	assert.False(t, ok)
	assert.Len(t, s.Thoughts(), 1)
}

func TestThoughtStore_ReadsAreCopies(t *testing.T) {
	s := NewThoughtStore([]models.Thought{newThought("t1")})
	s.LikeThought("t1", "u1")

	th, _ := s.Thought("t1")
	th.LikedBy[0] = "mutated"
	th.LikedBy = append(th.LikedBy, "extra")

	again, _ := s.Thought("t1")
	assert.Equal(t, []string{"u1"}, again.LikedBy)
}

func TestThoughtStore_SessionFlags(t *testing.T) {
	s := NewThoughtStore(nil)
	assert.False(t, s.ShowOnlyUserThoughts())

	s.SetShowOnlyUserThoughts(true)
	s.SetLoading(true)
	s.SetError("boom")
	assert.True(t, s.ShowOnlyUserThoughts())
	assert.True(t, s.IsLoading())
	assert.Equal(t, "boom", s.Error())

	snap := s.Snapshot()
	require.NotNil(t, snap.Error)
	assert.Equal(t, "boom", *snap.Error)

	s.ClearError()
	assert.Equal(t, "", s.Error())
	assert.Nil(t, s.Snapshot().Error)
}

func TestThoughtStore_SetThoughtsAndRestore(t *testing.T) {
	s := NewThoughtStore(nil)
	broken := newThought("t1")
	broken.LikedBy = []string{"u1", "u1", "u2"}
	broken.Likes = 99
	s.SetThoughts([]models.Thought{broken})

	th, _ := s.Thought("t1")
	assert.Equal(t, []string{"u1", "u2"}, th.LikedBy)
	assertCountersConsistent(t, th)

	s.Restore(ThoughtState{Thoughts: []models.Thought{newThought("t9")}, ShowOnlyUserThoughts: true})
	all := s.Thoughts()
	require.Len(t, all, 1)
	assert.Equal(t, "t9", all[0].ID)
	assert.True(t, s.ShowOnlyUserThoughts())
}
