package seed

import (
	"fmt"
	"time"

	"mindfeed/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds fake domain entities. The same seed yields the same data.
type Factory struct {
	faker *gofakeit.Faker
	now   time.Time
}

// NewFactory returns a factory seeded with seed. Generated timestamps fall
// in the 90 days before now.
func NewFactory(seed int64, now time.Time) *Factory {
	return &Factory{faker: gofakeit.New(seed), now: now}
}

func (f *Factory) pastTime() time.Time {
	return f.faker.DateRange(f.now.AddDate(0, 0, -90), f.now).UTC().Truncate(time.Second)
}

// User builds a directory user. Overrides run last.
func (f *Factory) User(overrides ...func(*models.User)) models.User {
	roles := []string{string(models.RoleUser), string(models.RoleUser), string(models.RolePro), string(models.RoleAdmin)}
	u := models.User{
		ID:         "user-" + f.faker.UUID()[:8],
		Name:       f.faker.Name(),
		Email:      f.faker.Email(),
		Avatar:     fmt.Sprintf("https://picsum.photos/seed/%s/200/200", f.faker.UUID()),
		Role:       models.Role(f.faker.RandomString(roles)),
		Bio:        f.faker.Sentence(8),
		JoinedDate: f.pastTime(),
		Following:  f.faker.Number(0, 500),
		Followers:  f.faker.Number(0, 5000),
		Preferences: &models.Preferences{
			DarkMode:      f.faker.Bool(),
			Notifications: f.faker.Bool(),
			EmailUpdates:  f.faker.Bool(),
		},
	}
	for _, override := range overrides {
		override(&u)
	}
	return u
}

// Thought builds a public thought by author, liked by a random subset of likers.
func (f *Factory) Thought(author models.User, likers []string, overrides ...func(*models.Thought)) models.Thought {
	tags := make([]string, f.faker.Number(0, models.MaxThoughtTags))
	for i := range tags {
		tags[i] = f.faker.Word()
	}
	var likedBy []string
	for _, id := range likers {
		if f.faker.Bool() {
			likedBy = append(likedBy, id)
		}
	}
	t := models.Thought{
		ID:          "thought-" + f.faker.UUID(),
		Content:     f.faker.Sentence(14),
		AuthorID:    author.ID,
		Username:    author.Name,
		AuthorImage: author.Avatar,
		Timestamp:   f.pastTime(),
		Shares:      f.faker.Number(0, 40),
		Tags:        tags,
		IsPublic:    f.faker.Number(1, 10) > 2,
		LikedBy:     likedBy,
	}
	for _, override := range overrides {
		override(&t)
	}
	return t.Normalize()
}

// Note builds a markdown note owned by userID.
func (f *Factory) Note(userID string, overrides ...func(*models.Note)) models.Note {
	created := f.pastTime()
	n := models.Note{
		ID:        f.faker.UUID(),
		UserID:    userID,
		Title:     f.faker.Sentence(4),
		Content:   "# " + f.faker.Sentence(3) + "\n\n" + f.faker.Paragraph(2, 3, 8, "\n\n"),
		Tags:      []string{f.faker.Word(), f.faker.Word()},
		Color:     f.faker.HexColor(),
		IsPinned:  f.faker.Number(1, 10) > 7,
		IsPrivate: f.faker.Bool(),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, override := range overrides {
		override(&n)
	}
	return n
}

// Dataset builds users, each with thoughtsPerUser thoughts and notesPerUser notes.
func (f *Factory) Dataset(users, thoughtsPerUser, notesPerUser int) Fixtures {
	var fx Fixtures
	for range users {
		fx.Users = append(fx.Users, f.User())
	}
	ids := make([]string, len(fx.Users))
	for i, u := range fx.Users {
		ids[i] = u.ID
	}
	for _, u := range fx.Users {
		for range thoughtsPerUser {
			fx.Thoughts = append(fx.Thoughts, f.Thought(u, ids))
		}
		for range notesPerUser {
			fx.Notes = append(fx.Notes, f.Note(u.ID))
		}
	}
	return fx
}
