package persistence

import (
	"encoding/json"

	"mindfeed/internal/models"
	"mindfeed/internal/store"
)

// Report describes what a migration found in a slot document.
type Report struct {
	// Valid is false when the document could not be read at all; the
	// returned state is then empty and callers keep their defaults.
	Valid   bool
	Version int
	// Repairs counts entries or fields that were dropped, coerced or
	// re-derived.
	Repairs int
}

// MigrateThoughts rebuilds thought state from a persisted document.
// Session fields are always reset.
func MigrateThoughts(raw []byte) (store.ThoughtState, Report) {
	state := store.ThoughtState{Thoughts: []models.Thought{}}
	doc, ok := decodeDocument(raw)
	if !ok {
		return state, Report{}
	}
	rep := Report{Valid: true, Version: doc.version}
	f := fields(doc.fields)

	items, ok := f.array("thoughts")
	if !ok {
		rep.Repairs++
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		t, repaired, keep := migrateThought(item)
		if !keep {
			rep.Repairs++
			continue
		}
		if _, dup := seen[t.ID]; dup {
			rep.Repairs++
			continue
		}
		seen[t.ID] = struct{}{}
		if repaired {
			rep.Repairs++
		}
		state.Thoughts = append(state.Thoughts, t)
	}
	return state, rep
}

func migrateThought(raw json.RawMessage) (t models.Thought, repaired, keep bool) {
	f, ok := asFields(raw)
	if !ok {
		return t, false, false
	}
	id, ok := f.str("id")
	if !ok || id == "" {
		return t, false, false
	}

	clean := true
	check := func(ok bool) {
		clean = clean && ok
	}

	t.ID = id
	var okField bool
	t.Content, okField = f.str("content")
	check(okField)
	t.AuthorID, okField = f.str("authorId")
	check(okField)
	t.Username, okField = f.str("username")
	check(okField)
	t.AuthorImage, okField = f.str("authorImage")
	check(okField)
	t.Timestamp, okField = f.timestamp("timestamp")
	check(okField)
	t.Shares, okField = f.integer("shares")
	check(okField)
	t.IsPublic, okField = f.boolean("isPublic")
	check(okField)
	t.Tags, okField = f.strings("tags")
	check(okField)
	t.LikedBy, okField = f.strings("likedBy")
	check(okField)

	comments, okField := f.array("commentData")
	check(okField)
	t.CommentData = make([]models.Comment, 0, len(comments))
	for _, item := range comments {
		var c models.Comment
		if err := json.Unmarshal(item, &c); err != nil || c.ID == "" {
			clean = false
			continue
		}
		t.CommentData = append(t.CommentData, c)
	}

	likes, _ := f.integer("likes")
	count, _ := f.integer("comments")
	t = t.Normalize()
	if likes != t.Likes || count != t.Comments {
		clean = false
	}
	return t, !clean, true
}

// MigrateNotes rebuilds notes state. A selection that names no surviving
// note is cleared.
func MigrateNotes(raw []byte) (store.NotesState, Report) {
	state := store.NotesState{Notes: []models.Note{}}
	doc, ok := decodeDocument(raw)
	if !ok {
		return state, Report{}
	}
	rep := Report{Valid: true, Version: doc.version}
	f := fields(doc.fields)

	items, ok := f.array("notes")
	if !ok {
		rep.Repairs++
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		n, repaired, keep := migrateNote(item)
		if !keep {
			rep.Repairs++
			continue
		}
		if _, dup := seen[n.ID]; dup {
			rep.Repairs++
			continue
		}
		seen[n.ID] = struct{}{}
		if repaired {
			rep.Repairs++
		}
		state.Notes = append(state.Notes, n)
	}

	selected, ok := f.optStr("selectedNoteId")
	if !ok {
		rep.Repairs++
	}
	if selected != nil {
		if _, exists := seen[*selected]; exists {
			state.SelectedNoteID = selected
		} else {
			rep.Repairs++
		}
	}
	return state, rep
}

func migrateNote(raw json.RawMessage) (n models.Note, repaired, keep bool) {
	f, ok := asFields(raw)
	if !ok {
		return n, false, false
	}
	id, ok := f.str("id")
	if !ok || id == "" {
		return n, false, false
	}

	clean := true
	var okField bool
	n.ID = id
	n.UserID, okField = f.str("userId")
	clean = clean && okField
	n.Title, okField = f.str("title")
	clean = clean && okField
	n.Content, okField = f.str("content")
	clean = clean && okField
	n.Color, okField = f.str("color")
	clean = clean && okField
	n.IsPinned, okField = f.boolean("isPinned")
	clean = clean && okField
	n.IsPrivate, okField = f.boolean("isPrivate")
	clean = clean && okField
	n.Tags, okField = f.strings("tags")
	clean = clean && okField
	n.CreatedAt, okField = f.timestamp("createdAt")
	clean = clean && okField
	n.UpdatedAt, okField = f.timestamp("updatedAt")
	clean = clean && okField

	switch {
	case n.CreatedAt.IsZero() && !n.UpdatedAt.IsZero():
		n.CreatedAt = n.UpdatedAt
		clean = false
	case n.UpdatedAt.IsZero() && !n.CreatedAt.IsZero():
		n.UpdatedAt = n.CreatedAt
		clean = false
	}
	return n, !clean, true
}

// MigrateRelationships rebuilds the followed set. Persisted suggestions are
// ignored; they are recomputed from the directory.
func MigrateRelationships(raw []byte) (store.RelationshipState, Report) {
	state := store.RelationshipState{FollowedUsers: []string{}}
	doc, ok := decodeDocument(raw)
	if !ok {
		return state, Report{}
	}
	rep := Report{Valid: true, Version: doc.version}
	f := fields(doc.fields)

	ids, ok := f.strings("followedUsers")
	if !ok {
		rep.Repairs++
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			rep.Repairs++
			continue
		}
		if _, dup := seen[id]; dup {
			rep.Repairs++
			continue
		}
		seen[id] = struct{}{}
		state.FollowedUsers = append(state.FollowedUsers, id)
	}
	return state, rep
}

// MigrateUser rebuilds the session user field by field. A user without an
// id is dropped, mistyped fields are zeroed and an unknown role falls back
// to RoleUser.
func MigrateUser(raw []byte) (store.UserState, Report) {
	var state store.UserState
	doc, ok := decodeDocument(raw)
	if !ok {
		return state, Report{}
	}
	rep := Report{Valid: true, Version: doc.version}
	f := fields(doc.fields)

	if !f.has("currentUser") {
		return state, rep
	}
	u, repaired, keep := migrateUser(f["currentUser"])
	if repaired || !keep {
		rep.Repairs++
	}
	if keep {
		state.CurrentUser = &u
	}
	return state, rep
}

func migrateUser(raw json.RawMessage) (u models.User, repaired, keep bool) {
	f, ok := asFields(raw)
	if !ok {
		return u, false, false
	}
	id, ok := f.str("id")
	if !ok || id == "" {
		return u, false, false
	}

	clean := true
	var okField bool
	u.ID = id
	u.Name, okField = f.str("name")
	clean = clean && okField
	u.Email, okField = f.str("email")
	clean = clean && okField
	u.Avatar, okField = f.str("avatar")
	clean = clean && okField
	u.Bio, okField = f.str("bio")
	clean = clean && okField
	u.JoinedDate, okField = f.timestamp("joinedDate")
	clean = clean && okField
	u.Following, okField = f.integer("following")
	clean = clean && okField
	u.Followers, okField = f.integer("followers")
	clean = clean && okField

	role, okField := f.str("role")
	u.Role = models.Role(role)
	if !okField || !u.Role.Valid() {
		u.Role = models.RoleUser
		clean = false
	}

	if f.has("preferences") {
		p, okField := f.object("preferences")
		if okField {
			var prefs models.Preferences
			prefs.DarkMode, okField = p.boolean("darkMode")
			clean = clean && okField
			prefs.Notifications, okField = p.boolean("notifications")
			clean = clean && okField
			prefs.EmailUpdates, okField = p.boolean("emailUpdates")
			clean = clean && okField
			u.Preferences = &prefs
		} else {
			clean = false
		}
	}
	return u, !clean, true
}
