// Package seed provides the demo roster, feed and notes the application
// starts with, plus fake data factories for tests and load demos.
package seed

import (
	"embed"
	"fmt"

	"mindfeed/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// Fixtures is the bundled demo dataset.
type Fixtures struct {
	Users    []models.User
	Thoughts []models.Thought
	Notes    []models.Note
}

// Load decodes the embedded fixtures. Thought counters are re-derived.
func Load() (Fixtures, error) {
	var fx Fixtures
	if err := decode("fixtures/users.yaml", &fx.Users); err != nil {
		return Fixtures{}, err
	}
	if err := decode("fixtures/thoughts.yaml", &fx.Thoughts); err != nil {
		return Fixtures{}, err
	}
	if err := decode("fixtures/notes.yaml", &fx.Notes); err != nil {
		return Fixtures{}, err
	}
	for i, t := range fx.Thoughts {
		fx.Thoughts[i] = t.Normalize()
	}
	for i, n := range fx.Notes {
		fx.Notes[i] = n.Clone()
	}
	return fx, nil
}

func decode(name string, out any) error {
	data, err := fixtureFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
