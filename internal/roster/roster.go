// Package roster loads clubs from roster files.
package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/touchline/internal/model"
)

// Load reads a club from a TOML or YAML roster file, chosen by extension.
func Load(path string) (model.Club, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Club{}, fmt.Errorf("failed to read roster file: %w", err)
	}

	var club model.Club
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &club); err != nil {
			return model.Club{}, fmt.Errorf("failed to parse roster file: %w", err)
		}
	case ".toml", "":
		if _, err := toml.Decode(string(data), &club); err != nil {
			return model.Club{}, fmt.Errorf("failed to parse roster file: %w", err)
		}
	default:
		return model.Club{}, fmt.Errorf("unsupported roster format %q", filepath.Ext(path))
	}
	return Normalize(club)
}

// Normalize validates a decoded club and fills defaults: ids, positions,
// fitness and attribute bounds.
func Normalize(club model.Club) (model.Club, error) {
	if len(club.Squad) == 0 {
		return model.Club{}, fmt.Errorf("roster has no players")
	}
	if strings.TrimSpace(club.Name) == "" {
		return model.Club{}, fmt.Errorf("roster has no club name")
	}
	if club.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return model.Club{}, fmt.Errorf("failed to generate club id: %w", err)
		}
		club.ID = id
	}

	seen := make(map[string]bool, len(club.Squad))
	squad := make([]model.Player, 0, len(club.Squad))
	for i, p := range club.Squad {
		pos, ok := ParsePosition(string(p.Position))
		if !ok {
			return model.Club{}, fmt.Errorf("player %d (%s): unknown position %q", i+1, p.Name, p.Position)
		}
		p.Position = pos
		if p.ID == "" {
			p.ID = fmt.Sprintf("p%02d", i+1)
		}
		if seen[p.ID] {
			return model.Club{}, fmt.Errorf("duplicate player id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Name == "" {
			p.Name = p.ID
		}
		if p.Fitness == 0 {
			p.Fitness = 100
		}
		p.Attributes = clampAttributes(p.Attributes)
		squad = append(squad, p)
	}
	club.Squad = squad
	return club, nil
}

func clampAttributes(a model.Attributes) model.Attributes {
	c := func(v int) int { return min(99, max(0, v)) }
	return model.Attributes{
		Pace:       c(a.Pace),
		Stamina:    c(a.Stamina),
		Dribbling:  c(a.Dribbling),
		Passing:    c(a.Passing),
		Shooting:   c(a.Shooting),
		Defending:  c(a.Defending),
		Leadership: c(a.Leadership),
		Potential:  c(a.Potential),
	}
}
