package profiles

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/baseball-sim/matchup-engine/models"
)

// LineupFile is the on-disk form of a roster: player names by slot
type LineupFile struct {
	Team         string   `yaml:"team"`
	BattingOrder []string `yaml:"batting_order"`
	Rotation     []string `yaml:"rotation"`
}

// LoadLineupFile reads a YAML lineup and resolves its names against the
// loaded profiles. Names match case-insensitively. The roster may come back
// with empty slots; completeness is checked when a game starts.
func LoadLineupFile(r io.Reader, batters []*models.BatterProfile, pitchers []*models.PitcherProfile) (*Roster, error) {
	var file LineupFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse lineup file: %w", err)
	}

	batterIndex := make(map[string]*models.BatterProfile, len(batters))
	for _, b := range batters {
		batterIndex[strings.ToLower(b.Name)] = b
	}
	pitcherIndex := make(map[string]*models.PitcherProfile, len(pitchers))
	for _, p := range pitchers {
		pitcherIndex[strings.ToLower(p.Name)] = p
	}

	roster := NewRoster(file.Team)

	for slot, name := range file.BattingOrder {
		if strings.TrimSpace(name) == "" {
			continue
		}
		b, ok := batterIndex[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("batting_order[%d]: unknown batter %q", slot, name)
		}
		if err := roster.SetBatter(slot, b); err != nil {
			return nil, err
		}
	}

	for slot, name := range file.Rotation {
		if strings.TrimSpace(name) == "" {
			continue
		}
		p, ok := pitcherIndex[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("rotation[%d]: unknown pitcher %q", slot, name)
		}
		if err := roster.SetPitcher(slot, p); err != nil {
			return nil, err
		}
	}

	return roster, nil
}
