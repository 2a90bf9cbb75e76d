// Package profiles loads player profiles and assembles them into rosters.
package profiles

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/baseball-sim/matchup-engine/models"
)

// Column prefixes for the batter split columns, e.g. fb_pa, br_h, tot_hr
var splitPrefixes = map[string]func(*models.BatterProfile) *models.CategorySplit{
	"fb":  func(b *models.BatterProfile) *models.CategorySplit { return &b.Fastball },
	"br":  func(b *models.BatterProfile) *models.CategorySplit { return &b.Breaking },
	"os":  func(b *models.BatterProfile) *models.CategorySplit { return &b.Offspeed },
	"tot": func(b *models.BatterProfile) *models.CategorySplit { return &b.Total },
}

// LoadBatters reads batter profiles from CSV with a header row. Rows without
// a name are skipped; blank or unparseable numbers fall back to defaults.
func LoadBatters(r io.Reader, logger zerolog.Logger) ([]*models.BatterProfile, error) {
	rows, err := readRecords(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read batters: %w", err)
	}

	var batters []*models.BatterProfile
	for i, row := range rows {
		name := row["name"]
		if name == "" {
			logger.Warn().Int("row", i+2).Msg("skipping batter without a name")
			continue
		}

		b := &models.BatterProfile{Name: name}
		for prefix, split := range splitPrefixes {
			s := split(b)
			s.PlateAppearances = getInt(row, prefix+"_pa", 0)
			s.Hits = getInt(row, prefix+"_h", 0)
			s.Singles = getInt(row, prefix+"_1b", 0)
			s.Doubles = getInt(row, prefix+"_2b", 0)
			s.Triples = getInt(row, prefix+"_3b", 0)
			s.HomeRuns = getInt(row, prefix+"_hr", 0)
			// No singles column: hits not listed as extra-base hits are singles
			if !hasValue(row, prefix+"_1b") {
				s.Singles = max(s.Hits-s.Doubles-s.Triples-s.HomeRuns, 0)
			}
		}
		if b.Total == (models.CategorySplit{}) {
			b.Total = sumSplits(b.Fastball, b.Breaking, b.Offspeed)
		}

		b.InZoneSwing = getRate(row, "z_swing", 0.65)
		b.InZoneContact = getRate(row, "z_contact", 0.85)
		b.ChaseSwing = getRate(row, "o_swing", 0.30)
		b.ChaseContact = getRate(row, "o_contact", 0.60)
		b.AVG = getFloat(row, "avg", 0.250)
		b.OBP = getFloat(row, "obp", 0.320)
		b.OPS = getFloat(row, "ops", 0.720)

		for _, s := range []models.CategorySplit{b.Fastball, b.Breaking, b.Offspeed} {
			if !s.IsConsistent() {
				logger.Warn().Str("batter", name).Msg("split counts do not add up, engine will clamp")
				break
			}
		}

		batters = append(batters, b)
	}
	return batters, nil
}

// LoadPitchers reads pitcher profiles from CSV with a header row. Pitch usage
// columns are named after the pitch types (four_seam, slider, ...).
func LoadPitchers(r io.Reader, logger zerolog.Logger) ([]*models.PitcherProfile, error) {
	rows, err := readRecords(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pitchers: %w", err)
	}

	var pitchers []*models.PitcherProfile
	for i, row := range rows {
		name := row["name"]
		if name == "" {
			logger.Warn().Int("row", i+2).Msg("skipping pitcher without a name")
			continue
		}

		role, err := parseRole(row["role"])
		if err != nil {
			logger.Warn().Err(err).Str("pitcher", name).Msg("skipping pitcher")
			continue
		}

		p := &models.PitcherProfile{
			Name:       name,
			Role:       role,
			StrikeRate: getRate(row, "strike_rate", 0.62),
			BallRate:   getRate(row, "ball_rate", 0.38),
		}
		for _, pt := range models.AllPitchTypes() {
			p.PitchMix[pt] = getRate(row, pt.String(), 0)
		}
		if sum := p.PitchMix.Sum(); sum > 1.0001 || sum < 0.9999 {
			logger.Debug().Str("pitcher", name).Float64("usage_sum", sum).Msg("pitch mix does not sum to 1")
		}

		pitchers = append(pitchers, p)
	}
	return pitchers, nil
}

// readRecords reads a CSV into one map per row keyed by lower-cased header
func readRecords(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRole(s string) (models.RotationRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "starter", "sp", "s":
		return models.Starter, nil
	case "reliever", "rp", "r":
		return models.Reliever, nil
	}
	return "", fmt.Errorf("unknown rotation role %q", s)
}

func sumSplits(splits ...models.CategorySplit) models.CategorySplit {
	var total models.CategorySplit
	for _, s := range splits {
		total.PlateAppearances += s.PlateAppearances
		total.Hits += s.Hits
		total.Singles += s.Singles
		total.Doubles += s.Doubles
		total.Triples += s.Triples
		total.HomeRuns += s.HomeRuns
	}
	return total
}

func hasValue(row map[string]string, key string) bool {
	_, err := strconv.ParseFloat(row[key], 64)
	return err == nil
}

func getFloat(row map[string]string, key string, defaultValue float64) float64 {
	if v, ok := row[key]; ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getInt(row map[string]string, key string, defaultValue int) int {
	if v, ok := row[key]; ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		// Some exports write counts as floats
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return int(f)
		}
	}
	return defaultValue
}

// getRate reads a probability written either as a fraction or a percentage ("68.5%")
func getRate(row map[string]string, key string, defaultValue float64) float64 {
	v, ok := row[key]
	if !ok || v == "" {
		return defaultValue
	}
	if pct, found := strings.CutSuffix(v, "%"); found {
		if f, err := strconv.ParseFloat(strings.TrimSpace(pct), 64); err == nil {
			return f / 100.0
		}
		return defaultValue
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return defaultValue
}
