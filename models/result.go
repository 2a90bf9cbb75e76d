package models

import (
	"fmt"
	"strings"
	"time"
)

// Innings is the fixed length of a game
const Innings = 9

// Statistics are the pitch, hit and outcome counters for one or more half-innings
type Statistics struct {
	TotalPitches    int            `json:"total_pitches"`
	PitchTypeCounts PitchCounts    `json:"pitch_type_counts"`
	CategoryCounts  CategoryCounts `json:"category_counts"`
	BattersFaced    int            `json:"batters_faced"`
	Hits            int            `json:"hits"`
	Singles         int            `json:"singles"`
	Doubles         int            `json:"doubles"`
	Triples         int            `json:"triples"`
	HomeRuns        int            `json:"home_runs"`
	Strikeouts      int            `json:"strikeouts"`
	Walks           int            `json:"walks"`
}

// RecordPitch counts one pitch of the given type
func (s *Statistics) RecordPitch(pt PitchType) {
	s.TotalPitches++
	s.PitchTypeCounts[pt]++
	s.CategoryCounts[pt.Category()]++
}

// RecordOutcome counts the result of a plate appearance
func (s *Statistics) RecordOutcome(o Outcome) {
	s.BattersFaced++
	switch o {
	case Strikeout:
		s.Strikeouts++
	case Walk:
		s.Walks++
	case Out:
	case Single:
		s.Hits++
		s.Singles++
	case Double:
		s.Hits++
		s.Doubles++
	case Triple:
		s.Hits++
		s.Triples++
	case HomeRun:
		s.Hits++
		s.HomeRuns++
	}
}

// Add folds another set of counters into this one
func (s *Statistics) Add(other Statistics) {
	s.TotalPitches += other.TotalPitches
	for i := range s.PitchTypeCounts {
		s.PitchTypeCounts[i] += other.PitchTypeCounts[i]
	}
	for i := range s.CategoryCounts {
		s.CategoryCounts[i] += other.CategoryCounts[i]
	}
	s.BattersFaced += other.BattersFaced
	s.Hits += other.Hits
	s.Singles += other.Singles
	s.Doubles += other.Doubles
	s.Triples += other.Triples
	s.HomeRuns += other.HomeRuns
	s.Strikeouts += other.Strikeouts
	s.Walks += other.Walks
}

// Reconciles checks that the pitch tallies and hit breakdown agree with their totals
func (s Statistics) Reconciles() bool {
	return s.TotalPitches == s.PitchTypeCounts.Total() &&
		s.TotalPitches == s.CategoryCounts.Total() &&
		s.Singles+s.Doubles+s.Triples+s.HomeRuns == s.Hits
}

// InningSummary records one half-inning of a side's game
type InningSummary struct {
	Inning       int    `json:"inning"`
	Pitcher      string `json:"pitcher"`
	BattersFaced int    `json:"batters_faced"`
	Runs         int    `json:"runs"`
}

// LogLine renders the summary as a game-log entry
func (is InningSummary) LogLine() string {
	return fmt.Sprintf("Inning %d: %s pitching, %d batters faced, %d run(s)",
		is.Inning, is.Pitcher, is.BattersFaced, is.Runs)
}

// SimulationResult represents one side's completed nine innings
type SimulationResult struct {
	InningScores [Innings]int    `json:"inning_scores"`
	FinalScore   int             `json:"final_score"`
	Innings      []InningSummary `json:"innings"`
	Log          []string        `json:"log"`
	Plays        []PlayEvent     `json:"plays,omitempty"`
	Statistics   Statistics      `json:"statistics"`
	Faults       int             `json:"faults,omitempty"`
}

// ScoreLine renders the inning-by-inning line score
func (r *SimulationResult) ScoreLine() string {
	var b strings.Builder
	for i, runs := range r.InningScores {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d", runs)
	}
	fmt.Fprintf(&b, " | R %d H %d", r.FinalScore, r.Statistics.Hits)
	return b.String()
}

// Report renders the score line, the per-inning log and the statistics block
func (r *SimulationResult) Report() string {
	var b strings.Builder

	b.WriteString("== Score ==\n")
	b.WriteString(r.ScoreLine())
	b.WriteString("\n\n== Innings ==\n")
	for _, line := range r.Log {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n== Statistics ==\n")
	b.WriteString(r.Statistics.Summary())
	return b.String()
}

// Summary renders the statistics block
func (s Statistics) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pitches thrown: %d\n", s.TotalPitches)
	for _, pc := range []PitchCategory{Fastball, Breaking, Offspeed} {
		fmt.Fprintf(&b, "  %s: %d\n", pc, s.CategoryCounts[pc])
	}
	for _, pt := range AllPitchTypes() {
		if s.PitchTypeCounts[pt] > 0 {
			fmt.Fprintf(&b, "    %s: %d\n", pt, s.PitchTypeCounts[pt])
		}
	}
	fmt.Fprintf(&b, "Batters faced: %d\n", s.BattersFaced)
	fmt.Fprintf(&b, "Hits: %d (1B %d, 2B %d, 3B %d, HR %d)\n",
		s.Hits, s.Singles, s.Doubles, s.Triples, s.HomeRuns)
	fmt.Fprintf(&b, "Strikeouts: %d\n", s.Strikeouts)
	fmt.Fprintf(&b, "Walks: %d\n", s.Walks)
	return b.String()
}

// ContestResult is both sides of one simulated game
type ContestResult struct {
	Home   SimulationResult `json:"home"`
	Away   SimulationResult `json:"away"`
	Winner string           `json:"winner"` // "home", "away" or "tie"
}

// Report renders both sides' reports under a combined header
func (c *ContestResult) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Final: away %d, home %d (%s)\n\n", c.Away.FinalScore, c.Home.FinalScore, c.Winner)
	b.WriteString("### Away\n")
	b.WriteString(c.Away.Report())
	b.WriteString("\n### Home\n")
	b.WriteString(c.Home.Report())
	return b.String()
}

// GameRecord is one contest within a batch run
type GameRecord struct {
	RunID            string        `json:"run_id"`
	SimulationNumber int           `json:"simulation_number"`
	Seed             int64         `json:"seed"`
	Result           ContestResult `json:"result"`
	CreatedAt        time.Time     `json:"created_at"`
}

// AggregatedResult represents the combined results of all simulations in a run
type AggregatedResult struct {
	RunID                 string             `json:"run_id"`
	TotalSimulations      int                `json:"total_simulations"`
	HomeWins              int                `json:"home_wins"`
	AwayWins              int                `json:"away_wins"`
	Ties                  int                `json:"ties"`
	HomeWinProbability    float64            `json:"home_win_probability"`
	AwayWinProbability    float64            `json:"away_win_probability"`
	TieProbability        float64            `json:"tie_probability"`
	ExpectedHomeScore     float64            `json:"expected_home_score"`
	ExpectedAwayScore     float64            `json:"expected_away_score"`
	HomeScoreDistribution map[int]int        `json:"home_score_distribution"`
	AwayScoreDistribution map[int]int        `json:"away_score_distribution"`
	HomeInningAverages    [Innings]float64   `json:"home_inning_averages"`
	AwayInningAverages    [Innings]float64   `json:"away_inning_averages"`
	AveragePitches        float64            `json:"average_pitches"`
	AverageStrikeouts     float64            `json:"average_strikeouts"`
	AverageWalks          float64            `json:"average_walks"`
	Statistics            map[string]float64 `json:"statistics"`
}
