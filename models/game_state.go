package models

import "fmt"

// Outcome is how a plate appearance ended
type Outcome int

const (
	Strikeout Outcome = iota
	Walk
	Out
	Single
	Double
	Triple
	HomeRun
)

func (o Outcome) String() string {
	switch o {
	case Strikeout:
		return "strikeout"
	case Walk:
		return "walk"
	case Out:
		return "out"
	case Single:
		return "single"
	case Double:
		return "double"
	case Triple:
		return "triple"
	case HomeRun:
		return "home_run"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// IsOut reports whether the outcome retires the batter
func (o Outcome) IsOut() bool {
	return o == Strikeout || o == Out
}

// IsHit reports whether the outcome is a base hit
func (o Outcome) IsHit() bool {
	switch o {
	case Single, Double, Triple, HomeRun:
		return true
	}
	return false
}

// MarshalText writes the outcome name
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText reads an outcome name
func (o *Outcome) UnmarshalText(text []byte) error {
	for _, candidate := range []Outcome{Strikeout, Walk, Out, Single, Double, Triple, HomeRun} {
		if candidate.String() == string(text) {
			*o = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", string(text))
}

// BaseState represents which bases are occupied
type BaseState struct {
	First  bool `json:"first"`
	Second bool `json:"second"`
	Third  bool `json:"third"`
}

// Count represents balls and strikes
type Count struct {
	Balls   int `json:"balls"`
	Strikes int `json:"strikes"`
}

// IsStrikeout checks if the count has reached three strikes
func (c Count) IsStrikeout() bool {
	return c.Strikes >= 3
}

// IsWalk checks if the count has reached four balls
func (c Count) IsWalk() bool {
	return c.Balls >= 4
}

// InningState is the state of one half-inning in progress
type InningState struct {
	Outs  int        `json:"outs"`
	Bases BaseState  `json:"bases"`
	Stats Statistics `json:"stats"`
}

// IsInningOver checks if the current half-inning is over
func (is *InningState) IsInningOver() bool {
	return is.Outs >= 3
}

// IsEmpty checks if all bases are empty
func (bs BaseState) IsEmpty() bool {
	return !bs.First && !bs.Second && !bs.Third
}

// RunnerCount returns the number of runners on base
func (bs BaseState) RunnerCount() int {
	count := 0
	if bs.First {
		count++
	}
	if bs.Second {
		count++
	}
	if bs.Third {
		count++
	}
	return count
}

func (bs BaseState) String() string {
	mark := func(occupied bool, label string) string {
		if occupied {
			return label
		}
		return "-"
	}
	return mark(bs.First, "1") + mark(bs.Second, "2") + mark(bs.Third, "3")
}

// PlayEvent represents one plate appearance in the play-by-play
type PlayEvent struct {
	Inning  int       `json:"inning"`
	Batter  string    `json:"batter"`
	Pitcher string    `json:"pitcher"`
	Result  Outcome   `json:"result"`
	Pitches int       `json:"pitches"`
	Count   Count     `json:"count"`
	Runs    int       `json:"runs,omitempty"`
	Outs    int       `json:"outs"`
	Bases   BaseState `json:"bases"`
}

// Description renders the event as a play-by-play line
func (e PlayEvent) Description() string {
	line := fmt.Sprintf("%s vs %s: %s on %d pitches (%d-%d)",
		e.Batter, e.Pitcher, e.Result, e.Pitches, e.Count.Balls, e.Count.Strikes)
	if e.Runs > 0 {
		line += fmt.Sprintf(", %d run(s) score", e.Runs)
	}
	return line + fmt.Sprintf(" [%d out, bases %s]", e.Outs, e.Bases)
}
