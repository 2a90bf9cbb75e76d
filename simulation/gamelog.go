package simulation

import (
	"bufio"
	"fmt"
	"io"

	"github.com/baseball-sim/matchup-engine/models"
)

// WriteGameLog writes a side's game as plain lines: each inning's header,
// pitcher, batters faced and runs, then the statistics block
func WriteGameLog(w io.Writer, result *models.SimulationResult) error {
	bw := bufio.NewWriter(w)

	for _, inning := range result.Innings {
		fmt.Fprintf(bw, "Inning %d\n", inning.Inning)
		fmt.Fprintf(bw, "Pitcher: %s\n", inning.Pitcher)
		fmt.Fprintf(bw, "Batters faced: %d\n", inning.BattersFaced)
		fmt.Fprintf(bw, "Runs: %d\n", inning.Runs)
	}
	fmt.Fprintf(bw, "Final score: %d\n", result.FinalScore)
	bw.WriteString(result.Statistics.Summary())

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write game log: %w", err)
	}
	return nil
}
