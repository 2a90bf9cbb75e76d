package simulation

import (
	"github.com/baseball-sim/matchup-engine/models"
)

// calculateAggregatedResults processes all games of a run into aggregated statistics
func calculateAggregatedResults(runID string, results []models.GameRecord) *models.AggregatedResult {
	if len(results) == 0 {
		return &models.AggregatedResult{RunID: runID}
	}

	aggregated := &models.AggregatedResult{
		RunID:                 runID,
		TotalSimulations:      len(results),
		HomeScoreDistribution: make(map[int]int),
		AwayScoreDistribution: make(map[int]int),
		Statistics:            make(map[string]float64),
	}

	var totalHomeScore, totalAwayScore float64
	var totalPitches, totalStrikeouts, totalWalks float64

	for _, record := range results {
		game := record.Result

		switch game.Winner {
		case "home":
			aggregated.HomeWins++
		case "away":
			aggregated.AwayWins++
		default:
			aggregated.Ties++
		}

		aggregated.HomeScoreDistribution[game.Home.FinalScore]++
		aggregated.AwayScoreDistribution[game.Away.FinalScore]++

		totalHomeScore += float64(game.Home.FinalScore)
		totalAwayScore += float64(game.Away.FinalScore)

		for i := 0; i < models.Innings; i++ {
			aggregated.HomeInningAverages[i] += float64(game.Home.InningScores[i])
			aggregated.AwayInningAverages[i] += float64(game.Away.InningScores[i])
		}

		for _, side := range []models.SimulationResult{game.Home, game.Away} {
			totalPitches += float64(side.Statistics.TotalPitches)
			totalStrikeouts += float64(side.Statistics.Strikeouts)
			totalWalks += float64(side.Statistics.Walks)
		}
	}

	totalSims := float64(aggregated.TotalSimulations)
	aggregated.HomeWinProbability = float64(aggregated.HomeWins) / totalSims
	aggregated.AwayWinProbability = float64(aggregated.AwayWins) / totalSims
	aggregated.TieProbability = float64(aggregated.Ties) / totalSims

	aggregated.ExpectedHomeScore = totalHomeScore / totalSims
	aggregated.ExpectedAwayScore = totalAwayScore / totalSims
	aggregated.AveragePitches = totalPitches / totalSims
	aggregated.AverageStrikeouts = totalStrikeouts / totalSims
	aggregated.AverageWalks = totalWalks / totalSims

	for i := 0; i < models.Innings; i++ {
		aggregated.HomeInningAverages[i] /= totalSims
		aggregated.AwayInningAverages[i] /= totalSims
	}

	aggregated.Statistics["total_runs_average"] = aggregated.ExpectedHomeScore + aggregated.ExpectedAwayScore
	aggregated.Statistics["score_variance"] = calculateScoreVariance(results, aggregated.ExpectedHomeScore+aggregated.ExpectedAwayScore)
	aggregated.Statistics["blowout_percentage"] = percentageOf(results, func(home, away int) bool {
		return abs(home-away) >= 7
	})
	aggregated.Statistics["one_run_game_percentage"] = percentageOf(results, func(home, away int) bool {
		return abs(home-away) == 1
	})
	aggregated.Statistics["shutout_percentage"] = percentageOf(results, func(home, away int) bool {
		return home == 0 || away == 0
	})
	aggregated.Statistics["high_scoring_percentage"] = percentageOf(results, func(home, away int) bool {
		return home+away >= 12
	})
	aggregated.Statistics["over_8_5"] = calculateOverProbability(results, 8.5)

	return aggregated
}

// calculateScoreVariance calculates the variance in total scoring
func calculateScoreVariance(results []models.GameRecord, expectedTotal float64) float64 {
	var sumSquaredDiffs float64
	for _, record := range results {
		total := float64(record.Result.Home.FinalScore + record.Result.Away.FinalScore)
		diff := total - expectedTotal
		sumSquaredDiffs += diff * diff
	}
	return sumSquaredDiffs / float64(len(results))
}

// percentageOf returns the share of games matching a final-score predicate, 0-100
func percentageOf(results []models.GameRecord, match func(home, away int) bool) float64 {
	count := 0
	for _, record := range results {
		if match(record.Result.Home.FinalScore, record.Result.Away.FinalScore) {
			count++
		}
	}
	return float64(count) / float64(len(results)) * 100.0
}

// calculateOverProbability returns the fraction of games whose combined score beats threshold
func calculateOverProbability(results []models.GameRecord, threshold float64) float64 {
	over := 0
	for _, record := range results {
		if float64(record.Result.Home.FinalScore+record.Result.Away.FinalScore) > threshold {
			over++
		}
	}
	return float64(over) / float64(len(results))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
