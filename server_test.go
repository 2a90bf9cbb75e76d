package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baseball-sim/matchup-engine/models"
	"github.com/baseball-sim/matchup-engine/simulation"
)

func newTestServer() *Server {
	config := &Config{Port: "0", Workers: 2, SimulationRuns: 20, MaxSimulationRuns: 50}
	engine := simulation.NewSimulationEngine(nil, config.Workers, config.SimulationRuns, zerolog.Nop())
	engine.SetMaxRuns(config.MaxSimulationRuns)
	return NewServer(config, engine, nil, zerolog.Nop())
}

func testLineupRequest(team string) LineupRequest {
	var req LineupRequest
	for i := 0; i < simulation.BattingOrderSize; i++ {
		split := models.CategorySplit{PlateAppearances: 150, Hits: 40, Singles: 27, Doubles: 8, Triples: 1, HomeRuns: 4}
		req.Batters = append(req.Batters, &models.BatterProfile{
			Name:          fmt.Sprintf("%s %d", team, i+1),
			Fastball:      split,
			Breaking:      split,
			Offspeed:      split,
			InZoneSwing:   0.68,
			InZoneContact: 0.86,
			ChaseSwing:    0.29,
			ChaseContact:  0.62,
		})
	}
	for i, role := range []models.RotationRole{models.Starter, models.Reliever, models.Reliever} {
		var mix models.PitchMix
		mix[models.FourSeam] = 0.55
		mix[models.Slider] = 0.25
		mix[models.Changeup] = 0.20
		req.Rotation = append(req.Rotation, &models.PitcherProfile{
			Name:       fmt.Sprintf("%s P%d", team, i+1),
			Role:       role,
			StrikeRate: 0.63,
			BallRate:   0.37,
			PitchMix:   mix,
		})
	}
	return req
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestHealthHandler tests the health check without a database
func TestHealthHandler(t *testing.T) {
	s := newTestServer()

	rec := doJSON(t, s.Handler(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "disabled", health["database"])
}

// TestSimulateGameHandler tests a single seeded game
func TestSimulateGameHandler(t *testing.T) {
	s := newTestServer()
	seed := int64(77)
	req := GameRequest{Home: testLineupRequest("Home"), Away: testLineupRequest("Away"), Seed: &seed}

	first := doJSON(t, s.Handler(), http.MethodPost, "/simulate/game", req)
	require.Equal(t, http.StatusOK, first.Code)

	var resp GameResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &resp))
	assert.Equal(t, seed, resp.Seed)
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.Home.Innings, 9)
	assert.Contains(t, []string{"home", "away", "tie"}, resp.Result.Winner)

	second := doJSON(t, s.Handler(), http.MethodPost, "/simulate/game", req)
	assert.Equal(t, first.Body.String(), second.Body.String(), "same seed, same game")
}

// TestSimulateGameHandlerErrors tests rejected game requests
func TestSimulateGameHandlerErrors(t *testing.T) {
	incomplete := testLineupRequest("Home")
	incomplete.Batters = incomplete.Batters[:8]

	crowded := testLineupRequest("Home")
	crowded.Rotation = append(crowded.Rotation, crowded.Rotation[0])

	wrongRole := testLineupRequest("Away")
	wrongRole.Rotation[0].Role = models.Reliever

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantError  string
	}{
		{"missing batter", GameRequest{Home: incomplete, Away: testLineupRequest("Away")}, http.StatusUnprocessableEntity, lineupIncompleteMessage},
		{"no starter", GameRequest{Home: testLineupRequest("Home"), Away: wrongRole}, http.StatusUnprocessableEntity, lineupIncompleteMessage},
		{"empty request", GameRequest{}, http.StatusUnprocessableEntity, lineupIncompleteMessage},
		{"too many pitchers", GameRequest{Home: crowded, Away: testLineupRequest("Away")}, http.StatusBadRequest, "Lineup has too many players"},
		{"not json", "{", http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			rec := doJSON(t, s.Handler(), http.MethodPost, "/simulate/game", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

// TestSimulateRunLifecycle tests submitting a batch and reading it back
func TestSimulateRunLifecycle(t *testing.T) {
	s := newTestServer()
	handler := s.Handler()
	seed := int64(5)

	rec := doJSON(t, handler, http.MethodPost, "/simulate", SimulationRequest{
		Home:           testLineupRequest("Home"),
		Away:           testLineupRequest("Away"),
		SimulationRuns: 30,
		Seed:           &seed,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var submitted SimulationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	require.NotEmpty(t, submitted.RunID)
	assert.Equal(t, seed, submitted.Seed)
	assert.Equal(t, "Simulation started with 30 runs", submitted.Message)

	statusPath := "/simulation/" + submitted.RunID + "/status"
	require.Eventually(t, func() bool {
		rec := doJSON(t, handler, http.MethodGet, statusPath, nil)
		var status SimulationStatus
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			return false
		}
		return status.Status == simulation.StatusCompleted
	}, 10*time.Second, 10*time.Millisecond)

	rec = doJSON(t, handler, http.MethodGet, statusPath, nil)
	var status SimulationStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 30, status.TotalRuns)
	assert.Equal(t, 30, status.CompletedRuns)
	assert.Equal(t, 1.0, status.Progress)

	rec = doJSON(t, handler, http.MethodGet, "/simulation/"+submitted.RunID+"/result", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result models.AggregatedResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, submitted.RunID, result.RunID)
	assert.Equal(t, 30, result.TotalSimulations)
}

// TestSimulateHandlerIncompleteLineup tests that a batch is refused up front
func TestSimulateHandlerIncompleteLineup(t *testing.T) {
	s := newTestServer()
	away := testLineupRequest("Away")
	away.Rotation = away.Rotation[:1]

	rec := doJSON(t, s.Handler(), http.MethodPost, "/simulate", SimulationRequest{
		Home: testLineupRequest("Home"),
		Away: away,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), lineupIncompleteMessage)
}

// TestSimulateHandlerTooManyRuns tests that oversized batches are refused
// before anything is started
func TestSimulateHandlerTooManyRuns(t *testing.T) {
	for _, runs := range []int{51, math.MaxInt} {
		t.Run(fmt.Sprint(runs), func(t *testing.T) {
			s := newTestServer()

			rec := doJSON(t, s.Handler(), http.MethodPost, "/simulate", SimulationRequest{
				Home:           testLineupRequest("Home"),
				Away:           testLineupRequest("Away"),
				SimulationRuns: runs,
			})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Simulation runs must not exceed 50", resp.Error)
			require.NoError(t, s.simEngine.Wait(context.Background()))
		})
	}
}

// TestShutdownDrainsRuns tests that shutdown waits for submitted batches
func TestShutdownDrainsRuns(t *testing.T) {
	s := newTestServer()
	seed := int64(9)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/simulate", SimulationRequest{
		Home:           testLineupRequest("Home"),
		Away:           testLineupRequest("Away"),
		SimulationRuns: 50,
		Seed:           &seed,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var submitted SimulationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	status, ok := s.simEngine.GetRunStatus(submitted.RunID)
	require.True(t, ok)
	assert.Equal(t, simulation.StatusCompleted, status.Status)
}

// TestUnknownRun tests status and result lookups for a run that never existed
func TestUnknownRun(t *testing.T) {
	s := newTestServer()

	for _, path := range []string{"/simulation/nope/status", "/simulation/nope/result"} {
		t.Run(path, func(t *testing.T) {
			rec := doJSON(t, s.Handler(), http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

// TestCORSPreflight tests that browsers may call the API cross-origin
func TestCORSPreflight(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/simulate/game", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
