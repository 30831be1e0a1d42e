package http_test

import (
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ttx-service/internal/app/report"
	"ttx-service/internal/app/scoreboard"
	"ttx-service/internal/app/session"
	"ttx-service/internal/archive"
	ttxhttp "ttx-service/internal/http"
	"ttx-service/internal/http/handlers"
	"ttx-service/internal/metrics"
	"ttx-service/internal/store"
	"ttx-service/internal/testutil"
)

const testGM = "gm-1"

type testServer struct {
	router nethttp.Handler
	status archive.Status
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := store.NewMemoryStore()
	if err := st.PutScenario(testutil.SampleScenario()); err != nil {
		t.Fatalf("seed scenario: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewService(st, logger, metrics.NewRecorder()).WithClock(
		testutil.TickingClock(testutil.MustParseRFC3339("2026-03-14T15:00:00Z"), time.Second),
		testutil.SequentialIDs("id"),
		testutil.SequentialIDs("CODE"),
	)
	board := scoreboard.NewService(st, 10)
	reports := report.NewService(st)

	ts := &testServer{}
	h := handlers.NewHandler(sessions, board, reports, logger, func() archive.Status { return ts.status })
	ts.router = ttxhttp.NewRouter(h)
	return ts
}

// do issues a request as the given GM. An empty gm omits the header.
func (ts *testServer) do(t *testing.T, method, path, gm string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload io.Reader
	if body != nil {
		payload = testutil.JSONBody(t, body)
	}
	req := httptest.NewRequest(method, path, payload)
	if gm != "" {
		req.Header.Set("X-GM-ID", gm)
	}
	return testutil.ServeRequest(ts.router, req)
}

func (ts *testServer) createGame(t *testing.T) session.GameView {
	t.Helper()
	rr := ts.do(t, nethttp.MethodPost, "/games", testGM, map[string]string{"scenario_id": "sample"})
	testutil.AssertStatus(t, rr, nethttp.StatusCreated)
	var view session.GameView
	testutil.DecodeJSON(t, rr, &view)
	return view
}

func TestHealthAndReady(t *testing.T) {
	ts := newTestServer(t)

	testutil.AssertStatus(t, testutil.Serve(ts.router, nethttp.MethodGet, "/health", nil), nethttp.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(ts.router, nethttp.MethodGet, "/ready", nil), nethttp.StatusOK)

	ts.status = archive.Status{ConsecutiveFailures: 3, LastError: "disk full"}
	rr := testutil.Serve(ts.router, nethttp.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusServiceUnavailable)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["error"] != "disk full" {
		t.Fatalf("unexpected readiness error %q", body["error"])
	}
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)

	view := ts.createGame(t)
	if view.ID == "" || len(view.Teams) != 2 {
		t.Fatalf("unexpected game view %+v", view)
	}

	rr := ts.do(t, nethttp.MethodPost, "/games", testGM, map[string]string{"scenario_id": "missing"})
	testutil.AssertStatus(t, rr, nethttp.StatusNotFound)

	rr = testutil.Serve(ts.router, nethttp.MethodPost, "/games", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusBadRequest)
}

func TestGameOwnership(t *testing.T) {
	ts := newTestServer(t)
	view := ts.createGame(t)

	testutil.AssertStatus(t, ts.do(t, nethttp.MethodGet, "/games/"+view.ID, testGM, nil), nethttp.StatusOK)
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodGet, "/games/"+view.ID, "gm-2", nil), nethttp.StatusForbidden)
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodGet, "/games/"+view.ID, "", nil), nethttp.StatusForbidden)
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodGet, "/games/missing", testGM, nil), nethttp.StatusNotFound)
}

func TestDeleteGame(t *testing.T) {
	ts := newTestServer(t)
	view := ts.createGame(t)

	testutil.AssertStatus(t, ts.do(t, nethttp.MethodDelete, "/games/"+view.ID, "gm-2", nil), nethttp.StatusForbidden)
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodDelete, "/games/"+view.ID, testGM, nil), nethttp.StatusNoContent)
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodGet, "/games/"+view.ID, testGM, nil), nethttp.StatusNotFound)
}

func TestPhaseCommandConflicts(t *testing.T) {
	ts := newTestServer(t)
	view := ts.createGame(t)

	rr := ts.do(t, nethttp.MethodPost, "/games/"+view.ID+"/phase/lock_decisions", testGM, nil)
	testutil.AssertStatus(t, rr, nethttp.StatusConflict)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["code"] != "INVALID_TRANSITION" {
		t.Fatalf("unexpected error code %q", body["code"])
	}
}

func TestInvalidPhaseIndex(t *testing.T) {
	ts := newTestServer(t)
	view := ts.createGame(t)

	for _, raw := range []string{"abc", "-1"} {
		rr := ts.do(t, nethttp.MethodGet, "/games/"+view.ID+"/phases/"+raw+"/decisions", testGM, nil)
		testutil.AssertStatus(t, rr, nethttp.StatusBadRequest)
	}
}

func TestExerciseEndToEnd(t *testing.T) {
	ts := newTestServer(t)
	game := ts.createGame(t)

	var blueCode string
	for _, team := range game.Teams {
		if team.Role == "blue" {
			blueCode = team.Code
		}
	}

	// A player joins the blue team.
	rr := ts.do(t, nethttp.MethodPost, "/players/join", "", map[string]string{
		"team_code": blueCode, "display_name": "Avery",
	})
	testutil.AssertStatus(t, rr, nethttp.StatusCreated)
	var joined session.JoinView
	testutil.DecodeJSON(t, rr, &joined)

	// The GM runs the first phase up to open voting.
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPost, "/games/"+game.ID+"/start", testGM, nil), nethttp.StatusOK)
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPost, "/games/"+game.ID+"/phase/open_for_decisions", testGM, nil), nethttp.StatusOK)

	// The player votes.
	rr = ts.do(t, nethttp.MethodPost, "/games/"+game.ID+"/phases/0/votes", "", map[string]any{
		"player_id": joined.PlayerID, "action": "Isolate host", "rating": 7, "comment": "contain first",
	})
	testutil.AssertStatus(t, rr, nethttp.StatusCreated)

	rr = ts.do(t, nethttp.MethodGet, "/games/"+game.ID+"/phases/0/voting-status", "", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var statuses []session.VotingStatusView
	testutil.DecodeJSON(t, rr, &statuses)
	for _, s := range statuses {
		if s.TeamRole == "blue" && !s.AllVoted {
			t.Fatalf("blue team should be done voting: %+v", s)
		}
	}

	rr = ts.do(t, nethttp.MethodGet, "/games/"+game.ID+"/players/"+joined.PlayerID+"/state", "", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var state session.PlayerStateView
	testutil.DecodeJSON(t, rr, &state)
	if !state.HasVoted {
		t.Fatalf("player state missing vote: %+v", state)
	}

	// Lock, review, and score the blue decision.
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPost, "/games/"+game.ID+"/phase/lock_decisions", testGM, nil), nethttp.StatusOK)

	rr = ts.do(t, nethttp.MethodGet, "/games/"+game.ID+"/phases/0/decisions", testGM, nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var decisions []session.DecisionView
	testutil.DecodeJSON(t, rr, &decisions)
	var decisionID string
	for _, d := range decisions {
		if d.TeamRole == "blue" {
			decisionID = d.ID
		}
	}
	if decisionID == "" {
		t.Fatalf("no blue decision in %+v", decisions)
	}

	scorePath := "/games/" + game.ID + "/phases/0/decisions/" + decisionID + "/score"
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPost, scorePath, testGM, map[string]any{"score": 8, "notes": "quick call"}), nethttp.StatusOK)
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPost, scorePath, testGM, map[string]any{"score": 3}), nethttp.StatusConflict)

	// GM notes and the comment feed.
	notesPath := "/games/" + game.ID + "/phases/0/gm-notes"
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPut, notesPath, testGM, map[string]string{"notes": "room engaged quickly"}), nethttp.StatusOK)
	rr = ts.do(t, nethttp.MethodGet, notesPath, testGM, nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var notes map[string]string
	testutil.DecodeJSON(t, rr, &notes)
	if notes["notes"] != "room engaged quickly" {
		t.Fatalf("unexpected notes %+v", notes)
	}

	rr = ts.do(t, nethttp.MethodGet, "/games/"+game.ID+"/phases/0/comments", testGM, nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var comments []session.CommentView
	testutil.DecodeJSON(t, rr, &comments)
	if len(comments) != 1 || comments[0].Comment != "contain first" {
		t.Fatalf("unexpected comments %+v", comments)
	}

	// Run out the scenario and pull the report.
	advance := "/games/" + game.ID + "/phase/complete_and_next"
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPost, advance, testGM, nil), nethttp.StatusOK)
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPost, "/games/"+game.ID+"/phase/open_for_decisions", testGM, nil), nethttp.StatusOK)
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPost, "/games/"+game.ID+"/phase/lock_decisions", testGM, nil), nethttp.StatusOK)
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPost, advance, testGM, nil), nethttp.StatusOK)

	rr = ts.do(t, nethttp.MethodGet, "/games/"+game.ID+"/after-action-report", testGM, nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var rep report.Report
	testutil.DecodeJSON(t, rr, &rep)
	if rep.Status != "finished" || len(rep.Phases) != 2 {
		t.Fatalf("unexpected report %+v", rep)
	}

	// The audience board resolves by code and shows the total.
	rr = testutil.Serve(ts.router, nethttp.MethodGet, "/scoreboard/"+game.AudienceCode, nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var board scoreboard.View
	testutil.DecodeJSON(t, rr, &board)
	for _, team := range board.Teams {
		if team.Role == "blue" && team.Total != 8 {
			t.Fatalf("unexpected blue total %d", team.Total)
		}
	}
}

func TestVoteValidationStatuses(t *testing.T) {
	ts := newTestServer(t)
	game := ts.createGame(t)

	var blueCode string
	for _, team := range game.Teams {
		if team.Role == "blue" {
			blueCode = team.Code
		}
	}
	rr := ts.do(t, nethttp.MethodPost, "/players/join", "", map[string]string{
		"team_code": blueCode, "display_name": "Avery",
	})
	testutil.AssertStatus(t, rr, nethttp.StatusCreated)
	var joined session.JoinView
	testutil.DecodeJSON(t, rr, &joined)

	votePath := "/games/" + game.ID + "/phases/0/votes"

	// Voting before the phase opens is a state conflict.
	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPost, "/games/"+game.ID+"/start", testGM, nil), nethttp.StatusOK)
	rr = ts.do(t, nethttp.MethodPost, votePath, "", map[string]any{
		"player_id": joined.PlayerID, "action": "Isolate host", "rating": 7,
	})
	testutil.AssertStatus(t, rr, nethttp.StatusConflict)

	testutil.AssertStatus(t, ts.do(t, nethttp.MethodPost, "/games/"+game.ID+"/phase/open_for_decisions", testGM, nil), nethttp.StatusOK)

	// Bad rating and unknown action are client errors.
	rr = ts.do(t, nethttp.MethodPost, votePath, "", map[string]any{
		"player_id": joined.PlayerID, "action": "Isolate host", "rating": 11,
	})
	testutil.AssertStatus(t, rr, nethttp.StatusBadRequest)
	rr = ts.do(t, nethttp.MethodPost, votePath, "", map[string]any{
		"player_id": joined.PlayerID, "action": "Deploy ransomware", "rating": 7,
	})
	testutil.AssertStatus(t, rr, nethttp.StatusBadRequest)

	rr = ts.do(t, nethttp.MethodPost, votePath, "", map[string]any{
		"player_id": "nobody", "action": "Isolate host", "rating": 7,
	})
	testutil.AssertStatus(t, rr, nethttp.StatusNotFound)
}

func TestJoinRejectsAudienceCode(t *testing.T) {
	ts := newTestServer(t)
	game := ts.createGame(t)

	rr := ts.do(t, nethttp.MethodPost, "/players/join", "", map[string]string{
		"team_code": game.AudienceCode, "display_name": "Avery",
	})
	testutil.AssertStatus(t, rr, nethttp.StatusNotFound)
}

func TestScenarios(t *testing.T) {
	ts := newTestServer(t)

	rr := testutil.Serve(ts.router, nethttp.MethodGet, "/scenarios", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusOK)
	var list []session.ScenarioView
	testutil.DecodeJSON(t, rr, &list)
	if len(list) != 1 || list[0].ID != "sample" {
		t.Fatalf("unexpected scenarios %+v", list)
	}

	testutil.AssertStatus(t, testutil.Serve(ts.router, nethttp.MethodGet, "/scenarios/sample", nil), nethttp.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(ts.router, nethttp.MethodGet, "/scenarios/missing", nil), nethttp.StatusNotFound)
}

func TestScoreboardUnknownRef(t *testing.T) {
	ts := newTestServer(t)
	testutil.AssertStatus(t, testutil.Serve(ts.router, nethttp.MethodGet, "/scoreboard/NOSUCH", nil), nethttp.StatusNotFound)
}
