package store

import (
	"testing"
	"time"

	"ttx-service/internal/domain"
	"ttx-service/internal/testutil"
)

var storeTestStart = testutil.MustParseRFC3339("2026-03-14T15:00:00Z")

func gameAt(t *testing.T, gmID, gameID string, at time.Time) domain.Game {
	t.Helper()
	g, err := domain.NewGame(domain.CreateGameInput{
		GMID:       gmID,
		ScenarioID: "sample",
	}, testutil.NowAt(at), testutil.SequentialIDs(gameID), testutil.SequentialIDs(gameID+"-CODE"))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	g.ID = gameID
	return g
}

// testStoreContract exercises the Store behavior both implementations
// must share.
func testStoreContract(t *testing.T, st Store) {
	t.Helper()

	if _, err := st.GetGame("missing"); domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing game, got %v", err)
	}
	if err := st.DeleteGame("missing"); domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("expected NOT_FOUND deleting missing game, got %v", err)
	}

	older := gameAt(t, "gm-1", "g-older", storeTestStart)
	newer := gameAt(t, "gm-1", "g-newer", storeTestStart.Add(time.Minute))
	other := gameAt(t, "gm-2", "g-other", storeTestStart.Add(2*time.Minute))
	for _, g := range []domain.Game{older, newer, other} {
		if err := st.PutGame(g); err != nil {
			t.Fatalf("PutGame %s failed: %v", g.ID, err)
		}
	}

	got, err := st.GetGame("g-older")
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}
	if got.GMID != "gm-1" || len(got.Teams) != 2 {
		t.Fatalf("unexpected game %+v", got)
	}

	all, err := st.Games()
	if err != nil {
		t.Fatalf("Games failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "g-other" || all[2].ID != "g-older" {
		t.Fatalf("unexpected order %v", gameIDs(all))
	}

	mine, err := st.GamesByGM("gm-1")
	if err != nil {
		t.Fatalf("GamesByGM failed: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != "g-newer" || mine[1].ID != "g-older" {
		t.Fatalf("unexpected GM games %v", gameIDs(mine))
	}
	if none, _ := st.GamesByGM("gm-3"); len(none) != 0 {
		t.Fatalf("expected no games for unknown GM, got %v", gameIDs(none))
	}

	// Both team codes and the audience code resolve the game.
	for _, code := range []string{older.Teams[0].Code, older.Teams[1].Code, older.AudienceCode} {
		id, err := st.GameIDByCode(code)
		if err != nil {
			t.Fatalf("GameIDByCode %q failed: %v", code, err)
		}
		if id != older.ID {
			t.Fatalf("code %q resolved %s, expected %s", code, id, older.ID)
		}
	}
	if _, err := st.GameIDByCode("NOSUCH"); domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for unknown code, got %v", err)
	}

	if err := st.DeleteGame(older.ID); err != nil {
		t.Fatalf("DeleteGame failed: %v", err)
	}
	if _, err := st.GetGame(older.ID); domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("expected deleted game gone, got %v", err)
	}
	if _, err := st.GameIDByCode(older.Teams[0].Code); domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("expected deleted game's codes unindexed, got %v", err)
	}

	if _, err := st.GetScenario("missing"); domain.CodeOf(err) != domain.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing scenario, got %v", err)
	}
	sc := testutil.SampleScenario()
	if err := st.PutScenario(sc); err != nil {
		t.Fatalf("PutScenario failed: %v", err)
	}
	if err := st.PutScenario(domain.Scenario{ID: "alpha", Name: "Alpha Drill"}); err != nil {
		t.Fatalf("PutScenario failed: %v", err)
	}

	gotSc, err := st.GetScenario(sc.ID)
	if err != nil {
		t.Fatalf("GetScenario failed: %v", err)
	}
	if gotSc.Name != sc.Name || len(gotSc.Phases) != len(sc.Phases) {
		t.Fatalf("unexpected scenario %+v", gotSc)
	}

	scs, err := st.Scenarios()
	if err != nil {
		t.Fatalf("Scenarios failed: %v", err)
	}
	if len(scs) != 2 || scs[0].Name != "Alpha Drill" || scs[1].Name != sc.Name {
		t.Fatalf("expected name-sorted scenarios, got %+v", scs)
	}
}

func gameIDs(games []domain.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}
