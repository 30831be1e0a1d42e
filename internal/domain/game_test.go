package domain

import (
	"strconv"
	"testing"
	"time"
)

var testTime = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testTime }

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

func testScenario() Scenario {
	return Scenario{
		ID:   "sample",
		Name: "Sample Exercise",
		Phases: []Phase{
			{
				Index:       0,
				Name:        "Initial Access",
				RedActions:  []string{"Deploy ransomware", "Exfiltrate data", "Lay low"},
				BlueActions: []string{"Isolate host", "Block IP address", "Notify management"},
			},
			{
				Index:       1,
				Name:        "Escalation",
				RedActions:  []string{"Harvest credentials", "Pivot to servers"},
				BlueActions: []string{"Reset credentials", "Segment network"},
			},
		},
	}
}

func testGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGame(CreateGameInput{GMID: "gm-1", ScenarioID: "sample"},
		fixedNow, sequentialIDs("id"), sequentialIDs("CODE"))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	return &g
}

// testGameWithPlayers returns a started-ready game with named players
// on each team.
func testGameWithPlayers(t *testing.T, blue, red []string) *Game {
	t.Helper()
	g := testGame(t)
	newID := sequentialIDs("p")
	blueTeam, _ := g.TeamByRole(RoleBlue)
	for _, name := range blue {
		if _, err := g.AddPlayer(blueTeam.ID, name, fixedNow, newID); err != nil {
			t.Fatalf("AddPlayer(%s) failed: %v", name, err)
		}
	}
	redTeam, _ := g.TeamByRole(RoleRed)
	for _, name := range red {
		if _, err := g.AddPlayer(redTeam.ID, name, fixedNow, newID); err != nil {
			t.Fatalf("AddPlayer(%s) failed: %v", name, err)
		}
	}
	return g
}

func TestNewGameCreatesLobbyWithBothTeams(t *testing.T) {
	g := testGame(t)

	if g.Status != StatusLobby {
		t.Fatalf("expected lobby status, got %s", g.Status)
	}
	if g.CurrentPhase != -1 {
		t.Fatalf("expected phase pointer -1, got %d", g.CurrentPhase)
	}
	if g.PhaseState != PhaseNotStarted {
		t.Fatalf("expected not_started, got %s", g.PhaseState)
	}
	if len(g.Teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(g.Teams))
	}
	if _, ok := g.TeamByRole(RoleRed); !ok {
		t.Fatal("expected a red team")
	}
	if _, ok := g.TeamByRole(RoleBlue); !ok {
		t.Fatal("expected a blue team")
	}
	if g.AudienceCode == "" {
		t.Fatal("expected an audience code")
	}
	for _, team := range g.Teams {
		if team.Code == "" {
			t.Fatalf("expected a join code for team %s", team.Name)
		}
	}
}

func TestNewGameRequiresGMAndScenario(t *testing.T) {
	_, err := NewGame(CreateGameInput{ScenarioID: "sample"}, fixedNow, sequentialIDs("id"), sequentialIDs("CODE"))
	if CodeOf(err) != CodeValidation {
		t.Fatalf("expected VALIDATION for missing gm, got %v", err)
	}
	_, err = NewGame(CreateGameInput{GMID: "gm-1"}, fixedNow, sequentialIDs("id"), sequentialIDs("CODE"))
	if CodeOf(err) != CodeValidation {
		t.Fatalf("expected VALIDATION for missing scenario, got %v", err)
	}
}

func TestAddPlayerReusesEntryOnRejoin(t *testing.T) {
	g := testGame(t)
	team, _ := g.TeamByRole(RoleBlue)
	newID := sequentialIDs("p")

	first, err := g.AddPlayer(team.ID, "Avery", fixedNow, newID)
	if err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}
	again, err := g.AddPlayer(team.ID, " Avery ", fixedNow, newID)
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("expected rejoin to reuse player %s, got %s", first.ID, again.ID)
	}
	team, _ = g.TeamByRole(RoleBlue)
	if len(team.Players) != 1 {
		t.Fatalf("expected 1 roster entry, got %d", len(team.Players))
	}
}

func TestAddPlayerValidation(t *testing.T) {
	g := testGame(t)
	team, _ := g.TeamByRole(RoleBlue)

	if _, err := g.AddPlayer(team.ID, "  ", fixedNow, sequentialIDs("p")); CodeOf(err) != CodeValidation {
		t.Fatalf("expected VALIDATION for blank name, got %v", err)
	}
	if _, err := g.AddPlayer("missing", "Avery", fixedNow, sequentialIDs("p")); CodeOf(err) != CodeNotFound {
		t.Fatalf("expected NOT_FOUND for unknown team, got %v", err)
	}
}

func TestGMNoteUpsert(t *testing.T) {
	g := testGame(t)

	g.UpsertGMNote(0, "first draft", fixedNow)
	g.UpsertGMNote(0, "final", fixedNow)
	g.UpsertGMNote(1, "other phase", fixedNow)

	if got := g.GMNoteFor(0); got != "final" {
		t.Fatalf("expected replaced note, got %q", got)
	}
	if got := g.GMNoteFor(1); got != "other phase" {
		t.Fatalf("expected second note, got %q", got)
	}
	if got := g.GMNoteFor(5); got != "" {
		t.Fatalf("expected empty note for unset phase, got %q", got)
	}
	if len(g.GMNotes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(g.GMNotes))
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := testGameWithPlayers(t, []string{"Avery"}, nil)
	sc := testScenario()
	if err := g.Start(sc, fixedNow); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := g.OpenForDecisions(fixedNow); err != nil {
		t.Fatalf("OpenForDecisions failed: %v", err)
	}
	blue, _ := g.TeamByRole(RoleBlue)
	if _, err := g.SubmitVote(sc, SubmitVoteInput{
		PhaseIndex: 0, PlayerID: blue.Players[0].ID, Action: "Isolate host", Rating: 7,
	}, fixedNow, sequentialIDs("v")); err != nil {
		t.Fatalf("SubmitVote failed: %v", err)
	}

	clone := g.Clone()
	clonedBlue, ok := clone.TeamByRole(RoleBlue)
	if !ok || len(clonedBlue.Players) == 0 {
		t.Fatal("clone lost the blue roster")
	}
	clonedBlue.Players[0].DisplayName = "changed"
	clone.Votes[0].EffectivenessRating = 1

	originalBlue, _ := g.TeamByRole(RoleBlue)
	if originalBlue.Players[0].DisplayName == "changed" {
		t.Fatal("clone shares player slice with original")
	}
	if g.Votes[0].EffectivenessRating == 1 {
		t.Fatal("clone shares vote slice with original")
	}
}
