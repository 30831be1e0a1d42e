package testutil

import (
	"time"

	"ttx-service/internal/domain"
)

// SampleScenario returns a compact two-phase scenario with known
// action sets for both roles.
func SampleScenario() domain.Scenario {
	return domain.Scenario{
		ID:   "sample",
		Name: "Sample Exercise",
		Phases: []domain.Phase{
			{
				Index:         0,
				Name:          "Initial Access",
				Briefing:      "A workstation is beaconing to an unknown host.",
				RedObjective:  "Establish a foothold without detection.",
				BlueObjective: "Contain the suspicious workstation.",
				RedActions:    []string{"Deploy ransomware", "Exfiltrate data", "Lay low"},
				BlueActions:   []string{"Isolate host", "Block IP address", "Notify management"},
			},
			{
				Index:         1,
				Name:          "Escalation",
				Briefing:      "Lateral movement is suspected on the server segment.",
				RedObjective:  "Reach the domain controller.",
				BlueObjective: "Cut off lateral movement.",
				RedActions:    []string{"Harvest credentials", "Pivot to servers"},
				BlueActions:   []string{"Reset credentials", "Segment network"},
			},
		},
	}
}

// SampleGame returns a lobby game for the sample scenario owned by
// gmID, built with deterministic IDs and codes.
func SampleGame(gmID string, at time.Time) domain.Game {
	ids := SequentialIDs("id")
	codes := SequentialIDs("CODE")
	g, err := domain.NewGame(domain.CreateGameInput{
		GMID:       gmID,
		ScenarioID: "sample",
	}, NowAt(at), ids, codes)
	if err != nil {
		panic(err)
	}
	return g
}
