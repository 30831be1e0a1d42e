// Package scenario supplies exercise content: a built-in fixture
// scenario so the service is usable out of the box, and a loader for
// scenario JSON files.
package scenario

import "ttx-service/internal/domain"

// BuiltInID is the id of the embedded fixture scenario.
const BuiltInID = "ransomware-ir"

// BuiltIn returns the embedded ransomware incident-response scenario.
func BuiltIn() domain.Scenario {
	return domain.Scenario{
		ID:          BuiltInID,
		Name:        "Ransomware Incident Response",
		Description: "A multi-phase ransomware attack following the typical kill chain: initial access through phishing, persistence, privilege escalation, data exfiltration, and ransomware deployment.",
		Phases: []domain.Phase{
			{
				Index:               0,
				Name:                "Initial Compromise",
				Briefing:            "At 08:15 a Finance user reported a suspicious vendor email and downloaded what appeared to be an invoice PDF. Endpoint detection flagged encoded PowerShell activity on WS-FIN-042. Determine the scope of the initial compromise and prevent further spread.",
				RedObjective:        "Establish initial access without triggering alerts and begin reconnaissance of network topology and accounts.",
				BlueObjective:       "Identify the entry point, contain the threat, isolate the compromised workstation, and collect forensic evidence.",
				DurationHintSeconds: 900,
				RedActions: []string{
					"Focus on Finance workstation",
					"Focus on Marketing workstation",
					"Split efforts between both departments",
					"Cover tracks",
					"Escalate privileges",
				},
				BlueActions: []string{
					"Isolate host",
					"Block IP address",
					"Isolate both hosts",
					"Collect forensic evidence",
					"Deploy countermeasures",
				},
				GMPrompts: []string{
					"What signal tipped the team toward their chosen containment step?",
					"What business impact did the team accept with this choice?",
				},
			},
			{
				Index:               1,
				Name:                "Establishing Foothold",
				Briefing:            "The malware created scheduled tasks for persistence and is scanning the internal network. Traffic analysis shows C2 connections to 185.220.101.45 and SMB/RDP scanning from WS-FIN-042.",
				RedObjective:        "Establish redundant persistence, map the network, and identify high-value targets while keeping C2 alive.",
				BlueObjective:       "Remove persistence, block C2 communications, and protect high-value assets.",
				DurationHintSeconds: 900,
				RedActions: []string{
					"Create additional persistence mechanisms",
					"Map internal network",
					"Harvest credentials",
					"Lay low and rotate C2 channels",
				},
				BlueActions: []string{
					"Hunt scheduled tasks and services",
					"Block C2 at the perimeter",
					"Segment the finance VLAN",
					"Reset exposed credentials",
				},
				GMPrompts: []string{
					"Did the team prioritize eviction or observation, and why?",
					"Which high-value asset drove the defensive priority?",
				},
			},
			{
				Index:               2,
				Name:                "Privilege Escalation & Lateral Movement",
				Briefing:            "Domain administrator credentials were obtained through credential harvesting and pass-the-hash. Logs show authentication to DC-01, file servers FS-01/FS-02, and the backup host BACKUP-01.",
				RedObjective:        "Escalate to domain admin, move laterally to critical systems, and catalog sensitive data while avoiding detection.",
				BlueObjective:       "Detect lateral movement, isolate critical systems, revoke compromised credentials, and preserve backups.",
				DurationHintSeconds: 900,
				RedActions: []string{
					"Pass-the-hash to domain controller",
					"Stage access on file servers",
					"Compromise backup infrastructure",
					"Catalog sensitive data",
				},
				BlueActions: []string{
					"Isolate domain controller segment",
					"Force enterprise password reset",
					"Take backups offline",
					"Deploy canary accounts",
				},
				GMPrompts: []string{
					"How did the team weigh eviction speed against evidence preservation?",
					"What would the team do differently with one more analyst?",
				},
			},
			{
				Index:               3,
				Name:                "Data Exfiltration",
				Briefing:            "Roughly 450 GB including customer databases and financial records has left the network toward cloud storage over encrypted channels in the past six hours. The attacker retains persistence.",
				RedObjective:        "Complete exfiltration of sensitive data and prepare encryption targets before detection.",
				BlueObjective:       "Stop the exfiltration, scope the stolen data, preserve evidence, and start breach-notification assessment.",
				DurationHintSeconds: 900,
				RedActions: []string{
					"Throttle transfers to blend in",
					"Burst-exfiltrate remaining data",
					"Stage ransomware payloads",
					"Destroy volume shadow copies",
				},
				BlueActions: []string{
					"Block cloud storage egress",
					"Cut external connectivity",
					"Quantify exfiltrated data",
					"Engage legal and compliance",
				},
				GMPrompts: []string{
					"Did the team balance containment against tipping off the attacker?",
					"Who outside security did the team involve, and when?",
				},
			},
			{
				Index:               4,
				Name:                "Ransomware Deployment & Response",
				Briefing:            "At 14:30 a LockBit 3.0 variant began encrypting systems; over 200 hosts including BACKUP-01 are encrypted and a 50 BTC ransom note is displayed. Offsite backups from 36 hours ago remain intact.",
				RedObjective:        "Deploy ransomware across critical systems, deliver the ransom note, and monitor the victim's response.",
				BlueObjective:       "Contain the encryption, assess recovery options, coordinate with law enforcement, and decide on the ransom.",
				DurationHintSeconds: 1200,
				RedActions: []string{
					"Encrypt remaining segments",
					"Open negotiation channel",
					"Leak a data sample as pressure",
					"Retain persistence for re-entry",
				},
				BlueActions: []string{
					"Power down unencrypted hosts",
					"Restore from offsite backups",
					"Engage law enforcement",
					"Enter ransom negotiation",
					"Refuse payment and rebuild",
				},
				GMPrompts: []string{
					"What drove the pay/no-pay position?",
					"How confident is the team in the restore-time estimate?",
				},
			},
		},
	}
}
