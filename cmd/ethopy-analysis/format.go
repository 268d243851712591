package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *AnimalsResponseCLI:
		return formatAnimalsHuman(v)
	case *SessionsResponseCLI:
		return formatSessionsHuman(v)
	case *TrialsResponseCLI:
		return formatTrialsHuman(v)
	case *StatesResponseCLI:
		return formatStatesHuman(v)
	case *LicksResponseCLI:
		return formatLicksHuman(v)
	case *ProximityResponseCLI:
		return formatProximityHuman(v)
	case *PerformanceResponseCLI:
		return formatPerformanceHuman(v)
	case *SetupResponseCLI:
		return formatSetupHuman(v)
	case *TaskResponseCLI:
		return formatTaskHuman(v)
	case *DoctorResponseCLI:
		return formatDoctorHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatAnimalsHuman(resp *AnimalsResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Animals\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Found %d animals\n\n", resp.TotalCount)

	for _, a := range resp.Animals {
		fmt.Fprintf(&b, "  %d: %d sessions (%s .. %s)\n",
			a.AnimalID, a.SessionCount, a.FirstSession, a.LastSession)
	}

	return b.String(), nil
}

func formatSessionsHuman(resp *SessionsResponseCLI) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Sessions for animal %d\n", resp.AnimalID)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Found %d sessions\n\n", resp.TotalCount)

	for _, s := range resp.Sessions {
		fmt.Fprintf(&b, "  session %d: %s (user: %s, setup: %s)\n",
			s.Session, s.Tmst, s.UserName, s.Setup)
	}

	return b.String(), nil
}

func formatTrialsHuman(resp *TrialsResponseCLI) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Trials for animal %d session %d\n", resp.AnimalID, resp.Session)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Found %d trials\n\n", resp.TotalCount)

	for _, t := range resp.Trials {
		fmt.Fprintf(&b, "  trial %d: %d .. %d ms (cond %s)\n",
			t.TrialIdx, t.StartTime, t.EndTime, t.CondHash)
	}

	return b.String(), nil
}

func formatStatesHuman(resp *StatesResponseCLI) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "State onsets for animal %d session %d\n", resp.AnimalID, resp.Session)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Found %d state onsets\n\n", resp.TotalCount)

	lastTrial := -1
	for _, s := range resp.States {
		if s.TrialIdx != lastTrial {
			fmt.Fprintf(&b, "  trial %d:\n", s.TrialIdx)
			lastTrial = s.TrialIdx
		}
		fmt.Fprintf(&b, "    %8d ms  %s\n", s.Time, s.State)
	}

	return b.String(), nil
}

func formatLicksHuman(resp *LicksResponseCLI) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Licks for animal %d session %d\n", resp.AnimalID, resp.Session)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Found %d licks\n\n", resp.TotalCount)

	for _, l := range resp.Licks {
		fmt.Fprintf(&b, "  trial %d, port %d: %d ms\n", l.TrialIdx, l.Port, l.Time)
	}

	return b.String(), nil
}

func formatProximityHuman(resp *ProximityResponseCLI) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Proximity events for animal %d session %d\n", resp.AnimalID, resp.Session)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Found %d events\n\n", resp.TotalCount)

	for _, p := range resp.Events {
		position := "out"
		if p.InPosition {
			position = "in"
		}
		fmt.Fprintf(&b, "  trial %d, port %d: %s at %d ms\n", p.TrialIdx, p.Port, position, p.Time)
	}

	return b.String(), nil
}

func formatPerformanceHuman(resp *PerformanceResponseCLI) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Performance for animal %d session %d\n", resp.AnimalID, resp.Session)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	if len(resp.Trials) > 0 {
		fmt.Fprintf(&b, "Trials: %v\n", resp.Trials)
	}
	fmt.Fprintf(&b, "Performance: %.3f\n", resp.Performance)

	return b.String(), nil
}

func formatSetupHuman(resp *SetupResponseCLI) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Setup: %s\n", resp.Setup)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Animal: %d\n", resp.AnimalID)
	fmt.Fprintf(&b, "Session: %d\n", resp.Session)
	fmt.Fprintf(&b, "Status: %s\n", resp.Status)

	return b.String(), nil
}

func formatTaskHuman(resp *TaskResponseCLI) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Task for animal %d session %d\n", resp.AnimalID, resp.Session)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Task name: %s\n", resp.TaskName)
	fmt.Fprintf(&b, "Filename: %s\n", resp.Filename)
	fmt.Fprintf(&b, "Git hash: %s\n", resp.GitHash)
	if resp.SavedTo != "" {
		fmt.Fprintf(&b, "Saved to: %s\n", resp.SavedTo)
	}

	return b.String(), nil
}

func formatDoctorHuman(resp *DoctorResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Ethopy Analysis Doctor\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	healthIcon := "✓"
	healthText := "All checks passed"
	if !resp.Healthy {
		healthIcon = "✗"
		healthText = "Issues found"
	}
	fmt.Fprintf(&b, "%s %s\n\n", healthIcon, healthText)

	for _, check := range resp.Checks {
		var icon string
		switch check.Status {
		case "pass":
			icon = "✓"
		case "warn":
			icon = "⚠"
		case "fail":
			icon = "✗"
		default:
			icon = "?"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", icon, check.Name, check.Message)
	}

	return b.String(), nil
}
