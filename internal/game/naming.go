package game

import (
	"fmt"
	"strings"
)

// Call signs follow the briefing convention: "Alpha_1" on the roster,
// addressable as "alpha 1", "alpha", or "alpha squad". Team-level aliases
// are shared between squads of the same team on purpose, so "alpha squad"
// orders the whole team.
func squadName(team string, n int) string {
	return fmt.Sprintf("%s_%d", team, n)
}

func squadAliases(team string, n int) []string {
	t := strings.ToLower(team)
	return []string{
		fmt.Sprintf("%s %d", t, n),
		fmt.Sprintf("%s%d", t, n),
		t,
		t + " squad",
		t + " team",
	}
}

func unitName(kind string, n int) string {
	return fmt.Sprintf("%s_%d", kind, n)
}

func numberAliases(kind string, n int) []string {
	return []string{
		fmt.Sprintf("%s %d", kind, n),
		fmt.Sprintf("%s%d", kind, n),
	}
}
