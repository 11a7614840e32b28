package ui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/appengine-ltd/urban-legend/internal/commander"
	"github.com/appengine-ltd/urban-legend/internal/game"
)

func testModel(t *testing.T) runModel {
	t.Helper()
	world, err := game.NewWorld(game.Config{
		Seed:     1,
		SavePath: filepath.Join(t.TempDir(), "save.json"),
	}, nil)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return newRunModel(AppConfig{Version: "test"}, world, commander.New(world, world, nil))
}

func TestViewRendersMapAndPrompt(t *testing.T) {
	m := testModel(t)
	out := m.View()
	if !strings.Contains(out, "Urban District") {
		t.Fatalf("view missing map name:\n%s", out)
	}
	if !strings.Contains(out, "> _") {
		t.Fatalf("view missing empty prompt")
	}
	if !strings.Contains(out, "E") || !strings.Contains(out, "T") {
		t.Fatalf("view missing unit markers")
	}
}

func TestTypedOrderReachesTheWorld(t *testing.T) {
	m := testModel(t)
	var model tea.Model = m
	for _, r := range "alpha squad hold" {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(runModel)
	if rm.input != "" {
		t.Fatalf("input should clear after submit, got %q", rm.input)
	}
	if !strings.Contains(rm.feedback, "holding") {
		t.Fatalf("unexpected feedback %q", rm.feedback)
	}
}

func TestEveryMarkerOnARowKeepsItsColor(t *testing.T) {
	row := []rune("..ES.")
	segs := splitRow(row, map[int]bool{2: true, 3: false})
	var hostiles, friendlies int
	joined := ""
	for _, seg := range segs {
		joined += seg.text
		if !seg.marker {
			continue
		}
		if seg.hostile {
			hostiles++
		} else {
			friendlies++
		}
	}
	if joined != string(row) {
		t.Fatalf("segments do not reassemble the row: %q", joined)
	}
	if hostiles != 1 || friendlies != 1 {
		t.Fatalf("expected one marker segment per unit, got %d hostile / %d friendly", hostiles, friendlies)
	}
}

func TestEscapeClearsInputBeforeQuitting(t *testing.T) {
	m := testModel(t)
	var model tea.Model = m
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Fatalf("first escape should only clear the input")
	}
	if model.(runModel).input != "" {
		t.Fatalf("input not cleared")
	}
	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("second escape should quit")
	}
}
