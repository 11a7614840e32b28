package game

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const saveFormatVersion = 1

// DefaultSavePath is where quick-save lands when no path is configured.
const DefaultSavePath = "urban-legend-save.json"

type savedGame struct {
	FormatVersion int       `json:"format_version"`
	SavedAt       time.Time `json:"saved_at"`
	MapID         string    `json:"map_id"`
	Clock         float64   `json:"clock"`
	Paused        bool      `json:"paused"`
	Fast          bool      `json:"fast"`
	Units         []Unit    `json:"units"`
}

func (w *World) savePath() string {
	if w.cfg.SavePath != "" {
		return w.cfg.SavePath
	}
	return DefaultSavePath
}

func (w *World) saveLocked() error {
	units := make([]Unit, 0, len(w.units))
	for _, u := range w.units {
		units = append(units, *u)
	}
	payload := savedGame{
		FormatVersion: saveFormatVersion,
		SavedAt:       time.Now().UTC(),
		MapID:         w.gm.ID,
		Clock:         w.clock,
		Paused:        w.paused,
		Fast:          w.fast,
		Units:         units,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(w.savePath(), data, 0o600); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	w.logEvent("Game saved.")
	return nil
}

func (w *World) loadLocked() error {
	data, err := os.ReadFile(w.savePath())
	if err != nil {
		return fmt.Errorf("read save: %w", err)
	}
	var payload savedGame
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode save: %w", err)
	}
	if payload.FormatVersion != saveFormatVersion {
		return fmt.Errorf("unsupported save version %d", payload.FormatVersion)
	}
	gm, ok := MapByID(payload.MapID)
	if !ok {
		return fmt.Errorf("save references unknown map: %s", payload.MapID)
	}
	w.gm = gm
	w.clock = payload.Clock
	w.paused = payload.Paused
	w.fast = payload.Fast
	w.units = make([]*Unit, 0, len(payload.Units))
	for i := range payload.Units {
		u := payload.Units[i]
		w.units = append(w.units, &u)
	}
	w.logEvent("Game loaded.")
	return nil
}
