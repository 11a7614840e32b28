package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/appengine-ltd/urban-legend/internal/commander"
)

// resolveDestination turns an abstract destination into a passable world
// position. An empty destination is only valid where the caller supplies a
// default, so it errors here.
func (w *World) resolveDestination(dest commander.Destination) (Vec2, error) {
	switch {
	case dest.ZoneID != "":
		z, ok := w.gm.ZoneByID(dest.ZoneID)
		if !ok {
			return Vec2{}, fmt.Errorf("zone not on this map: %s", dest.ZoneID)
		}
		return w.gm.NearestPassable(z.Center()), nil
	case dest.Direction != "":
		p, ok := w.gm.EdgePoint(dest.Direction)
		if !ok {
			return Vec2{}, fmt.Errorf("unknown direction: %s", dest.Direction)
		}
		return p, nil
	default:
		return Vec2{}, fmt.Errorf("no destination given")
	}
}

// spreadOrder fans one destination into per-unit offsets so a group does
// not stack on a single tile.
func (w *World) spreadOrder(ids []string, kind OrderKind, dest Vec2) {
	for i, id := range ids {
		u := w.unitByID(id)
		if u == nil || !u.Alive {
			continue
		}
		offset := Vec2{
			X: float64(i%3-1) * TileSize,
			Y: float64(i/3) * TileSize,
		}
		point := dest.Add(offset)
		if !u.FliesOverTerrain {
			point = w.gm.NearestPassable(point)
		}
		u.SetOrder(Order{Kind: kind, Dest: point})
	}
}

func (w *World) IssueMove(ids []string, dest commander.Destination) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	point, err := w.resolveDestination(dest)
	if err != nil {
		return err
	}
	w.spreadOrder(ids, OrderMove, point)
	w.log.Debug("move issued", zap.Strings("ids", ids))
	return nil
}

func (w *World) IssueAttack(ids []string, targetIDs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(targetIDs) == 0 {
		return fmt.Errorf("no target given")
	}
	for _, id := range ids {
		u := w.unitByID(id)
		if u == nil || !u.Alive {
			continue
		}
		// Each attacker picks the closest of the named targets.
		best := ""
		bestDist := 0.0
		for _, tid := range targetIDs {
			t := w.unitByID(tid)
			if t == nil || !t.Alive {
				continue
			}
			d := u.Pos.Dist(t.Pos)
			if best == "" || d < bestDist {
				best, bestDist = tid, d
			}
		}
		if best == "" {
			return fmt.Errorf("target already destroyed")
		}
		u.SetOrder(Order{Kind: OrderAttack, TargetID: best})
	}
	return nil
}

func (w *World) IssueHold(ids []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range ids {
		if u := w.unitByID(id); u != nil {
			u.SetOrder(Order{Kind: OrderHold})
		}
	}
	return nil
}

func (w *World) IssueScout(ids []string, dest commander.Destination) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	point, err := w.resolveDestination(dest)
	if err != nil {
		// Scouting with no destination probes toward the hostile corner.
		point = tileCenter(w.gm.Width-3, 2)
	}
	w.spreadOrder(ids, OrderScout, point)
	return nil
}

func (w *World) IssueFlank(ids []string, direction string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range ids {
		u := w.unitByID(id)
		if u == nil || !u.Alive {
			continue
		}
		enemy := w.nearestEnemy(u)
		if enemy == nil {
			return fmt.Errorf("no enemy in play to flank")
		}
		// Swing wide perpendicular to the enemy bearing, then close in.
		bearing := enemy.Pos.Sub(u.Pos).Norm()
		side := bearing.Perp()
		if direction != "left" {
			side = side.Scale(-1)
		}
		point := enemy.Pos.Add(side.Scale(6 * TileSize))
		if !u.FliesOverTerrain {
			point = w.gm.NearestPassable(point)
		}
		u.SetOrder(Order{Kind: OrderFlank, Dest: point})
	}
	return nil
}

func (w *World) IssueFallback(ids []string, dest commander.Destination) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	point, err := w.resolveDestination(dest)
	if err != nil {
		// Default rally is the base zone.
		z, ok := w.gm.ZoneByID("base")
		if !ok {
			return fmt.Errorf("no rally point on this map")
		}
		point = w.gm.NearestPassable(z.Center())
	}
	w.spreadOrder(ids, OrderFallback, point)
	return nil
}

func (w *World) IssueResupply(ids []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	z, ok := w.gm.ZoneByID("base")
	if !ok {
		return fmt.Errorf("no supply point on this map")
	}
	w.spreadOrder(ids, OrderResupply, w.gm.NearestPassable(z.Center()))
	return nil
}

// ChangeMap swaps the battlefield and redeploys every surviving unit at its
// side's spawn. Orders do not carry across maps.
func (w *World) ChangeMap(mapID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	gm, ok := MapByID(mapID)
	if !ok {
		return fmt.Errorf("map not found: %s", mapID)
	}
	w.gm = gm
	base, _ := gm.ZoneByID("base")
	anchor := base.Center()
	far := tileCenter(gm.Width-3, 2)
	friendly, hostile := 0, 0
	for _, u := range w.units {
		if !u.Alive {
			continue
		}
		u.Order = Order{}
		if u.Hostile {
			offset := Vec2{X: float64(-hostile%3) * TileSize, Y: float64(hostile/3) * TileSize * 2}
			u.Pos = gm.NearestPassable(far.Add(offset))
			hostile++
		} else {
			offset := Vec2{X: float64(friendly%3) * TileSize, Y: float64(friendly/3) * TileSize}
			u.Pos = gm.NearestPassable(anchor.Add(offset))
			friendly++
		}
	}
	w.logEvent("Redeployed to " + gm.Name + ".")
	w.log.Info("map changed", zap.String("map", mapID))
	return nil
}

func (w *World) TogglePause() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paused = !w.paused
	return w.paused, nil
}

func (w *World) RequestSave() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.saveLocked()
}

func (w *World) RequestLoad() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadLocked()
}
