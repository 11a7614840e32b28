//go:build cgo

// Package gui is the raylib battlefield client: live map, unit markers, and
// the order line at the bottom of the screen.
package gui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/appengine-ltd/urban-legend/internal/commander"
	"github.com/appengine-ltd/urban-legend/internal/game"
)

type AppConfig struct {
	Version   string
	Commit    string
	BuildDate string
	Seed      int64
	MapID     string
	SavePath  string
}

type App struct {
	cfg AppConfig
	log *zap.Logger
}

func NewApp(cfg AppConfig, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{cfg: cfg, log: log}
}

const (
	hudHeight   = 150
	maxInputLen = 120
)

var (
	colorBG       = rl.NewColor(10, 12, 16, 255)
	colorPanel    = rl.NewColor(16, 22, 30, 255)
	colorGrid     = rl.NewColor(34, 44, 56, 255)
	colorText     = rl.NewColor(198, 214, 229, 255)
	colorDim      = rl.NewColor(110, 126, 140, 255)
	colorFriendly = rl.NewColor(86, 220, 130, 255)
	colorHostile  = rl.NewColor(236, 90, 80, 255)
	colorWarn     = rl.NewColor(255, 198, 96, 255)

	terrainColors = map[game.TerrainType]rl.Color{
		game.TerrainOpen:       rl.NewColor(46, 58, 44, 255),
		game.TerrainCover:      rl.NewColor(36, 74, 42, 255),
		game.TerrainUrban:      rl.NewColor(70, 70, 78, 255),
		game.TerrainWater:      rl.NewColor(30, 52, 92, 255),
		game.TerrainImpassable: rl.NewColor(24, 24, 26, 255),
		game.TerrainRoad:       rl.NewColor(58, 54, 46, 255),
	}
)

type gameUI struct {
	cfg AppConfig

	world *game.World
	cmd   *commander.Commander

	input    string
	feedback string
	showGrid bool
	quit     bool

	lastTick time.Time
}

func (a *App) Run() error {
	world, err := game.NewWorld(game.Config{
		Seed:     a.cfg.Seed,
		MapID:    a.cfg.MapID,
		SavePath: a.cfg.SavePath,
	}, a.log)
	if err != nil {
		return err
	}
	ui := &gameUI{
		cfg:      a.cfg,
		world:    world,
		cmd:      commander.New(world, world, a.log),
		feedback: "Awaiting orders. Type a command and press Enter.",
		lastTick: time.Now(),
	}
	return ui.run()
}

func (ui *gameUI) run() error {
	width := int32(game.MapWidthTiles * game.TileSize)
	height := int32(game.MapHeightTiles*game.TileSize + hudHeight)
	rl.InitWindow(width, height, "urban-legend")
	rl.SetExitKey(0)
	rl.SetTargetFPS(60)

	for !ui.quit && !rl.WindowShouldClose() {
		now := time.Now()
		delta := now.Sub(ui.lastTick)
		if delta < 0 {
			delta = 0
		}
		ui.lastTick = now

		ui.handleInput()
		ui.world.Update(delta.Seconds())

		rl.BeginDrawing()
		rl.ClearBackground(colorBG)
		ui.drawMap()
		ui.drawUnits()
		ui.drawHUD()
		rl.EndDrawing()
	}

	rl.CloseWindow()
	return nil
}

func (ui *gameUI) handleInput() {
	captureTextInput(&ui.input, maxInputLen)

	if rl.IsKeyPressed(rl.KeyEnter) {
		ui.feedback = ui.cmd.Submit(ui.input)
		ui.input = ""
		return
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		if ui.input != "" {
			ui.input = ""
			return
		}
		ui.quit = true
		return
	}

	// Hotkeys stay live only while the order line is empty, so typing
	// "scout south" never toggles anything.
	if ui.input != "" {
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		ui.feedback = ui.cmd.Submit("pause")
	}
	if rl.IsKeyPressed(rl.KeyF) {
		if ui.world.ToggleFast() {
			ui.feedback = "Fast forward on."
		} else {
			ui.feedback = "Fast forward off."
		}
	}
	if rl.IsKeyPressed(rl.KeyG) {
		ui.showGrid = !ui.showGrid
	}
	if rl.IsKeyPressed(rl.KeyS) {
		ui.feedback = ui.cmd.Submit("save")
	}
	if rl.IsKeyPressed(rl.KeyL) {
		ui.feedback = ui.cmd.Submit("load")
	}
	if rl.IsKeyPressed(rl.KeyM) {
		ui.cycleMap()
	}
}

func (ui *gameUI) cycleMap() {
	maps := game.BuiltInMaps()
	current := ui.world.Map().ID
	for i, m := range maps {
		if m.ID == current {
			next := maps[(i+1)%len(maps)]
			ui.feedback = ui.cmd.Submit("map " + next.Name)
			return
		}
	}
}

func (ui *gameUI) drawMap() {
	gm := ui.world.Map()
	for ty := 0; ty < gm.Height; ty++ {
		for tx := 0; tx < gm.Width; tx++ {
			c, ok := terrainColors[gm.At(tx, ty)]
			if !ok {
				c = colorBG
			}
			rl.DrawRectangle(int32(tx*game.TileSize), int32(ty*game.TileSize), game.TileSize, game.TileSize, c)
		}
	}
	if ui.showGrid {
		for tx := 0; tx <= gm.Width; tx++ {
			rl.DrawLine(int32(tx*game.TileSize), 0, int32(tx*game.TileSize), int32(gm.Height*game.TileSize), colorGrid)
		}
		for ty := 0; ty <= gm.Height; ty++ {
			rl.DrawLine(0, int32(ty*game.TileSize), int32(gm.Width*game.TileSize), int32(ty*game.TileSize), colorGrid)
		}
	}
	for _, z := range gm.Zones {
		x := int32(z.X * game.TileSize)
		y := int32(z.Y * game.TileSize)
		rl.DrawRectangleLines(x, y, int32(z.W*game.TileSize), int32(z.H*game.TileSize), colorDim)
		rl.DrawText(z.Name, x+4, y+4, 10, colorDim)
	}
}

func (ui *gameUI) drawUnits() {
	for _, u := range ui.world.UnitsSnapshot() {
		if !u.Alive {
			continue
		}
		color := colorFriendly
		if u.Hostile {
			color = colorHostile
		}
		x := int32(u.Pos.X)
		y := int32(u.Pos.Y)
		switch {
		case u.FliesOverTerrain:
			rl.DrawCircle(x, y, 5, color)
			rl.DrawCircleLines(x, y, 8, color)
		case u.Subtype != "":
			rl.DrawRectangle(x-8, y-8, 16, 16, color)
		default:
			rl.DrawCircle(x, y, 8, color)
		}
		drawHPBar(x, y-14, u.HP/u.MaxHP)
		rl.DrawText(u.Name, x-14, y+10, 10, colorText)
	}
}

func drawHPBar(x, y int32, frac float64) {
	if frac < 0 {
		frac = 0
	}
	rl.DrawRectangle(x-10, y, 20, 3, colorGrid)
	rl.DrawRectangle(x-10, y, int32(20*frac), 3, colorFriendly)
}

func (ui *gameUI) drawHUD() {
	gm := ui.world.Map()
	top := int32(gm.Height * game.TileSize)
	width := int32(gm.Width * game.TileSize)
	rl.DrawRectangle(0, top, width, hudHeight, colorPanel)

	status := gm.Name
	if ui.world.Paused() {
		status += "  [PAUSED]"
	}
	if ui.world.Fast() {
		status += "  [FAST]"
	}
	rl.DrawText(status, 8, top+6, 16, colorWarn)

	events := ui.world.Events()
	start := 0
	if len(events) > 4 {
		start = len(events) - 4
	}
	for i, line := range events[start:] {
		rl.DrawText(line, 8, top+28+int32(i)*14, 12, colorDim)
	}

	rl.DrawText(ui.feedback, 8, top+92, 14, colorText)
	rl.DrawText("> "+ui.input+"_", 8, top+112, 16, colorFriendly)
	rl.DrawText(fmt.Sprintf("v%s  Space pause  F fast  G grid  S save  L load  M map", ui.cfg.Version),
		8, top+134, 10, colorDim)
}

func captureTextInput(target *string, maxLen int) {
	for ch := rl.GetCharPressed(); ch > 0; ch = rl.GetCharPressed() {
		if ch >= 32 && ch <= 126 && len(*target) < maxLen {
			*target += string(rune(ch))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(*target) > 0 {
		*target = (*target)[:len(*target)-1]
	}
}
