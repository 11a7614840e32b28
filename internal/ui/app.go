// Package ui is the terminal battlefield client: an ASCII minimap, the
// battle log, and the same order line the windowed client has. It is the
// fallback for builds without cgo and for remote shells.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
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

func (a *App) Run() error {
	world, err := game.NewWorld(game.Config{
		Seed:     a.cfg.Seed,
		MapID:    a.cfg.MapID,
		SavePath: a.cfg.SavePath,
	}, a.log)
	if err != nil {
		return err
	}
	m := newRunModel(a.cfg, world, commander.New(world, world, a.log))
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// --- Styles (retro green) ---
var (
	green       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	brightGreen = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimGreen    = lipgloss.NewStyle().Foreground(lipgloss.Color("22"))
	red         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warn        = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	border      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

const tickEvery = 100 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type runModel struct {
	cfg   AppConfig
	world *game.World
	cmd   *commander.Commander

	input    string
	feedback string
	lastTick time.Time
}

func newRunModel(cfg AppConfig, world *game.World, cmd *commander.Commander) runModel {
	return runModel{
		cfg:      cfg,
		world:    world,
		cmd:      cmd,
		feedback: "Awaiting orders.",
		lastTick: time.Now(),
	}
}

func (m runModel) Init() tea.Cmd {
	return tick()
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		dt := now.Sub(m.lastTick).Seconds()
		if dt < 0 {
			dt = 0
		}
		m.lastTick = now
		m.world.Update(dt)
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.input != "" {
				m.input = ""
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			m.feedback = m.cmd.Submit(m.input)
			m.input = ""
			return m, nil
		case "backspace":
			if m.input != "" {
				m.input = m.input[:len(m.input)-1]
			}
			return m, nil
		default:
			s := msg.String()
			if len(s) == 1 && s[0] >= 32 && s[0] <= 126 {
				m.input += s
			}
			return m, nil
		}
	}
	return m, nil
}

func (m runModel) View() string {
	gm := m.world.Map()
	units := m.world.UnitsSnapshot()

	title := brightGreen.Render("URBAN LEGEND") + "  " + dimGreen.Render(gm.Name)
	if m.world.Paused() {
		title += "  " + warn.Render("[PAUSED]")
	}
	if m.world.Fast() {
		title += "  " + warn.Render("[FAST]")
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(dimGreen.Render(fmt.Sprintf("v%s (%s) %s", m.cfg.Version, m.cfg.Commit, m.cfg.BuildDate)) + "\n")
	b.WriteString(border.Render(strings.Repeat("-", gm.Width)) + "\n")
	b.WriteString(renderMinimap(gm, units))
	b.WriteString(border.Render(strings.Repeat("-", gm.Width)) + "\n")

	for _, line := range m.world.Events() {
		b.WriteString(green.Render(line) + "\n")
	}
	b.WriteString("\n" + green.Render(m.feedback) + "\n")
	b.WriteString(brightGreen.Render("> "+m.input+"_") + "\n")
	b.WriteString(dimGreen.Render("Enter to send orders, Esc to quit") + "\n")
	return b.String()
}

// renderMinimap draws one rune per tile, with unit markers on top.
func renderMinimap(gm game.GameMap, units []game.Unit) string {
	grid := make([][]rune, gm.Height)
	for ty := 0; ty < gm.Height; ty++ {
		row := make([]rune, gm.Width)
		for tx := 0; tx < gm.Width; tx++ {
			row[tx] = terrainRune(gm.At(tx, ty))
		}
		grid[ty] = row
	}
	markers := make(map[int]map[int]bool, gm.Height) // ty -> tx -> hostile
	for _, u := range units {
		if !u.Alive {
			continue
		}
		tx, ty := gm.TileOf(u.Pos)
		if tx < 0 || ty < 0 || tx >= gm.Width || ty >= gm.Height {
			continue
		}
		grid[ty][tx] = unitRune(u)
		if markers[ty] == nil {
			markers[ty] = make(map[int]bool)
		}
		// A hostile marker wins the cell when both sides share a tile.
		markers[ty][tx] = markers[ty][tx] || u.Hostile
	}

	var b strings.Builder
	for ty, row := range grid {
		for _, seg := range splitRow(row, markers[ty]) {
			style := dimGreen
			if seg.marker {
				style = brightGreen
				if seg.hostile {
					style = red
				}
			}
			b.WriteString(style.Render(seg.text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

type rowSegment struct {
	text    string
	marker  bool
	hostile bool
}

// splitRow cuts one minimap row into terrain and marker segments so every
// marker cell on the row gets its faction color, not just the first.
func splitRow(row []rune, markers map[int]bool) []rowSegment {
	if len(markers) == 0 {
		return []rowSegment{{text: string(row)}}
	}
	segs := make([]rowSegment, 0, 2*len(markers)+1)
	start := 0
	for tx := 0; tx < len(row); tx++ {
		hostile, ok := markers[tx]
		if !ok {
			continue
		}
		if tx > start {
			segs = append(segs, rowSegment{text: string(row[start:tx])})
		}
		segs = append(segs, rowSegment{text: string(row[tx : tx+1]), marker: true, hostile: hostile})
		start = tx + 1
	}
	if start < len(row) {
		segs = append(segs, rowSegment{text: string(row[start:])})
	}
	return segs
}

func terrainRune(t game.TerrainType) rune {
	switch t {
	case game.TerrainCover:
		return '"'
	case game.TerrainUrban:
		return '#'
	case game.TerrainWater:
		return '~'
	case game.TerrainImpassable:
		return 'X'
	case game.TerrainRoad:
		return '='
	default:
		return '.'
	}
}

func unitRune(u game.Unit) rune {
	if u.Hostile {
		return 'E'
	}
	switch {
	case u.FliesOverTerrain:
		return 'd'
	case u.Subtype == "tank":
		return 'T'
	case u.Subtype == "apc":
		return 'A'
	default:
		return 'S'
	}
}
