// Command arenaview runs the arena simulation in a window with a top-down view.
//
// Left click moves the unit, or aims while an ability is selected.
// Keys 1-4 select an ability; right click casts it.
package main

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/geom"
	"github.com/l1jgo/arena/internal/logging"
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/sim"
	"github.com/l1jgo/arena/internal/system"
	"go.uber.org/zap"
)

const (
	screenSize = 900
	rayHeight  = 1000.0
)

var (
	bgColor      = color.RGBA{0x1c, 0x22, 0x1c, 0xff}
	terrainColor = color.RGBA{0x2e, 0x3b, 0x2a, 0xff}
	blueColor    = color.RGBA{0x4a, 0x7d, 0xe0, 0xff}
	redColor     = color.RGBA{0xd9, 0x4a, 0x42, 0xff}
	neutralColor = color.RGBA{0x9a, 0x9a, 0x9a, 0xff}
	unitColor    = color.RGBA{0xf2, 0xe2, 0x6b, 0xff}
	rangeColor   = color.RGBA{0xff, 0xff, 0xff, 0x60}
	markerColor  = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

var abilityKeys = [data.SlotCount]ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}

type viewer struct {
	arena *sim.Simulation
	log   *zap.Logger
	scale float64 // pixels per world unit
}

func (v *viewer) Update() error {
	for i, key := range abilityKeys {
		if inpututil.IsKeyJustPressed(key) {
			v.enqueue(system.SelectAbility{Slot: i + 1})
		}
	}

	snap := v.arena.Snapshot()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, z := v.toWorld(ebiten.CursorPosition())
		if snap.Targeting.Active {
			v.enqueue(system.AimRay{Ray: geom.Ray{Origin: geom.V(x, rayHeight, z), Dir: geom.V(0, -1, 0)}})
		} else {
			v.enqueue(system.MoveTo{Point: geom.V(x, 0, z)})
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		v.enqueue(system.ConfirmCast{})
	}

	v.arena.Tick(time.Now())
	return nil
}

func (v *viewer) enqueue(c system.Command) {
	if !v.arena.Enqueue(c) {
		v.log.Warn("command queue full", zap.String("command", system.CommandName(c)))
	}
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	snap := v.arena.Snapshot()

	for _, st := range snap.Structures {
		x0, y0 := v.toScreen(st.Box.Min.X, st.Box.Min.Z)
		x1, y1 := v.toScreen(st.Box.Max.X, st.Box.Max.Z)
		if st.Terrain {
			vector.DrawFilledRect(screen, x0, y0, x1-x0, y1-y0, terrainColor, false)
			continue
		}
		c := teamColor(st.Team)
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, c, false)
		if st.MaxHP > 0 {
			frac := float32(st.HP) / float32(st.MaxHP)
			vector.DrawFilledRect(screen, x0, y0, (x1-x0)*frac, 3, c, false)
		}
	}

	for _, fx := range snap.Effects {
		c := rgb(fx.Color)
		switch fx.Kind {
		case "beam":
			sx, sy := v.toScreen(fx.Start.X, fx.Start.Z)
			mx, my := v.toScreen(fx.Mid.X, fx.Mid.Z)
			ex, ey := v.toScreen(fx.End.X, fx.End.Z)
			vector.StrokeLine(screen, sx, sy, mx, my, 2, c, true)
			vector.StrokeLine(screen, mx, my, ex, ey, 2, c, true)
		default:
			x, y := v.toScreen(fx.Pos.X, fx.Pos.Z)
			r := float32(fx.Radius * v.scale)
			if r < 2 {
				r = 2
			}
			vector.DrawFilledCircle(screen, x, y, r, c, true)
		}
	}

	ux, uy := v.toScreen(snap.Unit.Pos.X, snap.Unit.Pos.Z)
	vector.DrawFilledCircle(screen, ux, uy, max(float32(snap.Unit.Radius*v.scale), 3), unitColor, true)

	if t := snap.Targeting; t.Active {
		cx, cy := v.toScreen(t.RangeCenter.X, t.RangeCenter.Z)
		vector.StrokeCircle(screen, cx, cy, float32(t.Range*v.scale), 1, rangeColor, true)
		mx, my := v.toScreen(t.Marker.X, t.Marker.Z)
		vector.StrokeCircle(screen, mx, my, 5, 1, markerColor, true)
	}

	ebitenutil.DebugPrint(screen, hud(snap))
}

func (v *viewer) Layout(_, _ int) (int, int) { return screenSize, screenSize }

func (v *viewer) toScreen(x, z float64) (float32, float32) {
	half := screenSize / 2.0
	return float32(half + x*v.scale), float32(half + z*v.scale)
}

func (v *viewer) toWorld(sx, sy int) (float64, float64) {
	half := screenSize / 2.0
	return (float64(sx) - half) / v.scale, (float64(sy) - half) / v.scale
}

func hud(snap system.Snapshot) string {
	s := fmt.Sprintf("tick %d  structures %d\n", snap.Seq, countStanding(snap.Structures))
	slots := make([]int, 0, len(snap.Cooldowns))
	for slot := range snap.Cooldowns {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	for _, slot := range slots {
		ms := snap.Cooldowns[slot]
		if ms == 0 {
			s += fmt.Sprintf("[%d] ready  ", slot)
		} else {
			s += fmt.Sprintf("[%d] %.1fs  ", slot, float64(ms)/1000)
		}
	}
	if snap.Targeting.Active {
		s += fmt.Sprintf("\naiming slot %d", snap.Targeting.Slot)
	}
	return s
}

func countStanding(structures []system.StructureView) int {
	n := 0
	for _, st := range structures {
		if !st.Terrain {
			n++
		}
	}
	return n
}

func teamColor(team string) color.RGBA {
	switch team {
	case "blue":
		return blueColor
	case "red":
		return redColor
	}
	return neutralColor
}

func rgb(c uint32) color.RGBA {
	return color.RGBA{uint8(c >> 16), uint8(c >> 8), uint8(c), 0xff}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config/arena.toml"
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	abilities, err := data.LoadAbilityTable(cfg.Data.Abilities)
	if err != nil {
		return fmt.Errorf("load abilities: %w", err)
	}
	layout, err := data.LoadLayout(cfg.Data.Layout)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}

	var opts sim.Options
	if cfg.Scripting.Enabled {
		scripts, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer scripts.Close()
		opts.Scripts = scripts
	}

	arena, err := sim.New(cfg, abilities, layout, opts, log)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(screenSize, screenSize)
	ebiten.SetWindowTitle("Arena")
	ebiten.SetTPS(int(time.Second / cfg.Simulation.TickRate))
	v := &viewer{
		arena: arena,
		log:   log,
		scale: screenSize / (2 * cfg.Simulation.HalfExtent),
	}
	log.Info("viewer started", zap.Int("structures", arena.Structures().Len()))
	return ebiten.RunGame(v)
}
