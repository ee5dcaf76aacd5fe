package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for damage tuning.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	// core first so combat scripts can use its helpers
	for _, sub := range []string{"core", "combat"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// NewEngineFromSource creates an engine from a single chunk of Lua.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DamageContext holds pre-packed data for one effect hitting one structure.
type DamageContext struct {
	Slot      int
	Archetype string // "direct_hit", "generic", "beam", "cloud"
	Base      int    // catalog damage
	TargetHP  int
	TargetMax int
	Team      string
}

// CalcEffectDamage calls the Lua calc_effect_damage function. A nil engine,
// a missing function or a script error all yield the base damage.
func (e *Engine) CalcEffectDamage(ctx DamageContext) int {
	if e == nil {
		return ctx.Base
	}
	fn := e.vm.GetGlobal("calc_effect_damage")
	if fn == lua.LNil {
		e.log.Warn("lua function calc_effect_damage not found")
		return ctx.Base
	}

	t := e.vm.NewTable()

	eff := e.vm.NewTable()
	eff.RawSetString("slot", lua.LNumber(ctx.Slot))
	eff.RawSetString("archetype", lua.LString(ctx.Archetype))
	eff.RawSetString("base", lua.LNumber(ctx.Base))
	t.RawSetString("effect", eff)

	tgt := e.vm.NewTable()
	tgt.RawSetString("hp", lua.LNumber(ctx.TargetHP))
	tgt.RawSetString("max_hp", lua.LNumber(ctx.TargetMax))
	tgt.RawSetString("team", lua.LString(ctx.Team))
	t.RawSetString("target", tgt)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_effect_damage error", zap.Error(err))
		return ctx.Base
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_effect_damage returned non-table")
		return ctx.Base
	}
	dmg, ok := lInt(rt, "damage")
	if !ok {
		e.log.Error("lua calc_effect_damage result has no numeric damage",
			zap.Int("slot", ctx.Slot),
			zap.String("archetype", ctx.Archetype),
		)
		return ctx.Base
	}
	if dmg < 0 {
		dmg = 0
	}
	return dmg
}

// lInt reads an integer field from a Lua table. Missing or non-numeric
// fields report false.
func lInt(t *lua.LTable, key string) (int, bool) {
	n, ok := t.RawGetString(key).(lua.LNumber)
	if !ok {
		return 0, false
	}
	return int(n), true
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	if e != nil {
		e.vm.Close()
	}
}
