package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/breathing/internal/breath"
)

// Engine wraps a single gopher-lua VM holding the breath rule hooks.
// Single-goroutine access only (game loop). A nil *Engine is valid and always
// answers with the built-in rules.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script in scriptsDir and its
// "breath" subdirectory. Missing directories are skipped.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "breath")} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
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

// LoadString runs a chunk of Lua source, e.g. to install a hook from config.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load lua string: %w", err)
	}
	return nil
}

// Has reports whether a global Lua function is defined.
func (e *Engine) Has(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// IsBreathable asks the Lua is_breathable(medium, breathes) hook whether the
// medium is breathable. Without the hook, or on script error, it falls back
// to the capacity's breathable set.
func (e *Engine) IsBreathable(m breath.Medium, breathes []string, c breath.Capacity) bool {
	if !e.Has("is_breathable") {
		return c.CanBreathe(m)
	}

	list := e.vm.NewTable()
	for _, b := range breathes {
		list.Append(lua.LString(b))
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      e.vm.GetGlobal("is_breathable"),
		NRet:    1,
		Protect: true,
	}, lua.LString(m), list); err != nil {
		e.log.Error("lua is_breathable error", zap.Error(err))
		return c.CanBreathe(m)
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return lua.LVAsBool(result)
}

// DrownDamage lets the Lua drown_damage(base, species, medium) hook adjust a
// damage tick. Results are truncated toward zero and clamped to
// [0, math.MaxUint32]. Without the hook, or when it returns NaN or a
// non-number, base is returned.
func (e *Engine) DrownDamage(base uint32, species string, m breath.Medium) uint32 {
	if !e.Has("drown_damage") {
		return base
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      e.vm.GetGlobal("drown_damage"),
		NRet:    1,
		Protect: true,
	}, lua.LNumber(base), lua.LString(species), lua.LString(m)); err != nil {
		e.log.Error("lua drown_damage error", zap.Error(err))
		return base
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua drown_damage returned non-number", zap.String("type", result.Type().String()))
		return base
	}
	f := float64(n)
	switch {
	case math.IsNaN(f):
		e.log.Error("lua drown_damage returned NaN")
		return base
	case f <= 0:
		return 0
	case f >= math.MaxUint32:
		return math.MaxUint32
	}
	return uint32(f)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.vm.Close()
}
