package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for spawn policy scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	// Load core scripts first, then policy scripts
	for _, sub := range []string{"core", "spawn", "mission"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// NewEngineFromSource creates an engine from an inline script.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load inline script: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global and priority constants scripts can return.
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("PRIORITY_CRITICAL", lua.LNumber(PriorityCritical))
	vm.SetGlobal("PRIORITY_HIGH", lua.LNumber(PriorityHigh))
	vm.SetGlobal("PRIORITY_MEDIUM", lua.LNumber(PriorityMedium))
	vm.SetGlobal("PRIORITY_LOW", lua.LNumber(PriorityLow))
	vm.SetGlobal("PRIORITY_NONE", lua.LNumber(PriorityNone))

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

// CalcSpawnPriority calls the Lua calc_spawn_priority function, falling back
// to DefaultSpawnPriority when the script is missing or fails.
func (e *Engine) CalcSpawnPriority(ctx PriorityContext) float32 {
	fn := e.vm.GetGlobal("calc_spawn_priority")
	if fn == lua.LNil {
		return DefaultSpawnPriority(ctx)
	}

	t := e.vm.NewTable()
	t.RawSetString("mission", lua.LString(ctx.Mission))
	t.RawSetString("room", lua.LString(ctx.Room))
	t.RawSetString("creeps", lua.LNumber(ctx.Creeps))
	t.RawSetString("desired", lua.LNumber(ctx.Desired))
	t.RawSetString("urgency", lua.LNumber(ctx.Urgency))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_spawn_priority error", zap.Error(err))
		return DefaultSpawnPriority(ctx)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua calc_spawn_priority returned non-number", zap.String("type", result.Type().String()))
		return DefaultSpawnPriority(ctx)
	}
	// NaN or an infinity would break the ordering of the spawn queue
	p := float32(n)
	if math.IsNaN(float64(p)) || math.IsInf(float64(p), 0) {
		e.log.Error("lua calc_spawn_priority returned non-finite number", zap.Float64("value", float64(n)))
		return DefaultSpawnPriority(ctx)
	}
	return p
}

// DesiredHarvesters calls desired_harvesters(energy_capacity). Returns
// fallback when the function is missing or returns a non-positive count.
func (e *Engine) DesiredHarvesters(energyCapacity int, fallback int) int {
	if e.vm.GetGlobal("desired_harvesters") == lua.LNil {
		return fallback
	}
	n := e.callIntFunc("desired_harvesters", energyCapacity)
	if n <= 0 {
		return fallback
	}
	return n
}

// callIntFunc calls a Lua function with int args and returns an int result.
func (e *Engine) callIntFunc(name string, args ...int) int {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Error("lua function not found", zap.String("name", name))
		return 0
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		e.log.Error("lua call error", zap.String("func", name), zap.Error(err))
		return 0
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return int(lua.LVAsNumber(result))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
