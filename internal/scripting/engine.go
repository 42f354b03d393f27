package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for region behavior scripts.
// Single-goroutine access only (game loop).
//
// Scripts may define two globals:
//
//	function on_region_load(region_id)   -- after a region's entities exist
//	function on_region_unload(region_id) -- before the region is torn down
//
// Hook errors are logged and swallowed; a broken script must never abort a
// load or unload.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory, core scripts first.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadDir(filepath.Join(scriptsDir, "core")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load core scripts: %w", err)
	}
	if err := e.loadDir(filepath.Join(scriptsDir, "region")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load region scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory. Missing directories are fine.
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

// RegionLoaded invokes the on_region_load hook, if defined.
func (e *Engine) RegionLoaded(regionID string) {
	e.callHook("on_region_load", regionID)
}

// RegionUnloaded invokes the on_region_unload hook, if defined. Called by
// the lifecycle manager before the region's entities are recycled, so
// scripts can drop any per-region state they hold.
func (e *Engine) RegionUnloaded(regionID string) {
	e.callHook("on_region_unload", regionID)
}

func (e *Engine) callHook(name, regionID string) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return
	}
	err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LString(regionID))
	if err != nil {
		e.log.Error("lua hook error",
			zap.String("hook", name), zap.String("region", regionID), zap.Error(err))
	}
}

// Close shuts down the VM.
func (e *Engine) Close() {
	e.vm.Close()
}
