// BYZRA ⸻ internal/config/labels.go
// label overrides for the camera and date views, from lua

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	lua "github.com/yuin/gopher-lua"
)

const LabelsFile = "labels.lua"

// labels.lua beside the loaded config first, then the usual places
func LabelSearchPaths(cfg *Config) []string {
	var paths []string
	if cfg != nil && cfg.Source != "" {
		paths = append(paths, filepath.Join(filepath.Dir(cfg.Source), LabelsFile))
	}
	return append(paths,
		"./"+LabelsFile,
		filepath.Join("config", LabelsFile),
		filepath.Join(HomeDir(), "config", LabelsFile),
	)
}

// loads the first labels.lua found; none found is not an error
func LoadLabels(paths []string, known []string) (map[string]string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return LoadLabelsFrom(path, known)
		}
	}
	return nil, nil
}

// runs a Lua file returning a table of tag key -> label. Keys outside
// known, and non-string entries, are dropped.
func LoadLabelsFrom(path string, known []string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	// no io, os or package
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.StringLibName, lua.OpenString},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name)); err != nil {
			return nil, fmt.Errorf("failed to open Lua %s library: %w", lib.name, err)
		}
	}

	if err := L.DoString(string(data)); err != nil {
		return nil, fmt.Errorf("failed to execute labels Lua: %w", err)
	}

	result := L.Get(-1)
	if result.Type() != lua.LTTable {
		return nil, fmt.Errorf("labels Lua must return a table")
	}

	// convert Lua table 2 Go map
	labels := make(map[string]string)
	result.(*lua.LTable).ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTString || v.Type() != lua.LTString {
			return
		}
		if !slices.Contains(known, k.String()) {
			return
		}
		labels[k.String()] = v.String()
	})

	return labels, nil
}
