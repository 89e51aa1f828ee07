package config

import (
	"os"
	"path/filepath"
)

// Load reads a yaml config file into out. Relative paths are resolved
// against the working directory, then upward until a match is found.
func Load(cfgName string, out any) {
	if filepath.IsAbs(cfgName) {
		load(cfgName, out)
		return
	}

	curDir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	load(findConfigUpward(curDir, cfgName), out)
}

func findConfigUpward(startDir, relPath string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, relPath)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("config file not exist, searched " + relPath + " from: " + startDir)
		}
		dir = parent
	}
}
