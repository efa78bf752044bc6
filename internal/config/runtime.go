package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath is usable before any .env file is loaded.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("CTXENGINE_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = ".ctxengine"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
