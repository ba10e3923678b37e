package store

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/todoapp/todoapp-go/internal/task"
)

const (
	storeFileName = "tasks.json"

	// EnvStorePath overrides the default store location.
	EnvStorePath = "TODOAPP_STORE_PATH"
)

// DefaultPath resolves the store file path: the TODOAPP_STORE_PATH
// environment variable when set, otherwise an OS-specific per-user location
// (%APPDATA%\todoapp on Windows, ~/.config/todoapp elsewhere).
func DefaultPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvStorePath)); p != "" {
		return p, nil
	}

	if runtime.GOOS == "windows" {
		appdata := os.Getenv("APPDATA")
		if appdata == "" {
			return "", task.Errorf(task.CodeIO, "APPDATA is not set")
		}
		return filepath.Join(appdata, "todoapp", storeFileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", task.Errorf(task.CodeIO, "resolve home directory: %v", err)
	}
	return filepath.Join(home, ".config", "todoapp", storeFileName), nil
}
