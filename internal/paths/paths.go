package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dotConfig  = ".config"
	appName    = "ksclock"
	dbName     = "ksclock.db"
	logName    = "ksclock.log"
	configName = "config.yaml"
)

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dotConfig, appName), nil
}

func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", appName, err)
	}
	return dir, nil
}

func DB() (string, error) {
	return file(dbName)
}

// Log is where the terminal face writes its logs, since stdout is the screen.
func Log() (string, error) {
	return file(logName)
}

func Config() (string, error) {
	return file(configName)
}

func file(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
