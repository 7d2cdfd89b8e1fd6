package config

import (
	"os"
	"path/filepath"
)

const appDirName = ".watchlater"

// DataDir returns the base data directory for Watch Later.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

// ConfigPath returns the path to the TOML settings file.
func ConfigPath() (string, error) {
	return dataPath("config.toml")
}

// DBPath returns the path to the bbolt database.
func DBPath() (string, error) {
	return dataPath("watchlater.db")
}

// AccountsPath returns the path to the JSON account store.
func AccountsPath() (string, error) {
	return dataPath("accounts.json")
}

// PreferencesPath returns the path to the JSON preference store.
func PreferencesPath() (string, error) {
	return dataPath("preferences.json")
}

// LogPath returns the path of the log file used while a screen owns stdout.
func LogPath() (string, error) {
	return dataPath("watchlater.log")
}

func dataPath(name string) (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, name), nil
}
