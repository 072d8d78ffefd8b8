// Package platform provides sudo-aware path resolution and OS-specific
// discovery for the rekordbox Library DB, its share directory, and rkpack's
// own config/log locations.
//
// When running with sudo, these functions correctly resolve paths to the
// original user's directories (via SUDO_USER) instead of root's directories.
package platform

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
)

// UserHomeDir returns the home directory of the actual user.
// If running with sudo, returns the SUDO_USER's home directory, not root's.
func UserHomeDir() (string, error) {
	// Check SUDO_USER first (running with sudo)
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		u, err := user.Lookup(sudoUser)
		if err == nil {
			return u.HomeDir, nil
		}
		// Fall through if lookup fails
	}

	// Fallback to current user
	return os.UserHomeDir()
}

// UserConfigDir returns the config directory of the actual user.
// If running with sudo, returns the SUDO_USER's config directory, not root's.
// On Linux this is typically ~/.config
func UserConfigDir() (string, error) {
	homeDir, err := UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config"), nil
}

// RkpackDir returns rkpack's own config/state directory: ~/.config/rkpack
// for the actual user.
func RkpackDir() (string, error) {
	configDir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "rkpack"), nil
}

// ConfigPath returns the path to rkpack's own config file,
// ~/.config/rkpack/config.toml.
func ConfigPath() (string, error) {
	dir, err := RkpackDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogDir returns the directory rkpack writes its log file (rkpack.log, with
// size-rotated backups) to.
func LogDir() (string, error) {
	dir, err := RkpackDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// ActualUser returns the actual username (not root when using sudo).
func ActualUser() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		return sudoUser
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

// DefaultDBPath searches the OS-conventional locations for rekordbox's
// master.db, returning the first that exists.
func DefaultDBPath() (string, error) {
	candidates, err := defaultDBCandidates()
	if err != nil {
		return "", err
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("master.db not found, searched:\n%s", formatCandidates(candidates))
}

func defaultDBCandidates() ([]string, error) {
	home, err := UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return []string{
			filepath.Join(home, "Library/Application Support/Pioneer/rekordbox/master.db"),
			filepath.Join(home, "Library/Pioneer/rekordbox/master.db"),
		}, nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return nil, fmt.Errorf("%%APPDATA%% is not set")
		}
		return []string{filepath.Join(appData, "Pioneer", "rekordbox", "master.db")}, nil
	default:
		return []string{filepath.Join(home, ".Pioneer/rekordbox/master.db")}, nil
	}
}

// ShareDir returns rekordbox's "share" directory, where ancillary
// per-content artefacts (artwork, analysis files) live.
func ShareDir() (string, error) {
	home, err := UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		candidates := []string{
			filepath.Join(home, "Library/Application Support/Pioneer/rekordbox/share"),
			filepath.Join(home, "Library/Pioneer/rekordbox/share"),
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
		return candidates[0], nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("%%APPDATA%% is not set")
		}
		return filepath.Join(appData, "Pioneer", "rekordbox", "share"), nil
	default:
		return filepath.Join(home, ".Pioneer/rekordbox/share"), nil
	}
}

func formatCandidates(paths []string) string {
	out := ""
	for _, p := range paths {
		out += "  " + p + "\n"
	}
	return out
}
