package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// DatabaseName is the default database file a workspace carries.
const DatabaseName = "silt.db"

// FindDatabase recursively looks upwards from startDir for an existing
// workspace database. If found, returns its absolute path; otherwise an
// error, and the caller decides where a new one should live.
func FindDatabase(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		candidate := filepath.Join(dir, DatabaseName)
		if hasFile(candidate) {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s found above %s", DatabaseName, startDir)
}

func hasFile(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
