package bundle

import (
	"os"
	"path/filepath"
	"time"

	"github.com/smith-tools/sosumi/internal/logging"
)

// SweepStale removes extraction working directories under root that are
// older than maxAge. Called once at facade startup before a fresh
// decryption, so crash-abandoned directories from a previous process don't
// accumulate.
func SweepStale(root string, maxAge time.Duration) error {
	log := logging.Get(logging.CategoryBundle)

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	swept := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(root, entry.Name())
			if err := os.RemoveAll(path); err != nil {
				log.Warn("failed to sweep stale working directory %s: %v", path, err)
				continue
			}
			swept++
		}
	}
	if swept > 0 {
		log.Info("swept %d stale working director(ies) older than %v", swept, maxAge)
	}
	return nil
}

// DefaultStaleAge is the cutoff after which an abandoned working directory is swept.
const DefaultStaleAge = 7 * 24 * time.Hour
