package bundle

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/smith-tools/sosumi/internal/logging"
)

// SourceKind distinguishes the two variants a Resolver can hand back: an
// encrypted envelope that must go through the Key Provider and Decryptor, or
// a plain SQLite file that can be opened directly.
type SourceKind int

const (
	// KindEnvelope is an encrypted bundle requiring a key and decryption
	// before the database inside it can be opened.
	KindEnvelope SourceKind = iota
	// KindPlainDatabase is an ordinary SQLite file, opened directly.
	KindPlainDatabase
)

func (k SourceKind) String() string {
	if k == KindPlainDatabase {
		return "plain database"
	}
	return "bundle envelope"
}

// Source is the result of a successful resolution: a path plus which variant
// it is.
type Source struct {
	Path string
	Kind SourceKind
}

const bundleFilename = "wwdc_bundle.encrypted"

// Resolve searches, in order: an explicit caller override, the current
// working directory, the user's sosumi data directory, the default plain
// database location, and a Resources directory colocated with the
// executable. It never opens or reads the file it finds. override may be
// empty.
func Resolve(override string) (Source, error) {
	log := logging.Get(logging.CategoryBundle)

	candidates := searchPaths(override)
	searched := make([]string, 0, len(candidates))
	for _, c := range candidates {
		searched = append(searched, c.Path)
		if fileReadable(c.Path) {
			log.Info("resolved %s at %s", c.Kind, c.Path)
			return c, nil
		}
	}

	log.Warn("bundle not found; searched %v", searched)
	return Source{}, &MissingError{SearchedPaths: searched}
}

// searchPaths builds the ordered candidate list. The override always comes
// first; a caller-specified path ending in .db is treated as a plain
// database.
func searchPaths(override string) []Source {
	home, _ := os.UserHomeDir()
	exe, _ := os.Executable()
	exeDir := ""
	if exe != "" {
		exeDir = filepath.Dir(exe)
	}

	var candidates []Source
	if override != "" {
		kind := KindEnvelope
		if strings.HasSuffix(override, ".db") {
			kind = KindPlainDatabase
		}
		candidates = append(candidates, Source{Path: override, Kind: kind})
	}

	cwd, _ := os.Getwd()
	if cwd != "" {
		candidates = append(candidates, Source{Path: filepath.Join(cwd, bundleFilename), Kind: KindEnvelope})
	}
	if home != "" {
		candidates = append(candidates,
			Source{Path: filepath.Join(home, ".sosumi", bundleFilename), Kind: KindEnvelope},
			Source{Path: filepath.Join(home, ".claude", "resources", "databases", "wwdc.db"), Kind: KindPlainDatabase},
		)
	}
	if exeDir != "" {
		candidates = append(candidates, Source{Path: filepath.Join(exeDir, "Resources", "DATA", bundleFilename), Kind: KindEnvelope})
	}
	return candidates
}

func fileReadable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	return true
}
