package bundle

import (
	"encoding/base64"
	"encoding/hex"
	"os"
	"strings"

	"github.com/smith-tools/sosumi/internal/logging"
)

const keyLength = 32

// embeddedKey is the build-time constant fallback. Absent in developer
// builds; the zero value means "not embedded".
var embeddedKey []byte

// ResolveKey returns the 32-byte symmetric key, preferring an explicit
// override, then SOSUMI_ENCRYPTION_KEY, then the embedded build constant.
// The key is never logged.
func ResolveKey(override string) ([]byte, error) {
	log := logging.Get(logging.CategoryBundle)

	if override != "" {
		key, err := decodeKey(override)
		if err != nil {
			return nil, err
		}
		log.Info("using caller-supplied encryption key (%d bytes)", len(key))
		return key, nil
	}

	if env := os.Getenv("SOSUMI_ENCRYPTION_KEY"); env != "" {
		key, err := decodeKey(env)
		if err != nil {
			return nil, err
		}
		log.Info("using SOSUMI_ENCRYPTION_KEY (%d bytes)", len(key))
		return key, nil
	}

	if len(embeddedKey) > 0 {
		log.Info("using embedded build key")
		return validateKeyLength(embeddedKey)
	}

	log.Warn("no encryption key available from any source")
	return nil, &KeyAbsentError{}
}

// decodeKey auto-detects hex vs base64 encoding by alphabet and length, then
// validates the decoded length is exactly 32 bytes.
func decodeKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)

	if isHex(s) {
		if decoded, err := hex.DecodeString(s); err == nil {
			return validateKeyLength(decoded)
		}
	}

	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
		return validateKeyLength(decoded)
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return validateKeyLength(decoded)
	}

	return nil, &KeyInvalidError{Length: len(s)}
}

func isHex(s string) bool {
	if len(s)%2 != 0 || len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

func validateKeyLength(key []byte) ([]byte, error) {
	if len(key) != keyLength {
		return nil, &KeyInvalidError{Length: len(key)}
	}
	return key, nil
}
