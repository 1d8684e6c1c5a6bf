package bundle

import "fmt"

// MissingError is returned when no bundle or plain database could be found
// anywhere on the search path.
type MissingError struct {
	SearchedPaths []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf(
		"no wwdc bundle found; searched %d location(s): %v — download the bundle and place it at one of these paths, or pass --bundle PATH",
		len(e.SearchedPaths), e.SearchedPaths,
	)
}

// KeyInvalidError is returned when a resolved key is not exactly 32 bytes.
type KeyInvalidError struct {
	Length int
}

func (e *KeyInvalidError) Error() string {
	return fmt.Sprintf("encryption key must be 32 bytes, got %d", e.Length)
}

// KeyAbsentError is returned when no key could be found at all.
type KeyAbsentError struct{}

func (e *KeyAbsentError) Error() string {
	return "no encryption key available: set SOSUMI_ENCRYPTION_KEY or pass one explicitly"
}

// DecryptionFailedError wraps an AEAD authentication failure or malformed envelope.
type DecryptionFailedError struct {
	Reason string
}

func (e *DecryptionFailedError) Error() string {
	return fmt.Sprintf("bundle decryption failed: %s", e.Reason)
}

// DecompressionFailedError wraps a malformed LZFSE payload.
type DecompressionFailedError struct {
	Reason string
}

func (e *DecompressionFailedError) Error() string {
	return fmt.Sprintf("bundle decompression failed: %s", e.Reason)
}

// IntegrityError is returned when the recomputed checksum of the
// decompressed payload does not match metadata.checksum.
type IntegrityError struct {
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("bundle integrity check failed: expected checksum %s, computed %s", e.Expected, e.Actual)
}
