package facade

import (
	"errors"

	"github.com/smith-tools/sosumi/internal/bundle"
	"github.com/smith-tools/sosumi/internal/query"
)

// ExitCode maps an error returned by a Facade call to the process exit code
// a CLI entry point should use. nil maps to 0 (success).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var missing *bundle.MissingError
	if errors.As(err, &missing) {
		return 5
	}

	var keyAbsent *bundle.KeyAbsentError
	if errors.As(err, &keyAbsent) {
		return 2
	}
	var keyInvalid *bundle.KeyInvalidError
	if errors.As(err, &keyInvalid) {
		return 2
	}
	var validation *query.ValidationError
	if errors.As(err, &validation) {
		return 2
	}

	var decryptFailed *bundle.DecryptionFailedError
	if errors.As(err, &decryptFailed) {
		return 3
	}
	var decompressFailed *bundle.DecompressionFailedError
	if errors.As(err, &decompressFailed) {
		return 3
	}
	var integrity *bundle.IntegrityError
	if errors.As(err, &integrity) {
		return 3
	}

	return 1
}
