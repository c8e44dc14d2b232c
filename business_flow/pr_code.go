// Package businessflow contains the core business logic and use cases for purchase request tracking
package businessflow

import (
	"fmt"

	"github.com/fieldops/prtrack/models"
)

// FormatPRCode deterministically renders the canonical purchase request code
// "{LOC}-{DEPT}-{SEQ}" from the code tables and an assigned sequence number.
// The sequence is zero-padded to 4 digits; values >= 10000 keep their full
// width. Pure function, no storage access.
func FormatPRCode(location, department string, sequenceNumber int64) (string, error) {
	loc, ok := models.LocationCode(location)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocation, location)
	}

	dept, ok := models.DepartmentCode(department)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}

	return fmt.Sprintf("%s-%s-%04d", loc, dept, sequenceNumber), nil
}

// ValidatePRCodes checks both code-table lookups without formatting. The
// create path calls this before consuming a sequence value so rejected
// requests never burn a number.
func ValidatePRCodes(location, department string) error {
	if _, ok := models.LocationCode(location); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, location)
	}
	if _, ok := models.DepartmentCode(department); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}
	return nil
}
