package validator

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/OpenGG/league-config-manager/internal/lcm/domain"
)

var (
	reservedNamePattern = regexp.MustCompile(`^(?i)(con|prn|aux|nul|com[1-9]|lpt[1-9])$`)
	invalidCharsPattern = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// Validator validates profile names. A profile name is also its directory
// name, so the rules keep it portable across filesystems.
type Validator struct{}

// New creates a new Validator instance.
func New() *Validator {
	return &Validator{}
}

// ValidateName validates a profile name.
//
// The function checks for:
//   - Empty names or whitespace-only names
//   - Leading dots (".", "..", and hidden directories such as the backup store)
//   - Null bytes
//   - Control characters (champion names like "Kai'Sa" or "Nunu & Willump" stay valid)
//   - Invalid filesystem characters (<>:"/\|?*)
//   - Reserved Windows filenames (CON, PRN, AUX, NUL, COM1-9, LPT1-9)
//
// Returns (true, nil) if valid, or (false, error) with a descriptive error.
func (v *Validator) ValidateName(name string) (bool, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) == 0 {
		return false, domain.ErrProfileNameEmpty
	}
	if strings.HasPrefix(trimmed, ".") {
		return false, domain.ErrProfileNameDot
	}
	if strings.ContainsRune(trimmed, 0) {
		return false, domain.ErrProfileNameNullByte
	}
	for _, r := range trimmed {
		if !unicode.IsPrint(r) {
			return false, domain.ErrProfileNameNonPrintable
		}
	}
	if invalidCharsPattern.MatchString(trimmed) {
		return false, domain.ErrProfileNameInvalidChars
	}
	if reservedNamePattern.MatchString(trimmed) {
		return false, domain.ErrProfileNameReserved
	}
	return true, nil
}

// NormalizeName trims whitespace and validates the name.
func (v *Validator) NormalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if ok, err := v.ValidateName(trimmed); !ok {
		return "", err
	}
	return trimmed, nil
}
