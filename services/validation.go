package services

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"

	"crucible-api/models"
)

var walletPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidWallet reports whether w is 0x followed by exactly 40 hex digits
func ValidWallet(w string) bool {
	return walletPattern.MatchString(w)
}

// normalizeWallet maps any casing of an address to its EIP-55 checksum form,
// so the same wallet typed twice counts once.
func normalizeWallet(w string) string {
	return common.HexToAddress(w).Hex()
}

// identityKey is the single comparison form for free-text names
// (duplicate entries, rater eligibility). A Caser is stateful, so one per call.
func identityKey(name string) string {
	return cases.Fold().String(name)
}

var titlePolicy = bluemonday.StrictPolicy()

// blankTitle reports whether a title has no visible text once markup is
// stripped. The title itself is stored as typed.
func blankTitle(title string) bool {
	return strings.TrimSpace(titlePolicy.Sanitize(title)) == ""
}

func invalidDisciplineError() error {
	return validationError("Invalid discipline. Valid options: %s", strings.Join(models.Disciplines, ", "))
}

func optionalString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func stringOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
