// Package valueobject contains domain value objects for the family budget system.
package valueobject

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalIDPrefix tags a locally generated identifier with the entity type it belongs to.
type LocalIDPrefix string

const (
	LocalIDPrefixGeneric     LocalIDPrefix = "offline"
	LocalIDPrefixFamily      LocalIDPrefix = "family"
	LocalIDPrefixExpense     LocalIDPrefix = "expense"
	LocalIDPrefixMonth       LocalIDPrefix = "month"
	LocalIDPrefixGoal        LocalIDPrefix = "goal"
	LocalIDPrefixGoalEntry   LocalIDPrefix = "goal-entry"
	LocalIDPrefixRecurring   LocalIDPrefix = "recurring"
	LocalIDPrefixSubcategory LocalIDPrefix = "subcategory"
	LocalIDPrefixIncome      LocalIDPrefix = "income"
)

// knownLocalIDPrefixes is the allow-list checked by IsLocalID.
// Unknown prefixes are never treated as local.
var knownLocalIDPrefixes = []LocalIDPrefix{
	LocalIDPrefixGeneric,
	LocalIDPrefixFamily,
	LocalIDPrefixExpense,
	LocalIDPrefixMonth,
	LocalIDPrefixGoalEntry,
	LocalIDPrefixGoal,
	LocalIDPrefixRecurring,
	LocalIDPrefixSubcategory,
	LocalIDPrefixIncome,
}

// localIDSuffixLength is the number of random hex characters appended to a local ID.
const localIDSuffixLength = 9

// NewLocalID generates an identifier for a record created on this device.
// An empty prefix falls back to the generic offline tag.
func NewLocalID(prefix LocalIDPrefix) string {
	if prefix == "" {
		prefix = LocalIDPrefixGeneric
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:localIDSuffixLength]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}

// IsLocalID reports whether id was generated on-device.
func IsLocalID(id string) bool {
	if id == "" {
		return false
	}

	for _, prefix := range knownLocalIDPrefixes {
		if strings.HasPrefix(id, string(prefix)+"-") {
			return true
		}
	}
	return false
}

// MonthLocalID builds the composite identifier of a locally created month.
func MonthLocalID(familyID string, year, month int) string {
	return fmt.Sprintf("%s-%s-%04d-%02d", LocalIDPrefixMonth, familyID, year, month)
}

// ParseMonthLocalID extracts year and month from a composite month identifier.
// ok is false when id does not carry a year/month pair.
func ParseMonthLocalID(id string) (year, month int, ok bool) {
	parts := strings.Split(id, "-")
	if len(parts) < 3 {
		return 0, 0, false
	}

	y, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil || len(parts[len(parts)-2]) != 4 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	return y, m, true
}
