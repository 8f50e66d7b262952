package valueobject

import (
	"fmt"
	"strings"
	"time"
)

// LotKey identifies an optional lot/expiry partition of an inventory
// balance. It is normalized at construction: a missing lot number and an
// empty-string lot number are the same absent key, so callers never have
// to match the two representations separately. The zero value means
// "no lot tracking".
type LotKey struct {
	lotNumber  string
	expiryDate *time.Time
}

// NewLotKey builds a normalized lot key. Whitespace-only lot numbers are
// treated as absent. An expiry date without a lot number is permitted
// (some stock is expiry-tracked but not lot-tracked).
func NewLotKey(lotNumber string, expiryDate *time.Time) LotKey {
	lot := strings.TrimSpace(lotNumber)
	var expiry *time.Time
	if expiryDate != nil {
		d := expiryDate.Truncate(24 * time.Hour)
		expiry = &d
	}
	return LotKey{lotNumber: lot, expiryDate: expiry}
}

// NoLot is the absent lot key
func NoLot() LotKey {
	return LotKey{}
}

// LotNumber returns the normalized lot number, empty when absent
func (k LotKey) LotNumber() string {
	return k.lotNumber
}

// ExpiryDate returns the expiry date, nil when absent
func (k LotKey) ExpiryDate() *time.Time {
	return k.expiryDate
}

// IsZero returns true when neither lot number nor expiry is set
func (k LotKey) IsZero() bool {
	return k.lotNumber == "" && k.expiryDate == nil
}

// Equal compares two lot keys for identity
func (k LotKey) Equal(other LotKey) bool {
	if k.lotNumber != other.lotNumber {
		return false
	}
	if (k.expiryDate == nil) != (other.expiryDate == nil) {
		return false
	}
	if k.expiryDate == nil {
		return true
	}
	return k.expiryDate.Equal(*other.expiryDate)
}

// String returns a stable representation suitable for logging
func (k LotKey) String() string {
	if k.IsZero() {
		return "(no lot)"
	}
	if k.expiryDate == nil {
		return k.lotNumber
	}
	return fmt.Sprintf("%s exp:%s", k.lotNumber, k.expiryDate.Format("2006-01-02"))
}
