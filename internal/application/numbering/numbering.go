// Package numbering generates human-readable document numbers.
// Uniqueness per tenant is enforced by the database unique index on
// (tenant_id, number); the random suffix makes collisions within the
// same second implausible.
package numbering

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document number prefixes per document type
const (
	PrefixPurchaseOrder = "PO"
	PrefixShipment      = "SH"
	PrefixTransfer      = "TR"
	PrefixCycleCount    = "CC"
	PrefixReturn        = "RET"
	PrefixAdjustment    = "ADJ"
)

// Next returns a new document number, e.g. "PO-20260826-153045-7F3A2B1C"
func Next(prefix string) string {
	ts := time.Now().UTC().Format("20060102-150405")
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, ts, suffix)
}
