package config

import (
	"os"
	"strings"
)

// DefaultMocKeyColumn is the spreadsheet column that carries the natural
// business identifier of a MOC. Import upserts conflict on this column.
const DefaultMocKeyColumn = "MOC ID"

// MocKeyColumn returns the configured natural-key column for imports.
// Override with MOC_KEY_COLUMN when the source spreadsheet names it differently.
func MocKeyColumn() string {
	if v := strings.TrimSpace(os.Getenv("MOC_KEY_COLUMN")); v != "" {
		return v
	}
	return DefaultMocKeyColumn
}
