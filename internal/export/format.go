package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// ParseFormat resolves an explicit format name.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want csv, json, or sqlite)", value)
	}
}

// DetectFormat returns explicit when set, otherwise infers the format from
// the destination extension. Unknown extensions default to CSV.
func DetectFormat(path, explicit string) (Format, error) {
	if strings.TrimSpace(explicit) != "" {
		return ParseFormat(explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return FormatCSV, nil
	}
}
