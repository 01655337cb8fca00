package export

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

func encodeJSON(w io.Writer, rows []Row) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
