package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

func encodeCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Title,
			strconv.FormatFloat(row.Score, 'f', -1, 64),
			strconv.FormatFloat(row.MeanRating, 'f', -1, 64),
			strconv.FormatInt(row.VoteCount, 10),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row %q: %w", row.Title, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
