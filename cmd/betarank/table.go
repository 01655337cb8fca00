package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"betarank/internal/ranking"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	return renderStyledTable(headers, rows, aligns, false)
}

func renderStyledTable(headers []string, rows [][]string, aligns []columnAlignment, color bool) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if color {
		tw.Style().Color.Header = text.Colors{text.Bold, text.FgCyan}
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderPreview prints the first n entries with thousands separators on
// vote counts.
func renderPreview(entries []ranking.Entry, n int, color bool) string {
	if n > len(entries) {
		n = len(entries)
	}
	printer := message.NewPrinter(language.English)
	rows := make([][]string, 0, n)
	for i, e := range entries[:n] {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Title,
			strconv.FormatFloat(e.Score, 'f', 4, 64),
			strconv.FormatFloat(e.MeanRating, 'f', 2, 64),
			printer.Sprintf("%d", e.VoteCount),
		})
	}
	return renderStyledTable(
		[]string{"#", "Title", "Score", "Mean rating", "Votes"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
		color,
	)
}
