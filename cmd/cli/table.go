package main

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"servicehub/pkg/models"
)

const maxCellWidth = 40

// renderServices lays the catalog out as a fixed-width table. Widths are
// measured in terminal cells so names with wide runes stay aligned.
func renderServices(items []models.Service) string {
	rows := [][]string{{"NAME", "CATEGORY", "PAYBILL", "ACCOUNT", "COST"}}
	for _, s := range items {
		rows = append(rows, []string{s.ServiceName, s.Category, s.PaybillNumber, s.AccountFormat, s.Cost})
	}
	return renderTable(rows)
}

func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i := range widths {
			if i >= len(row) {
				continue
			}
			row[i] = runewidth.Truncate(row[i], maxCellWidth, "...")
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i == len(widths)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, w))
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
