// Package table holds the declarative column configuration for the resource
// tables and the cell, header and row-action rendering built on it.
package table

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects how a cell value is rendered. The set is closed; every kind
// has an explicit formatter resolved when the column set is authored.
type Kind int

const (
	Plain Kind = iota
	Date
	Currency
	Status
	RecordType
)

// Column describes one table column: which row field it reads, how the cell
// is rendered and whether the header sorts.
type Column struct {
	Key       string
	Label     string
	Sortable  bool
	Kind      Kind
	NestedKey string // dotted path into the row, e.g. "category.name"
}

// Cell is a rendered cell. Badge cells carry a severity color.
type Cell struct {
	Text  string
	Badge bool
	Color string
}

// Severity colors for status badges.
const (
	ColorSuccess = "success"
	ColorWarning = "warning"
	ColorError   = "error"
)

var statusColors = map[string]string{
	"paid":    ColorSuccess,
	"overdue": ColorError,
	"pending": ColorWarning,
}

var recordTypeLabels = map[string]string{
	"income":  "Receita",
	"expense": "Despesa",
}

// Render formats the row field this column points at. Rows are the untyped
// JSON objects the upstream returns.
func (c Column) Render(row map[string]any) Cell {
	value := c.lookup(row)

	switch c.Kind {
	case Date:
		return Cell{Text: formatDate(value)}
	case Currency:
		return Cell{Text: formatCurrency(value)}
	case Status:
		return formatStatus(value)
	case RecordType:
		return Cell{Text: formatRecordType(value)}
	default:
		return Cell{Text: c.formatPlain(value)}
	}
}

func (c Column) lookup(row map[string]any) any {
	path := c.NestedKey
	if path == "" {
		path = c.Key
	}
	var value any = row
	for _, part := range strings.Split(path, ".") {
		obj, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		value = obj[part]
	}
	return value
}

func formatDate(value any) string {
	raw, ok := value.(string)
	if !ok || raw == "" {
		return "Sem data"
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", raw)
	}
	if err != nil {
		return "Sem data"
	}
	return parsed.Format("02/01/2006")
}

func formatCurrency(value any) string {
	switch amount := value.(type) {
	case float64:
		return fmt.Sprintf("R$%.2f", amount)
	case int:
		return fmt.Sprintf("R$%.2f", float64(amount))
	default:
		return "Sem valor"
	}
}

// formatStatus maps a payment status object to a badge. Unknown status names
// use the pending mapping.
func formatStatus(value any) Cell {
	name := ""
	if obj, ok := value.(map[string]any); ok {
		name, _ = obj["name"].(string)
	}
	color, ok := statusColors[name]
	if !ok {
		color = statusColors["pending"]
	}
	text := name
	if text == "" {
		text = "Desconhecido"
	}
	return Cell{Text: text, Badge: true, Color: color}
}

func formatRecordType(value any) string {
	raw, _ := value.(string)
	if label, ok := recordTypeLabels[raw]; ok {
		return label
	}
	if raw != "" {
		return raw
	}
	return "Sem tipo"
}

func (c Column) formatPlain(value any) string {
	switch v := value.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case nil:
	default:
		return fmt.Sprintf("%v", v)
	}
	return "Sem " + strings.ToLower(c.Label)
}
