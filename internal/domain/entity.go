package domain

import (
	"strconv"
	"strings"
)

// Entity is the capability set a collection needs from a record: a stable
// identifier and a text rendering.
type Entity interface {
	Key() int64
	Format(condensed bool) string
}

// field is one labelled value in a rendered record.
type field struct {
	label string
	value string
}

// render lays fields out either on one line separated by "\t| " or as one
// "Label: value" line per field.
func render(condensed bool, fields []field) string {
	var b strings.Builder
	for i, f := range fields {
		if condensed {
			if i > 0 {
				b.WriteString("\t| ")
			}
			b.WriteString(f.value)
			continue
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.label)
		b.WriteString(": ")
		b.WriteString(f.value)
	}
	return b.String()
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatGrams(v float64) string {
	return formatFloat(v) + "g"
}
