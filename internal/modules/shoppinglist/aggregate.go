// Package shoppinglist turns the recipes in a user's cart into one consolidated list.
package shoppinglist

import (
	"sort"

	"foodgram/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Entry is one consolidated line: the summed amount of an ingredient in one unit.
type Entry struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

type groupKey struct {
	name string
	unit string
}

// Aggregate sums amounts per (name, unit) and returns entries sorted by name, then unit,
// in Russian collation order.
// Equal names with different units stay separate. The input is not modified.
func Aggregate(lines []domain.IngredientLine) []Entry {
	totals := make(map[groupKey]int, len(lines))
	for _, l := range lines {
		totals[groupKey{name: l.Name, unit: l.MeasurementUnit}] += l.Amount
	}

	entries := make([]Entry, 0, len(totals))
	for k, total := range totals {
		entries = append(entries, Entry{Name: k.name, MeasurementUnit: k.unit, TotalAmount: total})
	}
	// A Collator is not safe for concurrent use.
	c := collate.New(language.Russian)
	compare := func(a, b string) int {
		if r := c.CompareString(a, b); r != 0 {
			return r
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	sort.Slice(entries, func(i, j int) bool {
		if r := compare(entries[i].Name, entries[j].Name); r != 0 {
			return r < 0
		}
		return compare(entries[i].MeasurementUnit, entries[j].MeasurementUnit) < 0
	})
	return entries
}
