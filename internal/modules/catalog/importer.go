package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"foodgram/internal/domain"
)

// ParseIngredients reads ingredient reference data. format is "csv" (rows of name,unit
// with no header) or "json" (an array of {name, measurement_unit}). Blank rows are
// skipped and duplicate pairs are collapsed. A name longer than 128 characters or a
// unit longer than 64 fails the whole import.
func ParseIngredients(r io.Reader, format string) ([]domain.Ingredient, error) {
	var items []domain.Ingredient
	var where []string
	switch strings.ToLower(format) {
	case "csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
			}
			line, _ := reader.FieldPos(0)
			if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
				continue
			}
			if len(record) != 2 {
				return nil, fmt.Errorf("%w: line %d: want 2 fields, got %d", ErrInvalidImport, line, len(record))
			}
			items = append(items, domain.Ingredient{Name: record[0], MeasurementUnit: record[1]})
			where = append(where, fmt.Sprintf("line %d", line))
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		for i := range items {
			where = append(where, fmt.Sprintf("item %d", i+1))
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidImport, format)
	}

	seen := make(map[[2]string]bool, len(items))
	out := items[:0]
	for i, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		it.MeasurementUnit = strings.TrimSpace(it.MeasurementUnit)
		if it.Name == "" || it.MeasurementUnit == "" {
			continue
		}
		if n := utf8.RuneCountInString(it.Name); n > domain.MaxIngredientNameLength {
			return nil, fmt.Errorf("%w: %s: name has %d characters, max %d",
				ErrInvalidImport, where[i], n, domain.MaxIngredientNameLength)
		}
		if n := utf8.RuneCountInString(it.MeasurementUnit); n > domain.MaxMeasurementUnitLength {
			return nil, fmt.Errorf("%w: %s: measurement unit has %d characters, max %d",
				ErrInvalidImport, where[i], n, domain.MaxMeasurementUnitLength)
		}
		key := [2]string{it.Name, it.MeasurementUnit}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, domain.Ingredient{Name: it.Name, MeasurementUnit: it.MeasurementUnit})
	}
	return out, nil
}
