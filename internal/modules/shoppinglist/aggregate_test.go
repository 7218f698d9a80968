package shoppinglist

import (
	"testing"

	"foodgram/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_SumsAcrossRecipes(t *testing.T) {
	// recipe A: eggs 2 pcs, milk 200 ml; recipe B: eggs 3 pcs, flour 100 g
	lines := []domain.IngredientLine{
		{Name: "eggs", MeasurementUnit: "pcs", Amount: 2},
		{Name: "milk", MeasurementUnit: "ml", Amount: 200},
		{Name: "eggs", MeasurementUnit: "pcs", Amount: 3},
		{Name: "flour", MeasurementUnit: "g", Amount: 100},
	}

	assert.Equal(t, []Entry{
		{Name: "eggs", MeasurementUnit: "pcs", TotalAmount: 5},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 100},
		{Name: "milk", MeasurementUnit: "ml", TotalAmount: 200},
	}, Aggregate(lines))
}

func TestAggregate_UnitsStaySeparate(t *testing.T) {
	lines := []domain.IngredientLine{
		{Name: "sugar", MeasurementUnit: "g", Amount: 50},
		{Name: "sugar", MeasurementUnit: "cup", Amount: 1},
		{Name: "sugar", MeasurementUnit: "g", Amount: 25},
	}

	assert.Equal(t, []Entry{
		{Name: "sugar", MeasurementUnit: "cup", TotalAmount: 1},
		{Name: "sugar", MeasurementUnit: "g", TotalAmount: 75},
	}, Aggregate(lines))
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
	assert.NotNil(t, Aggregate(nil))
}

func TestAggregate_Idempotent(t *testing.T) {
	lines := []domain.IngredientLine{
		{Name: "salt", MeasurementUnit: "g", Amount: 5},
		{Name: "butter", MeasurementUnit: "g", Amount: 30},
		{Name: "salt", MeasurementUnit: "g", Amount: 2},
	}
	snapshot := append([]domain.IngredientLine(nil), lines...)

	first := Aggregate(lines)
	second := Aggregate(lines)
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, lines)
}

func TestAggregate_RussianOrder(t *testing.T) {
	got := Aggregate([]domain.IngredientLine{
		{Name: "яблоко", MeasurementUnit: "шт", Amount: 2},
		{Name: "ёжевика", MeasurementUnit: "г", Amount: 100},
		{Name: "банан", MeasurementUnit: "шт", Amount: 1},
		{Name: "Абрикос", MeasurementUnit: "шт", Amount: 3},
		{Name: "жир", MeasurementUnit: "г", Amount: 10},
		{Name: "ёжевика", MeasurementUnit: "ст. л.", Amount: 1},
	})

	names := make([]string, 0, len(got))
	for _, e := range got {
		names = append(names, e.Name+" "+e.MeasurementUnit)
	}
	// byte order would put "Абрикос" first and "ёжевика" after "яблоко"
	assert.Equal(t, []string{
		"Абрикос шт",
		"банан шт",
		"ёжевика г",
		"ёжевика ст. л.",
		"жир г",
		"яблоко шт",
	}, names)
}
