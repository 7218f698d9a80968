package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	ID     int64 `json:"id" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"min=1"`
}

type payload struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Items    []item `json:"items" validate:"required,min=1,dive"`
}

func TestValidate_OK(t *testing.T) {
	p := payload{Username: "chef.john+1", Items: []item{{ID: 1, Amount: 2}}}
	assert.Nil(t, Validate(&p))
}

func TestValidate_FieldPaths(t *testing.T) {
	p := payload{Username: "bad name!", Items: []item{{ID: 1, Amount: 0}}}

	errs := Validate(&p)
	assert.Equal(t, "username", errs["username"])
	assert.Equal(t, "min=1", errs["items[0].amount"])
}

func TestValidate_EmptySlice(t *testing.T) {
	errs := Validate(&payload{Username: "ok"})
	assert.Contains(t, errs, "items")
}

func TestValidate_UsernameScripts(t *testing.T) {
	for _, name := range []string{"Иван", "анна_1990", "Ёлка.м", "maría", "user@mail+x-y"} {
		assert.Nil(t, Validate(&payload{Username: name, Items: []item{{ID: 1, Amount: 1}}}), name)
	}
	for _, name := range []string{"Иван Петров", "anna!", "ann/a", "имя#1"} {
		errs := Validate(&payload{Username: name, Items: []item{{ID: 1, Amount: 1}}})
		assert.Equal(t, "username", errs["username"], name)
	}
}
