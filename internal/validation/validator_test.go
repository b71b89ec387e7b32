package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type moneyFixture struct {
	Amount string `json:"amount" validate:"required,money_amount"`
}

type groupByFixture struct {
	GroupBy string `json:"group_by" validate:"group_by"`
}

func TestMoneyAmountRule(t *testing.T) {
	v := GetValidator()

	valid := []string{"0.01", "10", "42.50", "9999999.99"}
	for _, amount := range valid {
		assert.NoError(t, v.GetValidate().Struct(moneyFixture{Amount: amount}), "amount %q", amount)
	}

	invalid := []string{"", "0", "-5.00", "12.345", "abc"}
	for _, amount := range invalid {
		assert.Error(t, v.GetValidate().Struct(moneyFixture{Amount: amount}), "amount %q", amount)
	}
}

func TestGroupByRule(t *testing.T) {
	v := GetValidator()

	for _, unit := range []string{"", "day", "week", "month", "Day"} {
		assert.NoError(t, v.GetValidate().Struct(groupByFixture{GroupBy: unit}), "unit %q", unit)
	}

	for _, unit := range []string{"quarter", "year"} {
		assert.Error(t, v.GetValidate().Struct(groupByFixture{GroupBy: unit}), "unit %q", unit)
	}
}

func TestFieldNamesComeFromJSONTags(t *testing.T) {
	v := GetValidator()

	err := v.GetValidate().Struct(groupByFixture{GroupBy: "quarter"})
	assert.ErrorContains(t, err, "group_by")
}
