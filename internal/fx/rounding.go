package fx

import "github.com/shopspring/decimal"

// Display ceilings per currency. High-denomination currencies round up to a
// clean figure so the minimum-withdrawal hint reads naturally.
var minimumSteps = map[string]decimal.Decimal{
	"IDR": decimal.NewFromInt(1000),
	"MYR": decimal.NewFromInt(1),
	"SGD": decimal.NewFromInt(1),
	"EUR": decimal.NewFromFloat(0.5),
	"GBP": decimal.NewFromFloat(0.5),
}

// RoundMinimumUp ceils amount to the currency's display step. This exists
// only for the displayed minimum-withdrawal hint; the authoritative amount
// sent to the processor is never rounded here.
func RoundMinimumUp(amount decimal.Decimal, currency string) decimal.Decimal {
	step, ok := minimumSteps[currency]
	if !ok {
		return amount
	}
	return amount.Div(step).Ceil().Mul(step)
}
