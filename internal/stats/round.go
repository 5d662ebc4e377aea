package stats

import "github.com/shopspring/decimal"

// Display precision of the report. Rounding is half-to-even.
const (
	moneyPlaces   int32 = 1
	percentPlaces int32 = 1
	averagePlaces int32 = 2
	riskPlaces    int32 = 2
)

var hundred = decimal.NewFromInt(100)

func round(d decimal.Decimal, places int32) float64 {
	return d.RoundBank(places).InexactFloat64()
}

// percent returns part/whole*100, or 0 when whole is 0.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round(decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole))), percentPlaces)
}

// average returns sum/n, or 0 when n is 0.
func average(sum decimal.Decimal, n int) float64 {
	if n == 0 {
		return 0
	}
	return round(sum.Div(decimal.NewFromInt(int64(n))), averagePlaces)
}
