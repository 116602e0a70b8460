package dataprocessing

import "math"

// Rates holds the derived percentages of a household breakdown
type Rates struct {
	Poverty  float64
	Alice    float64
	Combined float64
}

// CalculateRates derives poverty, ALICE and combined percentages rounded to one
// decimal. All three are 0 when total is 0.
func CalculateRates(total, poverty, alice int64) Rates {
	if total == 0 {
		return Rates{}
	}
	return Rates{
		Poverty:  percent(poverty, total),
		Alice:    percent(alice, total),
		Combined: percent(poverty+alice, total),
	}
}

func percent(part, total int64) float64 {
	return RoundTo1(100 * float64(part) / float64(total))
}

// RoundTo1 rounds half away from zero to one decimal place
func RoundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
