package service

import "math"

// roundCents округляет сумму до копеек.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// roundOneDecimal округляет значение до одного знака после запятой.
func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
