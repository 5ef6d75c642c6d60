package valueobject

import (
	"fmt"
	"math"
)

const DefaultCurrency = "USD"

// Money сумма в валюте, по умолчанию USD.
type Money struct {
	Amount   float64
	Currency string
}

// Add складывает суммы в одной валюте, результат округляется до центов.
func (m Money) Add(other Money) Money {
	return Money{Amount: roundCents(m.Amount + other.Amount), Currency: m.Currency}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %.2f", m.Currency, m.Amount)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
