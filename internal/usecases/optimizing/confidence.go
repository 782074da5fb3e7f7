package optimizing

import (
	"math"
)

// Níveis de confiança suportados pelo estimador
const (
	ConfidenceLevel95 = 0.95
	ConfidenceLevel90 = 0.90
)

// ConfidenceInterval é o intervalo de confiança de uma taxa de conversão,
// em escala percentual (0 a 100)
type ConfidenceInterval struct {
	Rate          float64 `json:"rate"`
	Lower         float64 `json:"lower"`
	Upper         float64 `json:"upper"`
	MarginOfError float64 `json:"margin_of_error"`
}

// WilsonInterval calcula o intervalo de confiança de Wilson para a taxa
// conversions/clicks. Diferente da aproximação normal, o intervalo de Wilson
// permanece dentro de [0, 1] e se comporta bem com poucos cliques, que é o
// caso comum em entidades novas ou pequenas.
//
// Com clicks == 0 o resultado é todo zero: é um caso definido, não um erro.
func WilsonInterval(conversions, clicks int, confidenceLevel float64) ConfidenceInterval {
	if clicks == 0 {
		return ConfidenceInterval{}
	}

	z := 1.96 // 95%
	if confidenceLevel == ConfidenceLevel90 {
		z = 1.645
	}

	n := float64(clicks)
	rate := float64(conversions) / n

	denominator := 1 + z*z/n
	center := rate + z*z/(2*n)
	margin := z * math.Sqrt(rate*(1-rate)/n+z*z/(4*n*n))

	lower := (center - margin) / denominator
	upper := (center + margin) / denominator

	return ConfidenceInterval{
		Rate:          rate * 100,
		Lower:         lower * 100,
		Upper:         upper * 100,
		MarginOfError: (upper - lower) / 2 * 100,
	}
}
