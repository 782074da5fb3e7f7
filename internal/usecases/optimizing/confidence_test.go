package optimizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWilsonInterval(t *testing.T) {
	tests := []struct {
		name            string
		conversions     int
		clicks          int
		confidenceLevel float64
		expectedRate    float64
		expectedLower   float64
		expectedUpper   float64
	}{
		{
			name:            "Taxa de 10% com 100 cliques a 95%",
			conversions:     10,
			clicks:          100,
			confidenceLevel: ConfidenceLevel95,
			expectedRate:    10.0,
			expectedLower:   5.52,
			expectedUpper:   17.44,
		},
		{
			name:            "Taxa de 10% com 100 cliques a 90% produz intervalo mais estreito",
			conversions:     10,
			clicks:          100,
			confidenceLevel: ConfidenceLevel90,
			expectedRate:    10.0,
			expectedLower:   6.07,
			expectedUpper:   16.04,
		},
		{
			name:            "Nenhuma conversão mantém o limite inferior em zero",
			conversions:     0,
			clicks:          10,
			confidenceLevel: ConfidenceLevel95,
			expectedRate:    0.0,
			expectedLower:   0.0,
			expectedUpper:   27.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interval := WilsonInterval(tt.conversions, tt.clicks, tt.confidenceLevel)

			assert.InDelta(t, tt.expectedRate, interval.Rate, 0.01)
			assert.InDelta(t, tt.expectedLower, interval.Lower, 0.01)
			assert.InDelta(t, tt.expectedUpper, interval.Upper, 0.01)
			assert.InDelta(t, (interval.Upper-interval.Lower)/2, interval.MarginOfError, 0.001)
		})
	}
}

func TestWilsonInterval_SemCliques(t *testing.T) {
	interval := WilsonInterval(0, 0, ConfidenceLevel95)

	assert.Equal(t, 0.0, interval.Rate)
	assert.Equal(t, 0.0, interval.Lower)
	assert.Equal(t, 0.0, interval.Upper)
	assert.Equal(t, 0.0, interval.MarginOfError)
}

func TestWilsonInterval_PermaneceDentroDosLimites(t *testing.T) {
	// Com poucos cliques a aproximação normal vazaria para fora de [0, 100];
	// o intervalo de Wilson nunca vaza
	cases := []struct {
		conversions int
		clicks      int
	}{
		{0, 1},
		{1, 1},
		{1, 2},
		{5, 5},
		{1, 1000},
		{999, 1000},
	}

	for _, c := range cases {
		interval := WilsonInterval(c.conversions, c.clicks, ConfidenceLevel95)

		assert.GreaterOrEqual(t, interval.Lower, 0.0)
		assert.LessOrEqual(t, interval.Upper, 100.0)
		assert.LessOrEqual(t, interval.Lower, interval.Upper)
	}
}

func TestWilsonInterval_MaisCliquesEstreitamOIntervalo(t *testing.T) {
	small := WilsonInterval(10, 100, ConfidenceLevel95)
	large := WilsonInterval(100, 1000, ConfidenceLevel95)

	assert.Less(t, large.MarginOfError, small.MarginOfError)
}
