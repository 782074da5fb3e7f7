package optimizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

func matureMetrics() domain.PerformanceMetrics {
	m := domain.PerformanceMetrics{
		Impressions: 10000,
		Clicks:      150,
		Conversions: 12,
		Spend:       600.0,
		Revenue:     1200.0,
		Frequency:   2.0,
		TargetCPA:   50.0,
		TargetROAS:  2.0,
	}
	m.ComputeDerived()
	return m
}

func TestHasMatureSample(t *testing.T) {
	tests := []struct {
		name     string
		metrics  domain.PerformanceMetrics
		expected bool
	}{
		{
			name:     "Impressões e cliques suficientes",
			metrics:  domain.PerformanceMetrics{Impressions: 1000, Clicks: 100},
			expected: true,
		},
		{
			name:     "Impressões e conversões suficientes mesmo com poucos cliques",
			metrics:  domain.PerformanceMetrics{Impressions: 1000, Clicks: 50, Conversions: 10},
			expected: true,
		},
		{
			name:     "Impressões insuficientes reprovam mesmo com volume de cliques",
			metrics:  domain.PerformanceMetrics{Impressions: 999, Clicks: 500, Conversions: 50},
			expected: false,
		},
		{
			name:     "Volume de impressões sem cliques nem conversões",
			metrics:  domain.PerformanceMetrics{Impressions: 5000, Clicks: 99, Conversions: 9},
			expected: false,
		},
		{
			name:     "Amostra vazia",
			metrics:  domain.PerformanceMetrics{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasMatureSample(tt.metrics))
		})
	}
}

func TestShouldPause(t *testing.T) {
	tests := []struct {
		name        string
		adjust      func(m *domain.PerformanceMetrics)
		expected    bool
		reasonPiece string
	}{
		{
			name:     "Amostra saudável não pausa",
			adjust:   func(m *domain.PerformanceMetrics) {},
			expected: false,
		},
		{
			name: "CPA acima de 2.5x o alvo",
			adjust: func(m *domain.PerformanceMetrics) {
				m.Spend = 2000.0
				m.Revenue = 4000.0
			},
			expected:    true,
			reasonPiece: "CPA",
		},
		{
			name: "ROAS abaixo de 1.0",
			adjust: func(m *domain.PerformanceMetrics) {
				m.Revenue = 300.0
			},
			expected:    true,
			reasonPiece: "ROAS",
		},
		{
			name: "CTR abaixo do mínimo com volume",
			adjust: func(m *domain.PerformanceMetrics) {
				m.Impressions = 100000
				m.Clicks = 150
			},
			expected:    true,
			reasonPiece: "CTR",
		},
		{
			name: "Frequência acima do máximo",
			adjust: func(m *domain.PerformanceMetrics) {
				m.Frequency = 5.5
			},
			expected:    true,
			reasonPiece: "Frequência",
		},
		{
			name: "CPC acima do máximo",
			adjust: func(m *domain.PerformanceMetrics) {
				m.Spend = 800.0
				m.Revenue = 1600.0
				m.Conversions = 16
			},
			expected:    true,
			reasonPiece: "CPC",
		},
		{
			name: "Amostra imatura nunca pausa mesmo com métricas ruins",
			adjust: func(m *domain.PerformanceMetrics) {
				m.Impressions = 500
				m.Clicks = 10
				m.Conversions = 0
				m.Revenue = 0
			},
			expected: false,
		},
		{
			name: "ROAS zero sem gasto não dispara a regra de ROAS",
			adjust: func(m *domain.PerformanceMetrics) {
				m.Spend = 0
				m.Revenue = 0
				m.Conversions = 0
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := matureMetrics()
			tt.adjust(&m)
			m.ComputeDerived()

			pause, reason := ShouldPause(m)

			assert.Equal(t, tt.expected, pause)
			if tt.expected {
				assert.Contains(t, reason, tt.reasonPiece)
			} else {
				assert.Empty(t, reason)
			}
		})
	}
}

func TestIsWinner(t *testing.T) {
	winner := domain.PerformanceMetrics{
		Impressions: 50000,
		Clicks:      800,
		Conversions: 40,
		Spend:       1200.0,
		Revenue:     4800.0,
		AgeDays:     10,
		TargetCPA:   50.0,
		TargetROAS:  2.0,
	}
	winner.ComputeDerived()

	tests := []struct {
		name     string
		adjust   func(m *domain.PerformanceMetrics)
		expected bool
	}{
		{
			name:     "Todos os critérios satisfeitos",
			adjust:   func(m *domain.PerformanceMetrics) {},
			expected: true,
		},
		{
			name: "Conversões abaixo de 30",
			adjust: func(m *domain.PerformanceMetrics) {
				m.Conversions = 29
			},
			expected: false,
		},
		{
			name: "Menos de 7 dias de veiculação",
			adjust: func(m *domain.PerformanceMetrics) {
				m.AgeDays = 6
			},
			expected: false,
		},
		{
			name: "ROAS exatamente no limiar não basta",
			adjust: func(m *domain.PerformanceMetrics) {
				m.Revenue = 3600.0 // ROAS = 3.0
			},
			expected: false,
		},
		{
			name: "CPA igual a 80% do alvo não basta",
			adjust: func(m *domain.PerformanceMetrics) {
				m.Spend = 1600.0 // CPA = 40.0 = 0.8 * 50
				m.Revenue = 6400.0
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := winner
			tt.adjust(&m)
			m.ComputeDerived()

			assert.Equal(t, tt.expected, IsWinner(m))
		})
	}
}

func TestScaleBudget(t *testing.T) {
	tests := []struct {
		name           string
		currentBudget  float64
		campaignBudget float64
		roas           float64
		expected       float64
	}{
		{
			name:           "Fator padrão de 20%",
			currentBudget:  100.0,
			campaignBudget: 1000.0,
			roas:           4.0,
			expected:       120.0,
		},
		{
			name:           "ROAS excepcional usa fator de 30%",
			currentBudget:  100.0,
			campaignBudget: 1000.0,
			roas:           6.0,
			expected:       130.0,
		},
		{
			name:           "ROAS exatamente no limiar usa fator padrão",
			currentBudget:  100.0,
			campaignBudget: 1000.0,
			roas:           5.0,
			expected:       120.0,
		},
		{
			name:           "Teto de 40% do orçamento da campanha",
			currentBudget:  350.0,
			campaignBudget: 1000.0,
			roas:           4.0,
			expected:       400.0,
		},
		{
			name:           "Nunca reduz o orçamento atual mesmo acima do teto",
			currentBudget:  500.0,
			campaignBudget: 1000.0,
			roas:           4.0,
			expected:       500.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := domain.PerformanceMetrics{ROAS: tt.roas}

			newBudget := ScaleBudget(tt.currentBudget, tt.campaignBudget, m)

			assert.InDelta(t, tt.expected, newBudget, 0.001)
		})
	}
}

func TestDetectFatigue(t *testing.T) {
	tests := []struct {
		name            string
		inputs          domain.FatigueInputs
		expectFatigued  bool
		expectedSignals int
	}{
		{
			name:            "Sem sinais",
			inputs:          domain.FatigueInputs{Frequency: 2.0, AgeDays: 5},
			expectFatigued:  false,
			expectedSignals: 0,
		},
		{
			name:            "Frequência crítica sozinha basta",
			inputs:          domain.FatigueInputs{Frequency: 5.5, AgeDays: 5},
			expectFatigued:  true,
			expectedSignals: 1,
		},
		{
			name:            "Um único aviso não basta",
			inputs:          domain.FatigueInputs{Frequency: 3.5, AgeDays: 5},
			expectFatigued:  false,
			expectedSignals: 1,
		},
		{
			name:            "Dois avisos juntos bastam",
			inputs:          domain.FatigueInputs{Frequency: 3.5, CTRDropPercent: 25.0, AgeDays: 5},
			expectFatigued:  true,
			expectedSignals: 2,
		},
		{
			name:            "Sinal informativo de idade não conta para o veredito",
			inputs:          domain.FatigueInputs{Frequency: 2.0, AgeDays: 15},
			expectFatigued:  false,
			expectedSignals: 1,
		},
		{
			name:            "Idade acima de 21 dias vira aviso e soma com CPC",
			inputs:          domain.FatigueInputs{Frequency: 2.0, CPCRisePercent: 35.0, AgeDays: 25},
			expectFatigued:  true,
			expectedSignals: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := DetectFatigue(tt.inputs)

			assert.Equal(t, tt.expectFatigued, assessment.Fatigued)
			assert.Len(t, assessment.Signals, tt.expectedSignals)

			if tt.expectFatigued {
				assert.Equal(t, domain.ActionRefreshCreative, assessment.Recommendation)
			} else {
				assert.Equal(t, domain.ActionMonitor, assessment.Recommendation)
			}
		})
	}
}

func TestEstimateLearningProgress(t *testing.T) {
	tests := []struct {
		name              string
		events            int
		ageDays           int
		expectedProgress  float64
		expectedRemaining int
		expectedDays      int
		expectedOnTrack   bool
	}{
		{
			name:              "Metade do caminho em ritmo lento",
			events:            25,
			ageDays:           5,
			expectedProgress:  50.0,
			expectedRemaining: 25,
			expectedDays:      5,
			expectedOnTrack:   false,
		},
		{
			name:              "Ritmo acima de 7 eventos por dia",
			events:            35,
			ageDays:           4,
			expectedProgress:  70.0,
			expectedRemaining: 15,
			expectedDays:      2,
			expectedOnTrack:   true,
		},
		{
			name:              "Sem eventos usa taxa mínima na projeção",
			events:            0,
			ageDays:           3,
			expectedProgress:  0.0,
			expectedRemaining: 50,
			expectedDays:      50,
			expectedOnTrack:   false,
		},
		{
			name:              "Idade zero não divide por zero",
			events:            10,
			ageDays:           0,
			expectedProgress:  20.0,
			expectedRemaining: 40,
			expectedDays:      4,
			expectedOnTrack:   true,
		},
		{
			name:              "Acima da meta satura em 100%",
			events:            80,
			ageDays:           10,
			expectedProgress:  100.0,
			expectedRemaining: 0,
			expectedDays:      0,
			expectedOnTrack:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := EstimateLearningProgress(tt.events, tt.ageDays, domain.LearningStatusLearning)

			assert.InDelta(t, tt.expectedProgress, progress.ProgressPercentage, 0.001)
			assert.Equal(t, tt.expectedRemaining, progress.EventsNeeded)
			assert.Equal(t, tt.expectedDays, progress.EstimatedCompletionDays)
			assert.Equal(t, tt.expectedOnTrack, progress.OnTrack)
			assert.Equal(t, domain.LearningStatusLearning, progress.Status)
		})
	}
}
