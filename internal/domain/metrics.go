package domain

import (
	"github.com/vfg2006/ads-optimizer-api/pkg/utils"
)

// PerformanceMetrics é o snapshot imutável de desempenho usado pelas regras de
// decisão. Os campos derivados (CTR, CPA, ROAS, CPC) valem zero quando o
// denominador é zero, nunca NaN.
type PerformanceMetrics struct {
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	Conversions int     `json:"conversions"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Frequency   float64 `json:"frequency"`

	CTR  float64 `json:"ctr"`
	CPA  float64 `json:"cpa"`
	ROAS float64 `json:"roas"`
	CPC  float64 `json:"cpc"`

	AgeDays            int     `json:"age_days"`
	OptimizationEvents int     `json:"optimization_events"`
	DailyBudget        float64 `json:"daily_budget"`

	// Parâmetros de política, não estado da entidade
	TargetCPA  float64 `json:"target_cpa"`
	TargetROAS float64 `json:"target_roas"`
}

// ComputeDerived preenche CTR, CPA, ROAS e CPC a partir dos contadores brutos
func (m *PerformanceMetrics) ComputeDerived() {
	m.CTR = 0
	m.CPA = 0
	m.ROAS = 0
	m.CPC = 0

	if m.Impressions > 0 {
		m.CTR = utils.RoundWithTwoDecimalPlace(float64(m.Clicks) / float64(m.Impressions) * 100)
	}

	if m.Conversions > 0 {
		m.CPA = utils.RoundWithTwoDecimalPlace(m.Spend / float64(m.Conversions))
	}

	if m.Spend > 0 {
		m.ROAS = utils.RoundWithTwoDecimalPlace(m.Revenue / m.Spend)
	}

	if m.Clicks > 0 {
		m.CPC = utils.RoundWithTwoDecimalPlace(m.Spend / float64(m.Clicks))
	}
}
