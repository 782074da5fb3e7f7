package domain

// FatigueSeverity gradua a força de um sinal de fadiga criativa
type FatigueSeverity string

const (
	FatigueSeverityInfo     FatigueSeverity = "info"
	FatigueSeverityWarning  FatigueSeverity = "warning"
	FatigueSeverityCritical FatigueSeverity = "critical"
)

// Tipos de sinal de fadiga avaliados pelo detector
const (
	FatigueSignalFrequency = "frequency"
	FatigueSignalCTRTrend  = "ctr_trend"
	FatigueSignalCPCTrend  = "cpc_trend"
	FatigueSignalAge       = "creative_age"
)

// FatigueSignal é um indicador individual de desgaste criativo
type FatigueSignal struct {
	Type        string          `json:"type"`
	Severity    FatigueSeverity `json:"severity"`
	Value       float64         `json:"value"`
	Explanation string          `json:"explanation"`
}

// FatigueInputs reúne os sinais brutos observados na janela de referência.
// CTRDropPercent e CPCRisePercent são variações positivas: queda de CTR e
// alta de CPC entre a primeira e a segunda metade da janela.
type FatigueInputs struct {
	Frequency      float64 `json:"frequency"`
	CTRDropPercent float64 `json:"ctr_drop_percent"`
	CPCRisePercent float64 `json:"cpc_rise_percent"`
	AgeDays        int     `json:"age_days"`
}

// FatigueAssessment é o veredito agregado do detector de fadiga
type FatigueAssessment struct {
	Fatigued       bool            `json:"fatigued"`
	Signals        []FatigueSignal `json:"signals"`
	Recommendation ActionType      `json:"recommendation"`
}
