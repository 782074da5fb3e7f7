package optimizing

import (
	"fmt"
	"math"

	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

// Portão de maturidade estatística: nenhuma decisão de pausa ou escala é
// tomada antes desses volumes mínimos
const (
	matureMinImpressions = 1000
	matureMinClicks      = 100
	matureMinConversions = 10
)

// Limiares das regras de pausa
const (
	pauseCPAMultiplier = 2.5
	pauseMinROAS       = 1.0
	pauseMinCTR        = 0.3
	pauseMaxFrequency  = 5.0
	pauseMaxCPC        = 5.0
)

// Critérios de vencedor, todos obrigatórios
const (
	winnerMinConversions = 30
	winnerMinAgeDays     = 7
	winnerMinROAS        = 3.0
	winnerCPAMultiplier  = 0.8
)

// Parâmetros de escalonamento de orçamento
const (
	scaleFactorDefault  = 1.2
	scaleFactorHighROAS = 1.3
	scaleROASThreshold  = 5.0
	scaleCampaignCap    = 0.4
)

// Limiares do detector de fadiga criativa
const (
	fatigueFrequencyWarning  = 3.0
	fatigueFrequencyCritical = 5.0
	fatigueCTRDropPercent    = 20.0
	fatigueCPCRisePercent    = 30.0
	fatigueAgeInfoDays       = 14
	fatigueAgeWarningDays    = 21
)

// Parâmetros da fase de aprendizado
const (
	learningTargetEvents = 50
	learningOnTrackRate  = 7.0
	learningMinDailyRate = 1.0
)

// HasMatureSample indica se a amostra tem volume suficiente para sustentar
// uma decisão de pausa ou escala
func HasMatureSample(m domain.PerformanceMetrics) bool {
	return m.Impressions >= matureMinImpressions &&
		(m.Clicks >= matureMinClicks || m.Conversions >= matureMinConversions)
}

// ShouldPause avalia as condições de pausa sobre uma amostra madura e retorna
// o motivo legível da primeira condição satisfeita, na ordem CPA, ROAS, CTR,
// frequência e CPC. A ordem afeta apenas o motivo reportado, não o veredito.
func ShouldPause(m domain.PerformanceMetrics) (bool, string) {
	if !HasMatureSample(m) {
		return false, ""
	}

	cpaLimit := m.TargetCPA * pauseCPAMultiplier

	switch {
	// CPA e ROAS derivados valem 0 quando o denominador é 0; os guardas de
	// Conversions e Spend impedem que esse 0 convencional dispare uma pausa
	// sobre uma amostra sem gasto
	case m.Conversions > 0 && m.CPA > cpaLimit:
		return true, fmt.Sprintf("CPA de R$%.2f acima do limite de R$%.2f (%.1fx o CPA alvo)", m.CPA, cpaLimit, pauseCPAMultiplier)
	case m.Spend > 0 && m.ROAS < pauseMinROAS:
		return true, fmt.Sprintf("ROAS de %.2f abaixo do mínimo de %.1f", m.ROAS, pauseMinROAS)
	case m.CTR < pauseMinCTR:
		return true, fmt.Sprintf("CTR de %.2f%% abaixo do mínimo de %.1f%%", m.CTR, pauseMinCTR)
	case m.Frequency > pauseMaxFrequency:
		return true, fmt.Sprintf("Frequência de %.1f acima do máximo de %.1f", m.Frequency, pauseMaxFrequency)
	case m.CPC > pauseMaxCPC:
		return true, fmt.Sprintf("CPC de R$%.2f acima do máximo de R$%.2f", m.CPC, pauseMaxCPC)
	}

	return false, ""
}

// IsWinner indica se a entidade é vencedora e candidata a escala de orçamento.
// Os quatro critérios são conjuntivos de propósito: evita escalar sobre
// sequências curtas de sorte.
func IsWinner(m domain.PerformanceMetrics) bool {
	if !HasMatureSample(m) {
		return false
	}

	return m.Conversions >= winnerMinConversions &&
		m.AgeDays >= winnerMinAgeDays &&
		m.ROAS > winnerMinROAS &&
		m.CPA < m.TargetCPA*winnerCPAMultiplier
}

// ScaleBudget calcula o novo orçamento diário de uma entidade vencedora.
// O resultado nunca diminui o orçamento atual e nunca ultrapassa 40% do
// orçamento total da campanha, independentemente do fator calculado.
func ScaleBudget(currentBudget, campaignTotalBudget float64, m domain.PerformanceMetrics) float64 {
	scaleFactor := scaleFactorDefault
	if m.ROAS > scaleROASThreshold {
		scaleFactor = scaleFactorHighROAS
	}

	candidate := currentBudget * scaleFactor
	budgetCap := campaignTotalBudget * scaleCampaignCap

	return math.Max(currentBudget, math.Min(candidate, budgetCap))
}

// DetectFatigue avalia os sinais independentes de fadiga criativa e agrega o
// veredito: fadigado com pelo menos um sinal crítico ou dois avisos. Um único
// sinal informativo nunca é suficiente, evitando disparos por uma métrica
// ruidosa isolada.
func DetectFatigue(in domain.FatigueInputs) domain.FatigueAssessment {
	signals := make([]domain.FatigueSignal, 0, 4)

	if in.Frequency > fatigueFrequencyWarning {
		severity := domain.FatigueSeverityWarning
		if in.Frequency > fatigueFrequencyCritical {
			severity = domain.FatigueSeverityCritical
		}
		signals = append(signals, domain.FatigueSignal{
			Type:        domain.FatigueSignalFrequency,
			Severity:    severity,
			Value:       in.Frequency,
			Explanation: fmt.Sprintf("Frequência média de %.1f exposições por pessoa", in.Frequency),
		})
	}

	if in.CTRDropPercent >= fatigueCTRDropPercent {
		signals = append(signals, domain.FatigueSignal{
			Type:        domain.FatigueSignalCTRTrend,
			Severity:    domain.FatigueSeverityWarning,
			Value:       in.CTRDropPercent,
			Explanation: fmt.Sprintf("CTR caiu %.0f%% na janela de referência", in.CTRDropPercent),
		})
	}

	if in.CPCRisePercent >= fatigueCPCRisePercent {
		signals = append(signals, domain.FatigueSignal{
			Type:        domain.FatigueSignalCPCTrend,
			Severity:    domain.FatigueSeverityWarning,
			Value:       in.CPCRisePercent,
			Explanation: fmt.Sprintf("CPC subiu %.0f%% na janela de referência", in.CPCRisePercent),
		})
	}

	if in.AgeDays >= fatigueAgeInfoDays {
		severity := domain.FatigueSeverityInfo
		if in.AgeDays > fatigueAgeWarningDays {
			severity = domain.FatigueSeverityWarning
		}
		signals = append(signals, domain.FatigueSignal{
			Type:        domain.FatigueSignalAge,
			Severity:    severity,
			Value:       float64(in.AgeDays),
			Explanation: fmt.Sprintf("Criativo no ar há %d dias", in.AgeDays),
		})
	}

	criticals := 0
	warnings := 0
	for _, signal := range signals {
		switch signal.Severity {
		case domain.FatigueSeverityCritical:
			criticals++
		case domain.FatigueSeverityWarning:
			warnings++
		}
	}

	fatigued := criticals >= 1 || warnings >= 2

	recommendation := domain.ActionMonitor
	if fatigued {
		recommendation = domain.ActionRefreshCreative
	}

	return domain.FatigueAssessment{
		Fatigued:       fatigued,
		Signals:        signals,
		Recommendation: recommendation,
	}
}

// EstimateLearningProgress estima o avanço da fase de aprendizado a partir
// dos eventos de otimização acumulados. A taxa diária usada na projeção tem
// piso de 1 para não dividir por zero nem inflar a estimativa quando a taxa
// real é próxima de zero.
func EstimateLearningProgress(events, ageDays int, status domain.LearningStatus) domain.LearningPhaseProgress {
	effectiveAge := ageDays
	if effectiveAge < 1 {
		effectiveAge = 1
	}

	dailyRate := float64(events) / float64(effectiveAge)

	remaining := learningTargetEvents - events
	if remaining < 0 {
		remaining = 0
	}

	projectionRate := math.Max(dailyRate, learningMinDailyRate)
	estimatedDays := int(math.Ceil(float64(remaining) / projectionRate))

	progress := float64(events) / float64(learningTargetEvents) * 100
	if progress > 100 {
		progress = 100
	}

	return domain.LearningPhaseProgress{
		Status:                  status,
		EventsCount:             events,
		EventsNeeded:            remaining,
		ProgressPercentage:      progress,
		EstimatedCompletionDays: estimatedDays,
		OnTrack:                 dailyRate >= learningOnTrackRate,
	}
}
