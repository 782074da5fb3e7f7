package optimizing

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/repository"
	"github.com/vfg2006/ads-optimizer-api/internal/config"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

// Janela de telemetria considerada em cada análise
const telemetryWindowDays = 7

// Confianças reportadas nas decisões de conjuntos de anúncios
const (
	confidenceLearning = 0.9
	confidencePause    = 0.85
	confidenceScale    = 0.8
)

// Confianças do caminho de anúncios: a decisão de pausa por CTR baixo é
// graduada pela largura do intervalo de Wilson (intervalo mais estreito,
// decisão mais confiável). Os valores não são unificados com o caminho de
// conjuntos de propósito.
const (
	confidenceAdDisapproved    = 1.0
	confidenceAdPauseNarrow    = 0.85
	confidenceAdPauseWide      = 0.7
	adPauseNarrowMarginPercent = 1.0
)

// Analyzer orquestra a análise de uma entidade: agrega a telemetria recente,
// monta o snapshot de métricas e aplica as regras de decisão
type Analyzer struct {
	adSetRepo    repository.AdSetRepository
	adRepo       repository.AdRepository
	campaignRepo repository.CampaignRepository
	insightRepo  repository.EntityInsightRepository
}

// NewAnalyzer cria uma nova instância do analisador de entidades
func NewAnalyzer(
	adSetRepo repository.AdSetRepository,
	adRepo repository.AdRepository,
	campaignRepo repository.CampaignRepository,
	insightRepo repository.EntityInsightRepository,
) *Analyzer {
	return &Analyzer{
		adSetRepo:    adSetRepo,
		adRepo:       adRepo,
		campaignRepo: campaignRepo,
		insightRepo:  insightRepo,
	}
}

// AnalyzeAdSet analisa um conjunto de anúncios e produz no máximo uma decisão.
// Retorna ErrEntityNotFound quando o conjunto não existe ou não está ativo.
// Ordem dos ramos, o primeiro que casar vence: fase de aprendizado suprime
// qualquer ação; pausa protege antes de escalar.
func (a *Analyzer) AnalyzeAdSet(ctx context.Context, adSetID string, cfg config.Optimization) (*domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	adSet, err := a.adSetRepo.GetByID(adSetID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar conjunto de anúncios: %w", err)
	}

	if adSet == nil || adSet.Status != domain.EntityStatusActive {
		return nil, NewEntityError(ErrEntityNotFound, domain.EntityTypeAdSet, adSetID, "")
	}

	metrics, entries, err := a.buildMetrics(ctx, domain.EntityTypeAdSet, adSetID, cfg)
	if err != nil {
		return nil, err
	}

	metrics.AgeDays = adSet.AgeDays(time.Now())
	metrics.OptimizationEvents = adSet.OptimizationEvents
	metrics.DailyBudget = adSet.DailyBudget

	// 1. Fase de aprendizado: apenas monitorar
	if adSet.LearningStatus == domain.LearningStatusLearning {
		progress := EstimateLearningProgress(adSet.OptimizationEvents, metrics.AgeDays, adSet.LearningStatus)

		return &domain.Decision{
			EntityType: domain.EntityTypeAdSet,
			EntityID:   adSet.ID,
			EntityName: adSet.Name,
			Action:     domain.ActionMonitor,
			Reason: fmt.Sprintf(
				"Em fase de aprendizado: %d de %d eventos (%.0f%%), conclusão estimada em %d dias",
				progress.EventsCount,
				progress.EventsCount+progress.EventsNeeded,
				progress.ProgressPercentage,
				progress.EstimatedCompletionDays,
			),
			Priority:   domain.PriorityLow,
			Confidence: confidenceLearning,
			Metrics:    metrics,
		}, nil
	}

	// Sem cobertura mínima de dias de telemetria nenhuma regra de pausa ou
	// escala é avaliada
	if len(entries) < cfg.MinDataDays {
		logrus.WithFields(logrus.Fields{
			"ad_set_id": adSetID,
			"data_days": len(entries),
			"min_days":  cfg.MinDataDays,
		}).Debug("Telemetria insuficiente para analisar o conjunto de anúncios")

		return nil, nil
	}

	// 2. Condições de pausa têm precedência sobre escala
	if pause, reason := ShouldPause(metrics); pause {
		return &domain.Decision{
			EntityType: domain.EntityTypeAdSet,
			EntityID:   adSet.ID,
			EntityName: adSet.Name,
			Action:     domain.ActionPause,
			Reason:     reason,
			Priority:   domain.PriorityHigh,
			Confidence: confidencePause,
			Metrics:    metrics,
			Mutation: &domain.DecisionMutation{
				Field:         domain.MutationFieldStatus,
				PreviousValue: string(adSet.Status),
				NewValue:      string(domain.EntityStatusPaused),
			},
		}, nil
	}

	// 3. Vencedor: escalar orçamento respeitando o teto da campanha
	if IsWinner(metrics) {
		campaign, err := a.campaignRepo.GetByID(adSet.CampaignID)
		if err != nil {
			return nil, fmt.Errorf("erro ao buscar campanha do conjunto: %w", err)
		}

		if campaign == nil {
			return nil, NewEntityError(ErrCampaignNotFound, domain.EntityTypeAdSet, adSetID, adSet.CampaignID)
		}

		newBudget := ScaleBudget(adSet.DailyBudget, campaign.TotalBudget, metrics)

		return &domain.Decision{
			EntityType: domain.EntityTypeAdSet,
			EntityID:   adSet.ID,
			EntityName: adSet.Name,
			Action:     domain.ActionScale,
			Reason: fmt.Sprintf(
				"Vencedor: ROAS de %.2f com %d conversões em %d dias, orçamento de R$%.2f para R$%.2f",
				metrics.ROAS, metrics.Conversions, metrics.AgeDays, adSet.DailyBudget, newBudget,
			),
			Priority:   domain.PriorityMedium,
			Confidence: confidenceScale,
			Metrics:    metrics,
			Mutation: &domain.DecisionMutation{
				Field:         domain.MutationFieldDailyBudget,
				PreviousValue: fmt.Sprintf("%.2f", adSet.DailyBudget),
				NewValue:      fmt.Sprintf("%.2f", newBudget),
			},
		}, nil
	}

	// 4. Fadiga criativa: recomendar renovação de criativos, sem mutação
	fatigue := DetectFatigue(fatigueInputsFromEntries(entries, metrics, metrics.AgeDays))
	if fatigue.Fatigued {
		return &domain.Decision{
			EntityType: domain.EntityTypeAdSet,
			EntityID:   adSet.ID,
			EntityName: adSet.Name,
			Action:     domain.ActionRefreshCreative,
			Reason:     fatigueReason(fatigue),
			Priority:   domain.PriorityMedium,
			Confidence: confidencePause,
			Metrics:    metrics,
		}, nil
	}

	logrus.WithFields(logrus.Fields{
		"ad_set_id": adSetID,
	}).Debug("Análise concluída sem decisão para o conjunto de anúncios")

	return nil, nil
}

// AnalyzeAd analisa um anúncio individual. Anúncios não carregam orçamento
// próprio nem fase de aprendizado; os ramos aplicáveis são reprovação na
// revisão, pausa por política e pausa por CTR baixo graduada pelo intervalo
// de confiança.
func (a *Analyzer) AnalyzeAd(ctx context.Context, adID string, cfg config.Optimization) (*domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ad, err := a.adRepo.GetByID(adID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar anúncio: %w", err)
	}

	if ad == nil || ad.Status != domain.EntityStatusActive {
		return nil, NewEntityError(ErrEntityNotFound, domain.EntityTypeAd, adID, "")
	}

	metrics, entries, err := a.buildMetrics(ctx, domain.EntityTypeAd, adID, cfg)
	if err != nil {
		return nil, err
	}

	metrics.AgeDays = ad.AgeDays(time.Now())

	// 1. Anúncio reprovado: sinalizar com prioridade alta mesmo sem telemetria
	if ad.IsDisapproved() {
		return &domain.Decision{
			EntityType: domain.EntityTypeAd,
			EntityID:   ad.ID,
			EntityName: ad.Name,
			Action:     domain.ActionMonitor,
			Reason:     "Anúncio reprovado na revisão da plataforma, requer intervenção manual",
			Priority:   domain.PriorityHigh,
			Confidence: confidenceAdDisapproved,
			Metrics:    metrics,
		}, nil
	}

	if len(entries) < cfg.MinDataDays {
		logrus.WithFields(logrus.Fields{
			"ad_id":     adID,
			"data_days": len(entries),
			"min_days":  cfg.MinDataDays,
		}).Debug("Telemetria insuficiente para analisar o anúncio")

		return nil, nil
	}

	// 2. Condições de pausa por política
	if pause, reason := ShouldPause(metrics); pause {
		return &domain.Decision{
			EntityType: domain.EntityTypeAd,
			EntityID:   ad.ID,
			EntityName: ad.Name,
			Action:     domain.ActionPause,
			Reason:     reason,
			Priority:   domain.PriorityHigh,
			Confidence: confidencePause,
			Metrics:    metrics,
			Mutation: &domain.DecisionMutation{
				Field:         domain.MutationFieldStatus,
				PreviousValue: string(ad.Status),
				NewValue:      string(domain.EntityStatusPaused),
			},
		}, nil
	}

	// 3. CTR baixo com volume: pausa graduada pela largura do intervalo
	if metrics.Impressions >= matureMinImpressions && metrics.CTR < pauseMinCTR {
		interval := WilsonInterval(metrics.Conversions, metrics.Clicks, ConfidenceLevel95)

		confidence := confidenceAdPauseWide
		if interval.MarginOfError < adPauseNarrowMarginPercent {
			confidence = confidenceAdPauseNarrow
		}

		return &domain.Decision{
			EntityType: domain.EntityTypeAd,
			EntityID:   ad.ID,
			EntityName: ad.Name,
			Action:     domain.ActionPause,
			Reason: fmt.Sprintf(
				"CTR de %.2f%% abaixo do mínimo de %.1f%% com %d impressões",
				metrics.CTR, pauseMinCTR, metrics.Impressions,
			),
			Priority:   domain.PriorityMedium,
			Confidence: confidence,
			Metrics:    metrics,
			Mutation: &domain.DecisionMutation{
				Field:         domain.MutationFieldStatus,
				PreviousValue: string(ad.Status),
				NewValue:      string(domain.EntityStatusPaused),
			},
		}, nil
	}

	logrus.WithFields(logrus.Fields{
		"ad_id": adID,
	}).Debug("Análise concluída sem decisão para o anúncio")

	return nil, nil
}

// buildMetrics agrega a telemetria da janela recente e monta o snapshot de
// métricas com os parâmetros de política da configuração
func (a *Analyzer) buildMetrics(
	ctx context.Context,
	entityType domain.EntityType,
	entityID string,
	cfg config.Optimization,
) (domain.PerformanceMetrics, []*domain.EntityInsightEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.PerformanceMetrics{}, nil, err
	}

	endDate := time.Now().AddDate(0, 0, -1)
	startDate := endDate.AddDate(0, 0, -(telemetryWindowDays - 1))

	entries, err := a.insightRepo.GetByEntityAndDateRange(entityType, entityID, startDate, endDate)
	if err != nil {
		return domain.PerformanceMetrics{}, nil, fmt.Errorf("erro ao buscar telemetria: %w", err)
	}

	metrics := domain.AggregateInsights(entries)
	metrics.TargetCPA = cfg.TargetCPA
	metrics.TargetROAS = cfg.TargetROAS

	return metrics, entries, nil
}

// fatigueInputsFromEntries deriva os sinais de tendência comparando a primeira
// e a segunda metade da janela de telemetria
func fatigueInputsFromEntries(entries []*domain.EntityInsightEntry, metrics domain.PerformanceMetrics, ageDays int) domain.FatigueInputs {
	inputs := domain.FatigueInputs{
		Frequency: metrics.Frequency,
		AgeDays:   ageDays,
	}

	if len(entries) < 2 {
		return inputs
	}

	half := len(entries) / 2
	firstCTR, firstCPC := windowRates(entries[:half])
	secondCTR, secondCPC := windowRates(entries[half:])

	if firstCTR > 0 && secondCTR < firstCTR {
		inputs.CTRDropPercent = (firstCTR - secondCTR) / firstCTR * 100
	}

	if firstCPC > 0 && secondCPC > firstCPC {
		inputs.CPCRisePercent = (secondCPC - firstCPC) / firstCPC * 100
	}

	return inputs
}

// windowRates calcula CTR e CPC agregados de uma fatia da janela
func windowRates(entries []*domain.EntityInsightEntry) (ctr, cpc float64) {
	impressions := 0
	clicks := 0
	spend := 0.0

	for _, entry := range entries {
		impressions += entry.Impressions
		clicks += entry.Clicks
		spend += entry.Spend
	}

	if impressions > 0 {
		ctr = float64(clicks) / float64(impressions) * 100
	}

	if clicks > 0 {
		cpc = spend / float64(clicks)
	}

	return ctr, cpc
}

// fatigueReason monta o motivo legível a partir dos sinais detectados
func fatigueReason(assessment domain.FatigueAssessment) string {
	reason := "Fadiga criativa detectada:"
	for i, signal := range assessment.Signals {
		if i > 0 {
			reason += ";"
		}
		reason += " " + signal.Explanation
	}
	return reason
}
