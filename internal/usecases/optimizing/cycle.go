package optimizing

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/repository"
	"github.com/vfg2006/ads-optimizer-api/internal/config"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

// CycleDriver percorre todas as entidades ativas, analisa cada uma em
// paralelo limitado e agrega o resultado do ciclo. Falhas por entidade são
// isoladas: cada erro vira uma linha no resultado e o ciclo segue adiante.
type CycleDriver struct {
	analyzer     *Analyzer
	executor     *Executor
	adSetRepo    repository.AdSetRepository
	adRepo       repository.AdRepository
	campaignRepo repository.CampaignRepository
}

// NewCycleDriver cria um novo orquestrador de ciclos de otimização
func NewCycleDriver(
	analyzer *Analyzer,
	executor *Executor,
	adSetRepo repository.AdSetRepository,
	adRepo repository.AdRepository,
	campaignRepo repository.CampaignRepository,
) *CycleDriver {
	return &CycleDriver{
		analyzer:     analyzer,
		executor:     executor,
		adSetRepo:    adSetRepo,
		adRepo:       adRepo,
		campaignRepo: campaignRepo,
	}
}

// entityOutcome transporta o resultado da análise de uma entidade do worker
// para a agregação serial
type entityOutcome struct {
	entityType domain.EntityType
	entityID   string
	campaignID string
	prevBudget float64
	decision   *domain.Decision
	err        error
}

// Run executa um ciclo completo de otimização. A configuração é validada
// antes de qualquer entidade ser processada: configuração inválida aborta o
// ciclo inteiro. O accountID, quando informado, restringe o ciclo às
// entidades daquela conta.
func (d *CycleDriver) Run(ctx context.Context, accountID *string, cfg config.Optimization) (*domain.OptimizationCycleResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuração de otimização inválida: %w", err)
	}

	cycleID := uuid.New().String()
	result := domain.NewOptimizationCycleResult(cycleID, time.Now())
	result.DryRun = cfg.DryRun

	logrus.WithFields(logrus.Fields{
		"cycle_id":     cycleID,
		"dry_run":      cfg.DryRun,
		"auto_execute": cfg.AutoExecute,
	}).Info("Iniciando ciclo de otimização")

	adSets, err := d.adSetRepo.ListByStatus(domain.EntityStatusActive, accountID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar conjuntos de anúncios ativos: %w", err)
	}

	ads, err := d.adRepo.ListByStatus(domain.EntityStatusActive, accountID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar anúncios ativos: %w", err)
	}

	outcomes := d.analyzeAll(ctx, adSets, ads, cfg)

	d.aggregate(ctx, outcomes, result, cfg)

	result.CompletedAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"cycle_id":           cycleID,
		"decisions_analyzed": result.DecisionsAnalyzed,
		"actions_executed":   result.ActionsExecuted,
		"errors":             len(result.Errors),
		"duration":           result.CompletedAt.Sub(result.StartedAt).String(),
	}).Info("Ciclo de otimização concluído")

	return result, nil
}

// analyzeAll despacha a análise das entidades para um pool limitado de
// workers e coleta os resultados na ordem de chegada
func (d *CycleDriver) analyzeAll(
	ctx context.Context,
	adSets []*domain.AdSet,
	ads []*domain.Ad,
	cfg config.Optimization,
) []entityOutcome {
	total := len(adSets) + len(ads)
	results := make(chan entityOutcome, total)
	semaphore := make(chan struct{}, cfg.MaxConcurrentJobs)

	var wg sync.WaitGroup

	for _, adSet := range adSets {
		wg.Add(1)
		go func(adSet *domain.AdSet) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outcome := entityOutcome{
				entityType: domain.EntityTypeAdSet,
				entityID:   adSet.ID,
				campaignID: adSet.CampaignID,
				prevBudget: adSet.DailyBudget,
			}
			outcome.decision, outcome.err = d.analyzeAdSet(ctx, adSet.ID, cfg)

			results <- outcome
		}(adSet)
	}

	for _, ad := range ads {
		wg.Add(1)
		go func(ad *domain.Ad) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			outcome := entityOutcome{
				entityType: domain.EntityTypeAd,
				entityID:   ad.ID,
			}
			outcome.decision, outcome.err = d.analyzeAd(ctx, ad.ID, cfg)

			results <- outcome
		}(ad)
	}

	wg.Wait()
	close(results)

	outcomes := make([]entityOutcome, 0, total)
	for outcome := range results {
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// analyzeAdSet analisa um conjunto com timeout próprio, convertendo pânicos
// em erro para preservar o isolamento por entidade
func (d *CycleDriver) analyzeAdSet(ctx context.Context, adSetID string, cfg config.Optimization) (decision *domain.Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pânico durante a análise: %v", r)
		}
	}()

	entityCtx, cancel := context.WithTimeout(ctx, cfg.EntityTimeout())
	defer cancel()

	decision, err = d.analyzer.AnalyzeAdSet(entityCtx, adSetID, cfg)
	if err != nil && entityCtx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("%w após %s", ErrAnalysisTimeout, cfg.EntityTimeout())
	}

	return decision, err
}

// analyzeAd analisa um anúncio com timeout próprio
func (d *CycleDriver) analyzeAd(ctx context.Context, adID string, cfg config.Optimization) (decision *domain.Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pânico durante a análise: %v", r)
		}
	}()

	entityCtx, cancel := context.WithTimeout(ctx, cfg.EntityTimeout())
	defer cancel()

	decision, err = d.analyzer.AnalyzeAd(entityCtx, adID, cfg)
	if err != nil && entityCtx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("%w após %s", ErrAnalysisTimeout, cfg.EntityTimeout())
	}

	return decision, err
}

// aggregate consolida os resultados serialmente: aplica o razão de orçamento
// por campanha sobre as decisões de escala, atualiza os contadores e aciona o
// executor quando a execução automática está habilitada
func (d *CycleDriver) aggregate(ctx context.Context, outcomes []entityOutcome, result *domain.OptimizationCycleResult, cfg config.Optimization) {
	ledger := newBudgetLedger(d.campaignRepo)

	for _, outcome := range outcomes {
		if outcome.err != nil {
			// Entidade desativada entre a listagem e a análise: não é falha
			if IsNotFound(outcome.err) {
				logrus.WithFields(logrus.Fields{
					"entity_type": outcome.entityType,
					"entity_id":   outcome.entityID,
				}).Debug("Entidade saiu do estado ativo durante o ciclo")
				continue
			}

			result.Errors = append(result.Errors, formatEntityError(outcome))
			continue
		}

		// Toda entidade analisada sem erro conta, mesmo quando saudável e
		// sem decisão resultante
		result.DecisionsAnalyzed++

		if outcome.decision == nil {
			continue
		}

		// Decisões de monitoramento são informativas: não entram nos
		// contadores de ação nem passam pelo executor
		decision := outcome.decision
		if decision.Action == domain.ActionMonitor {
			continue
		}

		result.ActionsByType[decision.Action]++

		if decision.Action == domain.ActionScale {
			if err := ledger.clampScale(decision, outcome.campaignID, outcome.prevBudget); err != nil {
				result.Errors = append(result.Errors, formatEntityError(entityOutcome{
					entityType: outcome.entityType,
					entityID:   outcome.entityID,
					err:        err,
				}))
				continue
			}
		}

		if cfg.AutoExecute && !cfg.DryRun {
			if d.executor.Execute(ctx, decision, PerformedBySystem, cfg) && decision.ProposesMutation() {
				result.ActionsExecuted++
			}
		}
	}
}

// formatEntityError padroniza as linhas de erro do resultado do ciclo
func formatEntityError(outcome entityOutcome) string {
	label := "AdSet"
	if outcome.entityType == domain.EntityTypeAd {
		label = "Ad"
	}
	return fmt.Sprintf("%s %s: %v", label, outcome.entityID, outcome.err)
}

// budgetLedger controla o orçamento alocado por campanha dentro de um ciclo.
// Sem ele, vários conjuntos vencedores da mesma campanha poderiam ser
// escalados cada um até o teto individual e, somados, ultrapassar o orçamento
// total da campanha.
type budgetLedger struct {
	campaignRepo repository.CampaignRepository
	totals       map[string]float64
	allocated    map[string]float64
}

func newBudgetLedger(campaignRepo repository.CampaignRepository) *budgetLedger {
	return &budgetLedger{
		campaignRepo: campaignRepo,
		totals:       make(map[string]float64),
		allocated:    make(map[string]float64),
	}
}

// clampScale limita o novo orçamento da decisão ao saldo disponível da
// campanha no ciclo. Quando não há saldo, a mutação degrada para o orçamento
// atual e a decisão vira um registro sem efeito prático.
func (l *budgetLedger) clampScale(decision *domain.Decision, campaignID string, prevBudget float64) error {
	if !decision.ProposesMutation() || decision.Mutation.Field != domain.MutationFieldDailyBudget {
		return nil
	}

	total, err := l.campaignTotal(campaignID)
	if err != nil {
		return err
	}

	newBudget, err := strconv.ParseFloat(decision.Mutation.NewValue, 64)
	if err != nil {
		return fmt.Errorf("valor de orçamento inválido %q: %w", decision.Mutation.NewValue, err)
	}

	increase := newBudget - prevBudget
	if increase <= 0 {
		return nil
	}

	headroom := total - l.allocated[campaignID] - prevBudget
	if headroom < 0 {
		headroom = 0
	}

	if increase > headroom {
		increase = headroom
		newBudget = prevBudget + increase
		decision.Mutation.NewValue = fmt.Sprintf("%.2f", newBudget)

		logrus.WithFields(logrus.Fields{
			"entity_id":   decision.EntityID,
			"campaign_id": campaignID,
			"new_budget":  newBudget,
		}).Info("Escala de orçamento limitada pelo saldo da campanha no ciclo")
	}

	l.allocated[campaignID] += prevBudget + increase

	return nil
}

// campaignTotal busca e memoriza o orçamento total da campanha
func (l *budgetLedger) campaignTotal(campaignID string) (float64, error) {
	if total, ok := l.totals[campaignID]; ok {
		return total, nil
	}

	campaign, err := l.campaignRepo.GetByID(campaignID)
	if err != nil {
		return 0, fmt.Errorf("erro ao buscar campanha: %w", err)
	}

	if campaign == nil {
		return 0, ErrCampaignNotFound
	}

	l.totals[campaignID] = campaign.TotalBudget
	return campaign.TotalBudget, nil
}
