package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/repository"
	"github.com/vfg2006/ads-optimizer-api/internal/config"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

// Telemetria mais antiga que isso é removida após cada ciclo
const insightRetentionDays = 90

// CycleRunner abstrai o orquestrador de ciclos para o agendador
type CycleRunner interface {
	Run(ctx context.Context, accountID *string, cfg config.Optimization) (*domain.OptimizationCycleResult, error)
}

// OptimizationCycleService gerencia o agendamento e a execução dos ciclos de
// otimização automática
type OptimizationCycleService struct {
	scheduler         *gocron.Scheduler
	appConfig         *config.Config
	driver            CycleRunner
	insightRepo       repository.EntityInsightRepository
	cycleRunning      bool
	cycleMutex        sync.Mutex
	lastCycleStarted  time.Time
	lastCycleFinished time.Time
	lastResult        *domain.OptimizationCycleResult
}

// NewOptimizationCycleService cria uma nova instância do serviço de ciclos
func NewOptimizationCycleService(
	driver CycleRunner,
	insightRepo repository.EntityInsightRepository,
	appConfig *config.Config,
) *OptimizationCycleService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule":       appConfig.Optimization.CronSchedule,
		"cycle_enabled":       appConfig.Optimization.CycleEnabled,
		"dry_run":             appConfig.Optimization.DryRun,
		"auto_execute":        appConfig.Optimization.AutoExecute,
		"max_concurrent_jobs": appConfig.Optimization.MaxConcurrentJobs,
	}).Info("Configuração do agendador de ciclos de otimização carregada")

	return &OptimizationCycleService{
		scheduler:   gocron.NewScheduler(time.Local),
		appConfig:   appConfig,
		driver:      driver,
		insightRepo: insightRepo,
	}
}

// Start inicia o agendador
func (s *OptimizationCycleService) Start(ctx context.Context) error {
	if !s.appConfig.Optimization.CycleEnabled {
		logrus.Info("Ciclo de otimização automática desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.appConfig.Optimization.CronSchedule).
		Info("Iniciando agendador de ciclos de otimização")

	_, err := s.scheduler.Cron(s.appConfig.Optimization.CronSchedule).Do(func() {
		s.runCycle(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar ciclo de otimização: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de ciclos de otimização")
		s.scheduler.Stop()
	}()

	return nil
}

// runCycle executa um ciclo completo, garantindo uma única execução por vez
func (s *OptimizationCycleService) runCycle(ctx context.Context) {
	s.cycleMutex.Lock()
	if s.cycleRunning {
		s.cycleMutex.Unlock()
		logrus.Info("Ciclo de otimização já em andamento, ignorando")
		return
	}
	s.cycleRunning = true
	s.lastCycleStarted = time.Now()
	s.cycleMutex.Unlock()

	defer func() {
		s.cycleMutex.Lock()
		s.cycleRunning = false
		s.lastCycleFinished = time.Now()
		s.cycleMutex.Unlock()
	}()

	result, err := s.driver.Run(ctx, nil, s.appConfig.Optimization)
	if err != nil {
		logrus.WithError(err).Error("Ciclo de otimização abortado")
		return
	}

	s.cycleMutex.Lock()
	s.lastResult = result
	s.cycleMutex.Unlock()

	s.pruneOldInsights()
}

// pruneOldInsights remove a telemetria fora da janela de retenção
func (s *OptimizationCycleService) pruneOldInsights() {
	removed, err := s.insightRepo.DeleteOlderThan(insightRetentionDays)
	if err != nil {
		logrus.WithError(err).Error("Erro ao remover telemetria antiga")
		return
	}

	if removed > 0 {
		logrus.WithFields(logrus.Fields{
			"removed":        removed,
			"retention_days": insightRetentionDays,
		}).Info("Telemetria antiga removida")
	}
}

// TriggerManualSync inicia manualmente um ciclo de otimização
func (s *OptimizationCycleService) TriggerManualSync() {
	s.cycleMutex.Lock()
	if s.cycleRunning {
		s.cycleMutex.Unlock()
		logrus.Info("Ciclo de otimização já em andamento, ignorando solicitação manual")
		return
	}
	s.cycleMutex.Unlock()

	logrus.Info("Iniciando ciclo de otimização manual")
	go s.runCycle(context.Background())
}

// CycleRunning indica se um ciclo está em andamento neste momento
func (s *OptimizationCycleService) CycleRunning() bool {
	s.cycleMutex.Lock()
	defer s.cycleMutex.Unlock()
	return s.cycleRunning
}

// GetStatus retorna o status atual do agendador
func (s *OptimizationCycleService) GetStatus() map[string]any {
	s.cycleMutex.Lock()
	defer s.cycleMutex.Unlock()

	status := map[string]any{
		"cycle_enabled":           s.appConfig.Optimization.CycleEnabled,
		"cycle_cron":              s.appConfig.Optimization.CronSchedule,
		"cycle_running":           s.cycleRunning,
		"dry_run":                 s.appConfig.Optimization.DryRun,
		"auto_execute":            s.appConfig.Optimization.AutoExecute,
		"cycle_max_concurrent":    s.appConfig.Optimization.MaxConcurrentJobs,
		"retention_days":          insightRetentionDays,
		"last_cycle_started_at":   s.lastCycleStarted,
		"last_cycle_completed_at": s.lastCycleFinished,
	}

	if s.lastResult != nil {
		status["last_cycle_id"] = s.lastResult.CycleID
		status["last_cycle_decisions"] = s.lastResult.DecisionsAnalyzed
		status["last_cycle_executed"] = s.lastResult.ActionsExecuted
		status["last_cycle_errors"] = len(s.lastResult.Errors)
	}

	return status
}
