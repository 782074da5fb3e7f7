package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-optimizer-api/internal/config"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
	"go.uber.org/mock/gomock"
)

// stubRunner registra as execuções do ciclo e devolve um resultado fixo
type stubRunner struct {
	mu      sync.Mutex
	runs    int
	result  *domain.OptimizationCycleResult
	err     error
	started chan struct{}
}

func (r *stubRunner) Run(ctx context.Context, accountID *string, cfg config.Optimization) (*domain.OptimizationCycleResult, error) {
	r.mu.Lock()
	r.runs++
	r.mu.Unlock()

	if r.started != nil {
		r.started <- struct{}{}
	}

	return r.result, r.err
}

func (r *stubRunner) runCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

func testSchedulerConfig() *config.Config {
	return &config.Config{
		Optimization: config.Optimization{
			TargetCPA:         50.0,
			TargetROAS:        2.0,
			MinDataDays:       3,
			MaxConcurrentJobs: 3,
			DryRun:            true,
			CronSchedule:      "0 7 * * *",
			CycleEnabled:      true,
		},
	}
}

func TestOptimizationCycleService_TriggerManualSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	insightRepo := mocks.NewMockEntityInsightRepository(ctrl)
	insightRepo.EXPECT().DeleteOlderThan(insightRetentionDays).Return(int64(0), nil)

	runner := &stubRunner{
		result:  domain.NewOptimizationCycleResult("cycle-1", time.Now()),
		started: make(chan struct{}, 1),
	}

	service := NewOptimizationCycleService(runner, insightRepo, testSchedulerConfig())

	service.TriggerManualSync()

	select {
	case <-runner.started:
	case <-time.After(2 * time.Second):
		t.Fatal("ciclo manual não foi disparado")
	}

	// Aguardar o runCycle liberar a flag de execução
	assert.Eventually(t, func() bool {
		status := service.GetStatus()
		return status["cycle_running"] == false
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, runner.runCount())

	status := service.GetStatus()
	assert.Equal(t, "cycle-1", status["last_cycle_id"])
}

func TestOptimizationCycleService_NaoSobrepoeCiclos(t *testing.T) {
	ctrl := gomock.NewController(t)
	insightRepo := mocks.NewMockEntityInsightRepository(ctrl)

	service := NewOptimizationCycleService(&stubRunner{}, insightRepo, testSchedulerConfig())

	// Simular ciclo em andamento
	service.cycleMutex.Lock()
	service.cycleRunning = true
	service.cycleMutex.Unlock()

	service.TriggerManualSync()

	// Nenhuma execução deve ter sido disparada
	time.Sleep(50 * time.Millisecond)
	status := service.GetStatus()
	assert.Equal(t, true, status["cycle_running"])
	_, hasResult := status["last_cycle_id"]
	assert.False(t, hasResult)
}

func TestOptimizationCycleService_StartDesabilitado(t *testing.T) {
	ctrl := gomock.NewController(t)
	insightRepo := mocks.NewMockEntityInsightRepository(ctrl)

	cfg := testSchedulerConfig()
	cfg.Optimization.CycleEnabled = false

	service := NewOptimizationCycleService(&stubRunner{}, insightRepo, cfg)

	err := service.Start(context.Background())

	require.NoError(t, err)

	status := service.GetStatus()
	assert.Equal(t, false, status["cycle_enabled"])
}

func TestOptimizationCycleService_GetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	insightRepo := mocks.NewMockEntityInsightRepository(ctrl)

	service := NewOptimizationCycleService(&stubRunner{}, insightRepo, testSchedulerConfig())

	status := service.GetStatus()

	assert.Equal(t, true, status["cycle_enabled"])
	assert.Equal(t, "0 7 * * *", status["cycle_cron"])
	assert.Equal(t, false, status["cycle_running"])
	assert.Equal(t, true, status["dry_run"])
	assert.Equal(t, false, status["auto_execute"])
}
