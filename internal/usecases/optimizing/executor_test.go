package optimizing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metamocks "github.com/vfg2006/ads-optimizer-api/infrastructure/integrator/meta/mocks"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func newExecutorWithMocks(t *testing.T) (*Executor, *mocks.MockAdSetRepository, *mocks.MockAdRepository, *mocks.MockAuditLogRepository, *metamocks.MockEntityMutator) {
	ctrl := gomock.NewController(t)

	adSetRepo := mocks.NewMockAdSetRepository(ctrl)
	adRepo := mocks.NewMockAdRepository(ctrl)
	auditRepo := mocks.NewMockAuditLogRepository(ctrl)
	mutator := metamocks.NewMockEntityMutator(ctrl)

	executor := NewExecutor(adSetRepo, adRepo, auditRepo, mutator)

	return executor, adSetRepo, adRepo, auditRepo, mutator
}

func pauseDecision() *domain.Decision {
	return &domain.Decision{
		EntityType: domain.EntityTypeAdSet,
		EntityID:   "ADSET001",
		EntityName: "Conjunto Remarketing",
		Action:     domain.ActionPause,
		Reason:     "ROAS de 0.50 abaixo do mínimo de 1.0",
		Priority:   domain.PriorityHigh,
		Confidence: 0.85,
		Mutation: &domain.DecisionMutation{
			Field:         domain.MutationFieldStatus,
			PreviousValue: string(domain.EntityStatusActive),
			NewValue:      string(domain.EntityStatusPaused),
		},
	}
}

func scaleDecision() *domain.Decision {
	return &domain.Decision{
		EntityType: domain.EntityTypeAdSet,
		EntityID:   "ADSET001",
		EntityName: "Conjunto Remarketing",
		Action:     domain.ActionScale,
		Reason:     "Vencedor com ROAS de 4.00",
		Priority:   domain.PriorityMedium,
		Confidence: 0.8,
		Mutation: &domain.DecisionMutation{
			Field:         domain.MutationFieldDailyBudget,
			PreviousValue: "100.00",
			NewValue:      "120.00",
		},
	}
}

func TestExecutor_Execute_PausaConjunto(t *testing.T) {
	executor, adSetRepo, _, auditRepo, _ := newExecutorWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)
	adSetRepo.EXPECT().UpdateStatus("ADSET001", domain.EntityStatusPaused).Return(nil)

	auditRepo.EXPECT().Insert(gomock.Any()).DoAndReturn(func(entry *domain.AuditLogEntry) error {
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, domain.EntityTypeAdSet, entry.EntityType)
		assert.Equal(t, "ADSET001", entry.EntityID)
		assert.Equal(t, domain.ActionPause, entry.Action)
		assert.Equal(t, "optimization-engine", entry.PerformedBy)
		require.NotNil(t, entry.PreviousValue)
		require.NotNil(t, entry.NewValue)
		assert.Equal(t, "ACTIVE", *entry.PreviousValue)
		assert.Equal(t, "PAUSED", *entry.NewValue)
		return nil
	})

	success := executor.Execute(context.Background(), pauseDecision(), PerformedBySystem, testOptimizationConfig())

	assert.True(t, success)
}

func TestExecutor_Execute_FalhaNaMutacaoAindaAudita(t *testing.T) {
	executor, adSetRepo, _, auditRepo, _ := newExecutorWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)
	adSetRepo.EXPECT().
		UpdateStatus("ADSET001", domain.EntityStatusPaused).
		Return(errors.New("conexão perdida"))

	auditRepo.EXPECT().Insert(gomock.Any()).DoAndReturn(func(entry *domain.AuditLogEntry) error {
		assert.Contains(t, entry.Reason, "falha na execução")
		assert.Contains(t, entry.Reason, "conexão perdida")
		return nil
	})

	success := executor.Execute(context.Background(), pauseDecision(), PerformedBySystem, testOptimizationConfig())

	assert.False(t, success)
}

func TestExecutor_Execute_EscalaOrcamento(t *testing.T) {
	executor, adSetRepo, _, auditRepo, _ := newExecutorWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)
	adSetRepo.EXPECT().UpdateDailyBudget("ADSET001", 120.0).Return(nil)
	auditRepo.EXPECT().Insert(gomock.Any()).Return(nil)

	success := executor.Execute(context.Background(), scaleDecision(), PerformedBySystem, testOptimizationConfig())

	assert.True(t, success)
}

func TestExecutor_Execute_OrcamentoInvalido(t *testing.T) {
	executor, _, _, auditRepo, _ := newExecutorWithMocks(t)

	decision := scaleDecision()
	decision.Mutation.NewValue = "não-numérico"

	auditRepo.EXPECT().Insert(gomock.Any()).Return(nil)

	success := executor.Execute(context.Background(), decision, PerformedBySystem, testOptimizationConfig())

	assert.False(t, success)
}

func TestExecutor_Execute_DecisaoSemMutacaoApenasAudita(t *testing.T) {
	executor, _, _, auditRepo, _ := newExecutorWithMocks(t)

	decision := &domain.Decision{
		EntityType: domain.EntityTypeAdSet,
		EntityID:   "ADSET001",
		Action:     domain.ActionMonitor,
		Reason:     "Em fase de aprendizado",
		Priority:   domain.PriorityLow,
	}

	auditRepo.EXPECT().Insert(gomock.Any()).DoAndReturn(func(entry *domain.AuditLogEntry) error {
		assert.Equal(t, domain.ActionMonitor, entry.Action)
		assert.Nil(t, entry.PreviousValue)
		assert.Nil(t, entry.NewValue)
		return nil
	})

	success := executor.Execute(context.Background(), decision, PerformedBySystem, testOptimizationConfig())

	assert.True(t, success)
}

func TestExecutor_Execute_PropagaPausaParaPlataforma(t *testing.T) {
	executor, adSetRepo, _, auditRepo, mutator := newExecutorWithMocks(t)

	cfg := testOptimizationConfig()
	cfg.PropagateToMeta = true

	adSet := activeAdSet(10)
	adSetRepo.EXPECT().GetByID("ADSET001").Return(adSet, nil)
	adSetRepo.EXPECT().UpdateStatus("ADSET001", domain.EntityStatusPaused).Return(nil)
	mutator.EXPECT().PauseEntity(domain.EntityTypeAdSet, adSet.ExternalID).Return(nil)
	auditRepo.EXPECT().Insert(gomock.Any()).Return(nil)

	success := executor.Execute(context.Background(), pauseDecision(), PerformedBySystem, cfg)

	assert.True(t, success)
}

func TestExecutor_Execute_PropagaOrcamentoParaPlataforma(t *testing.T) {
	executor, adSetRepo, _, auditRepo, mutator := newExecutorWithMocks(t)

	cfg := testOptimizationConfig()
	cfg.PropagateToMeta = true

	adSet := activeAdSet(10)
	adSetRepo.EXPECT().GetByID("ADSET001").Return(adSet, nil)
	adSetRepo.EXPECT().UpdateDailyBudget("ADSET001", 120.0).Return(nil)
	mutator.EXPECT().UpdateAdSetBudget(adSet.ExternalID, 120.0).Return(nil)
	auditRepo.EXPECT().Insert(gomock.Any()).Return(nil)

	success := executor.Execute(context.Background(), scaleDecision(), PerformedBySystem, cfg)

	assert.True(t, success)
}

func TestExecutor_Execute_PausaAnuncio(t *testing.T) {
	executor, _, adRepo, auditRepo, _ := newExecutorWithMocks(t)

	decision := pauseDecision()
	decision.EntityType = domain.EntityTypeAd
	decision.EntityID = "AD001"

	adRepo.EXPECT().GetByID("AD001").Return(activeAd(5), nil)
	adRepo.EXPECT().UpdateStatus("AD001", domain.EntityStatusPaused).Return(nil)
	auditRepo.EXPECT().Insert(gomock.Any()).Return(nil)

	success := executor.Execute(context.Background(), decision, PerformedBySystem, testOptimizationConfig())

	assert.True(t, success)
}

func TestExecutor_Execute_FalhaDeAuditoriaNaoMudaResultado(t *testing.T) {
	executor, adSetRepo, _, auditRepo, _ := newExecutorWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)
	adSetRepo.EXPECT().UpdateStatus("ADSET001", domain.EntityStatusPaused).Return(nil)
	auditRepo.EXPECT().Insert(gomock.Any()).Return(errors.New("tabela indisponível"))

	success := executor.Execute(context.Background(), pauseDecision(), PerformedBySystem, testOptimizationConfig())

	assert.True(t, success)
}

func TestExecutor_Execute_AtribuiExecutorInformado(t *testing.T) {
	executor, adSetRepo, _, auditRepo, _ := newExecutorWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)
	adSetRepo.EXPECT().UpdateStatus("ADSET001", domain.EntityStatusPaused).Return(nil)

	auditRepo.EXPECT().Insert(gomock.Any()).DoAndReturn(func(entry *domain.AuditLogEntry) error {
		assert.Equal(t, "gestor@empresa.com", entry.PerformedBy)
		return nil
	})

	success := executor.Execute(context.Background(), pauseDecision(), "gestor@empresa.com", testOptimizationConfig())

	assert.True(t, success)
}

func TestExecutor_Execute_ExecutorVazioCaiNoSistema(t *testing.T) {
	executor, adSetRepo, _, auditRepo, _ := newExecutorWithMocks(t)

	adSetRepo.EXPECT().GetByID("ADSET001").Return(activeAdSet(10), nil)
	adSetRepo.EXPECT().UpdateStatus("ADSET001", domain.EntityStatusPaused).Return(nil)

	auditRepo.EXPECT().Insert(gomock.Any()).DoAndReturn(func(entry *domain.AuditLogEntry) error {
		assert.Equal(t, PerformedBySystem, entry.PerformedBy)
		return nil
	})

	success := executor.Execute(context.Background(), pauseDecision(), "", testOptimizationConfig())

	assert.True(t, success)
}

func TestExecutor_Execute_DecisaoNula(t *testing.T) {
	executor, _, _, _, _ := newExecutorWithMocks(t)

	success := executor.Execute(context.Background(), nil, PerformedBySystem, testOptimizationConfig())

	assert.False(t, success)
}
