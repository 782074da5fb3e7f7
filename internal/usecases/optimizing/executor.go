package optimizing

import (
	"context"
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/repository"
	"github.com/vfg2006/ads-optimizer-api/internal/config"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

// Identificador gravado na trilha de auditoria para execuções automáticas.
// Execuções manuais informam o usuário que as disparou.
const PerformedBySystem = "optimization-engine"

// Executor aplica as mutações propostas pelas decisões e registra cada
// execução na trilha de auditoria. Nunca propaga erro ao chamador: falhas
// viram log e retorno false, para que uma execução malsucedida jamais
// derrube o ciclo.
type Executor struct {
	adSetRepo repository.AdSetRepository
	adRepo    repository.AdRepository
	auditRepo repository.AuditLogRepository
	mutator   meta.EntityMutator
}

// NewExecutor cria um novo executor de decisões
func NewExecutor(
	adSetRepo repository.AdSetRepository,
	adRepo repository.AdRepository,
	auditRepo repository.AuditLogRepository,
	mutator meta.EntityMutator,
) *Executor {
	return &Executor{
		adSetRepo: adSetRepo,
		adRepo:    adRepo,
		auditRepo: auditRepo,
		mutator:   mutator,
	}
}

// Execute aplica a mutação da decisão (quando houver) e grava o registro de
// auditoria incondicionalmente, com sucesso ou falha, atribuído a performedBy.
// Retorna true apenas quando a mutação foi aplicada com sucesso; decisões sem
// mutação são auditadas e contam como sucesso.
func (e *Executor) Execute(ctx context.Context, decision *domain.Decision, performedBy string, cfg config.Optimization) bool {
	if decision == nil {
		return false
	}

	if performedBy == "" {
		performedBy = PerformedBySystem
	}

	success := true
	reason := decision.Reason

	if decision.ProposesMutation() {
		if err := e.applyMutation(ctx, decision, cfg); err != nil {
			success = false
			reason = fmt.Sprintf("%s [falha na execução: %v]", decision.Reason, err)

			logrus.WithFields(logrus.Fields{
				"entity_type": decision.EntityType,
				"entity_id":   decision.EntityID,
				"action":      decision.Action,
			}).WithError(err).Error("Falha ao executar decisão de otimização")
		}
	}

	e.writeAuditLog(decision, reason, performedBy)

	return success
}

// applyMutation aplica a mutação no armazenamento local e, quando habilitado,
// propaga a alteração para a plataforma de anúncios
func (e *Executor) applyMutation(ctx context.Context, decision *domain.Decision, cfg config.Optimization) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch decision.Mutation.Field {
	case domain.MutationFieldStatus:
		return e.applyStatusMutation(decision, cfg)
	case domain.MutationFieldDailyBudget:
		return e.applyBudgetMutation(decision, cfg)
	default:
		return fmt.Errorf("campo de mutação desconhecido: %s", decision.Mutation.Field)
	}
}

func (e *Executor) applyStatusMutation(decision *domain.Decision, cfg config.Optimization) error {
	newStatus := domain.EntityStatus(decision.Mutation.NewValue)

	var externalID string

	switch decision.EntityType {
	case domain.EntityTypeAdSet:
		adSet, err := e.adSetRepo.GetByID(decision.EntityID)
		if err != nil {
			return fmt.Errorf("erro ao buscar conjunto de anúncios: %w", err)
		}
		if adSet == nil {
			return NewEntityError(ErrEntityNotFound, decision.EntityType, decision.EntityID, "")
		}
		externalID = adSet.ExternalID

		if err := e.adSetRepo.UpdateStatus(decision.EntityID, newStatus); err != nil {
			return fmt.Errorf("erro ao atualizar status do conjunto: %w", err)
		}
	case domain.EntityTypeAd:
		ad, err := e.adRepo.GetByID(decision.EntityID)
		if err != nil {
			return fmt.Errorf("erro ao buscar anúncio: %w", err)
		}
		if ad == nil {
			return NewEntityError(ErrEntityNotFound, decision.EntityType, decision.EntityID, "")
		}
		externalID = ad.ExternalID

		if err := e.adRepo.UpdateStatus(decision.EntityID, newStatus); err != nil {
			return fmt.Errorf("erro ao atualizar status do anúncio: %w", err)
		}
	default:
		return fmt.Errorf("tipo de entidade desconhecido: %s", decision.EntityType)
	}

	if cfg.PropagateToMeta && newStatus == domain.EntityStatusPaused {
		if err := e.mutator.PauseEntity(decision.EntityType, externalID); err != nil {
			return fmt.Errorf("erro ao propagar pausa para a plataforma: %w", err)
		}
	}

	return nil
}

func (e *Executor) applyBudgetMutation(decision *domain.Decision, cfg config.Optimization) error {
	if decision.EntityType != domain.EntityTypeAdSet {
		return fmt.Errorf("mutação de orçamento não suportada para entidade %s", decision.EntityType)
	}

	newBudget, err := strconv.ParseFloat(decision.Mutation.NewValue, 64)
	if err != nil {
		return fmt.Errorf("valor de orçamento inválido %q: %w", decision.Mutation.NewValue, err)
	}

	adSet, err := e.adSetRepo.GetByID(decision.EntityID)
	if err != nil {
		return fmt.Errorf("erro ao buscar conjunto de anúncios: %w", err)
	}
	if adSet == nil {
		return NewEntityError(ErrEntityNotFound, decision.EntityType, decision.EntityID, "")
	}

	if err := e.adSetRepo.UpdateDailyBudget(decision.EntityID, newBudget); err != nil {
		return fmt.Errorf("erro ao atualizar orçamento do conjunto: %w", err)
	}

	if cfg.PropagateToMeta {
		if err := e.mutator.UpdateAdSetBudget(adSet.ExternalID, newBudget); err != nil {
			return fmt.Errorf("erro ao propagar orçamento para a plataforma: %w", err)
		}
	}

	return nil
}

// writeAuditLog grava o registro da execução. Uma falha de auditoria é
// registrada em log mas não altera o resultado da execução.
func (e *Executor) writeAuditLog(decision *domain.Decision, reason, performedBy string) {
	id, err := gonanoid.New()
	if err != nil {
		logrus.WithError(err).Error("Falha ao gerar ID do registro de auditoria")
		return
	}

	entry := &domain.AuditLogEntry{
		ID:          id,
		EntityType:  decision.EntityType,
		EntityID:    decision.EntityID,
		Action:      decision.Action,
		Reason:      reason,
		PerformedBy: performedBy,
		PerformedAt: time.Now(),
	}

	if decision.ProposesMutation() {
		previous := decision.Mutation.PreviousValue
		next := decision.Mutation.NewValue
		entry.PreviousValue = &previous
		entry.NewValue = &next
	}

	if err := e.auditRepo.Insert(entry); err != nil {
		logrus.WithFields(logrus.Fields{
			"entity_type": decision.EntityType,
			"entity_id":   decision.EntityID,
			"action":      decision.Action,
		}).WithError(err).Error("Falha ao gravar registro de auditoria")
	}
}
