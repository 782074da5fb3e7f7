package meta

import (
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-optimizer-api/internal/config"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

// EntityMutator define a interface para propagar mutações de entidades ao Meta
type EntityMutator interface {
	// PauseEntity pausa a veiculação de um conjunto de anúncios ou anúncio
	PauseEntity(entityType domain.EntityType, externalID string) error

	// UpdateAdSetBudget altera o orçamento diário de um conjunto de anúncios
	UpdateAdSetBudget(externalID string, dailyBudget float64) error
}

type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

func (s *MetaIntegrator) PauseEntity(entityType domain.EntityType, externalID string) error {
	err := s.Client.UpdateEntityStatus(externalID, domain.EntityStatusPaused)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"entity_type": entityType,
			"external_id": externalID,
			"error":       err.Error(),
		}).Error("meta: falha ao pausar entidade no Graph API")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"entity_type": entityType,
		"external_id": externalID,
	}).Info("meta: entidade pausada no Graph API")

	return nil
}

func (s *MetaIntegrator) UpdateAdSetBudget(externalID string, dailyBudget float64) error {
	err := s.Client.UpdateAdSetDailyBudget(externalID, dailyBudget)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"external_id":  externalID,
			"daily_budget": dailyBudget,
			"error":        err.Error(),
		}).Error("meta: falha ao atualizar orçamento no Graph API")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"external_id":  externalID,
		"daily_budget": dailyBudget,
	}).Info("meta: orçamento atualizado no Graph API")

	return nil
}
