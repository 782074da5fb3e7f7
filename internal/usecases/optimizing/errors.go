package optimizing

import (
	"errors"
	"fmt"

	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

// Erros do motor de otimização
var (
	// ErrEntityNotFound indica entidade ausente ou fora do estado ACTIVE.
	// Dentro de um ciclo isso significa "sem decisão"; na API direta de
	// análise de uma única entidade, vira um erro tipado para o chamador.
	ErrEntityNotFound = errors.New("entity not found or not active")

	// ErrCampaignNotFound indica que a campanha dona do conjunto não existe
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrAnalysisTimeout indica que a análise de uma entidade excedeu o
	// tempo limite configurado
	ErrAnalysisTimeout = errors.New("entity analysis timed out")
)

// EntityError agrega o contexto da entidade ao erro subjacente
type EntityError struct {
	Err        error
	EntityType domain.EntityType
	EntityID   string
	Details    string
}

// Error implementa a interface error
func (e *EntityError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.EntityType, e.EntityID, e.Err.Error(), e.Details)
	}
	return fmt.Sprintf("%s %s: %s", e.EntityType, e.EntityID, e.Err.Error())
}

// Unwrap retorna o erro subjacente
func (e *EntityError) Unwrap() error {
	return e.Err
}

// NewEntityError cria um novo EntityError
func NewEntityError(err error, entityType domain.EntityType, entityID, details string) *EntityError {
	return &EntityError{
		Err:        err,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
}

// IsNotFound indica se o erro corresponde a entidade ausente ou inativa
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}
