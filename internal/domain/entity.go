package domain

import (
	"time"
)

// EntityType identifica o nível da entidade de anúncio analisada
type EntityType string

const (
	EntityTypeAdSet EntityType = "AD_SET"
	EntityTypeAd    EntityType = "AD"
)

// EntityStatus representa o status de veiculação de uma entidade
type EntityStatus string

const (
	EntityStatusActive   EntityStatus = "ACTIVE"
	EntityStatusPaused   EntityStatus = "PAUSED"
	EntityStatusArchived EntityStatus = "ARCHIVED"
)

// LearningStatus representa a fase de aprendizado do algoritmo de entrega
type LearningStatus string

const (
	LearningStatusLearning LearningStatus = "LEARNING"
	LearningStatusLimited  LearningStatus = "LEARNING_LIMITED"
	LearningStatusComplete LearningStatus = "COMPLETE"
)

// ReviewStatus representa o resultado da revisão de um anúncio pela plataforma
type ReviewStatus string

const (
	ReviewStatusApproved    ReviewStatus = "APPROVED"
	ReviewStatusDisapproved ReviewStatus = "DISAPPROVED"
	ReviewStatusPending     ReviewStatus = "PENDING"
)

// AdSet representa um conjunto de anúncios com orçamento próprio
type AdSet struct {
	ID                 string         `json:"id"`
	AccountID          string         `json:"account_id"`
	CampaignID         string         `json:"campaign_id"`
	ExternalID         string         `json:"external_id"`
	Name               string         `json:"name"`
	Status             EntityStatus   `json:"status"`
	DailyBudget        float64        `json:"daily_budget"`
	LearningStatus     LearningStatus `json:"learning_status"`
	OptimizationEvents int            `json:"optimization_events"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// AgeDays retorna a idade do conjunto em dias, nunca negativa
func (a *AdSet) AgeDays(now time.Time) int {
	return ageDays(a.CreatedAt, now)
}

// Ad representa um anúncio individual dentro de um conjunto
type Ad struct {
	ID           string       `json:"id"`
	AccountID    string       `json:"account_id"`
	AdSetID      string       `json:"ad_set_id"`
	ExternalID   string       `json:"external_id"`
	Name         string       `json:"name"`
	Status       EntityStatus `json:"status"`
	ReviewStatus ReviewStatus `json:"review_status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// AgeDays retorna a idade do anúncio em dias, nunca negativa
func (a *Ad) AgeDays(now time.Time) int {
	return ageDays(a.CreatedAt, now)
}

// IsDisapproved indica se o anúncio foi reprovado na revisão
func (a *Ad) IsDisapproved() bool {
	return a.ReviewStatus == ReviewStatusDisapproved
}

// Campaign representa a campanha que agrega conjuntos de anúncios.
// O TotalBudget é a referência para o teto de escalonamento de orçamento.
type Campaign struct {
	ID          string       `json:"id"`
	AccountID   string       `json:"account_id"`
	ExternalID  string       `json:"external_id"`
	Name        string       `json:"name"`
	Status      EntityStatus `json:"status"`
	TotalBudget float64      `json:"total_budget"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func ageDays(createdAt, now time.Time) int {
	if createdAt.IsZero() || createdAt.After(now) {
		return 0
	}
	return int(now.Sub(createdAt).Hours() / 24)
}
