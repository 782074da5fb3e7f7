package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/database/postgres"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

const (
	adSetsTable   = "ad_sets s"
	adSetsColumns = "s.id, s.account_id, s.campaign_id, s.external_id, s.name, s.status, s.daily_budget, s.learning_status, s.optimization_events, s.created_at, s.updated_at"
)

type AdSetRepository interface {
	GetByID(id string) (*domain.AdSet, error)
	ListByStatus(status domain.EntityStatus, accountID *string) ([]*domain.AdSet, error)
	UpdateStatus(id string, status domain.EntityStatus) error
	UpdateDailyBudget(id string, dailyBudget float64) error
}

type adSetRepository struct {
	conn *postgres.Connection
}

func NewAdSetRepository(conn *postgres.Connection) AdSetRepository {
	return &adSetRepository{
		conn: conn,
	}
}

func (r *adSetRepository) GetByID(id string) (*domain.AdSet, error) {
	query, args, err := squirrel.
		Select(adSetsColumns).
		From(adSetsTable).
		Where(squirrel.Eq{"s.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	adSet, err := r.scanAdSet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear conjunto de anúncios: %w", err)
	}

	return adSet, nil
}

func (r *adSetRepository) ListByStatus(status domain.EntityStatus, accountID *string) ([]*domain.AdSet, error) {
	builder := squirrel.
		Select(adSetsColumns).
		From(adSetsTable).
		Where(squirrel.Eq{"s.status": status})

	if accountID != nil && *accountID != "" {
		builder = builder.Where(squirrel.Eq{"s.account_id": *accountID})
	}

	query, args, err := builder.
		OrderBy("s.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	adSets := make([]*domain.AdSet, 0)
	for rows.Next() {
		adSet := &domain.AdSet{}
		err := rows.Scan(
			&adSet.ID,
			&adSet.AccountID,
			&adSet.CampaignID,
			&adSet.ExternalID,
			&adSet.Name,
			&adSet.Status,
			&adSet.DailyBudget,
			&adSet.LearningStatus,
			&adSet.OptimizationEvents,
			&adSet.CreatedAt,
			&adSet.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear conjuntos de anúncios: %w", err)
		}
		adSets = append(adSets, adSet)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return adSets, nil
}

func (r *adSetRepository) UpdateStatus(id string, status domain.EntityStatus) error {
	query, args, err := squirrel.
		Update("ad_sets").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("conjunto de anúncios não encontrado: %s", id)
	}

	return nil
}

func (r *adSetRepository) UpdateDailyBudget(id string, dailyBudget float64) error {
	query, args, err := squirrel.
		Update("ad_sets").
		Set("daily_budget", dailyBudget).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("conjunto de anúncios não encontrado: %s", id)
	}

	return nil
}

func (r *adSetRepository) scanAdSet(row *sql.Row) (*domain.AdSet, error) {
	adSet := &domain.AdSet{}

	err := row.Scan(
		&adSet.ID,
		&adSet.AccountID,
		&adSet.CampaignID,
		&adSet.ExternalID,
		&adSet.Name,
		&adSet.Status,
		&adSet.DailyBudget,
		&adSet.LearningStatus,
		&adSet.OptimizationEvents,
		&adSet.CreatedAt,
		&adSet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return adSet, nil
}
