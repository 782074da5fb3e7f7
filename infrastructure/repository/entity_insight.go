package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/database/postgres"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

const (
	entityInsightsTable   = "entity_insights ei"
	entityInsightsColumns = "ei.id, ei.entity_type, ei.entity_id, ei.date, ei.impressions, ei.clicks, ei.conversions, ei.spend, ei.revenue, ei.frequency, ei.created_at, ei.updated_at"
)

type EntityInsightRepository interface {
	GetByEntityAndDateRange(entityType domain.EntityType, entityID string, startDate, endDate time.Time) ([]*domain.EntityInsightEntry, error)
	SaveOrUpdate(entry *domain.EntityInsightEntry) error
	DeleteOlderThan(days int) (int64, error)
}

type entityInsightRepository struct {
	conn *postgres.Connection
}

func NewEntityInsightRepository(conn *postgres.Connection) EntityInsightRepository {
	return &entityInsightRepository{
		conn: conn,
	}
}

func (r *entityInsightRepository) GetByEntityAndDateRange(
	entityType domain.EntityType,
	entityID string,
	startDate, endDate time.Time,
) ([]*domain.EntityInsightEntry, error) {
	query, args, err := squirrel.
		Select(entityInsightsColumns).
		From(entityInsightsTable).
		Where(squirrel.Eq{"ei.entity_type": entityType, "ei.entity_id": entityID}).
		Where(squirrel.GtOrEq{"ei.date": startDate.Format("2006-01-02")}).
		Where(squirrel.LtOrEq{"ei.date": endDate.Format("2006-01-02")}).
		OrderBy("ei.date ASC").
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

	entries := make([]*domain.EntityInsightEntry, 0)
	for rows.Next() {
		entry := &domain.EntityInsightEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Date,
			&entry.Impressions,
			&entry.Clicks,
			&entry.Conversions,
			&entry.Spend,
			&entry.Revenue,
			&entry.Frequency,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear telemetria: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entries, nil
}

func (r *entityInsightRepository) SaveOrUpdate(entry *domain.EntityInsightEntry) error {
	query := squirrel.StatementBuilder.
		Insert("entity_insights").
		Columns("entity_type", "entity_id", "date", "impressions", "clicks", "conversions", "spend", "revenue", "frequency").
		Values(
			entry.EntityType,
			entry.EntityID,
			entry.Date.Format("2006-01-02"),
			entry.Impressions,
			entry.Clicks,
			entry.Conversions,
			entry.Spend,
			entry.Revenue,
			entry.Frequency,
		).
		Suffix(`
			ON CONFLICT (entity_type, entity_id, date) DO UPDATE SET
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				conversions = EXCLUDED.conversions,
				spend = EXCLUDED.spend,
				revenue = EXCLUDED.revenue,
				frequency = EXCLUDED.frequency,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *entityInsightRepository) DeleteOlderThan(days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	query, args, err := squirrel.
		Delete("entity_insights").
		Where(squirrel.Lt{"date": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}
