package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/database/postgres"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

const (
	adsTable   = "ads a"
	adsColumns = "a.id, a.account_id, a.ad_set_id, a.external_id, a.name, a.status, a.review_status, a.created_at, a.updated_at"
)

type AdRepository interface {
	GetByID(id string) (*domain.Ad, error)
	ListByStatus(status domain.EntityStatus, accountID *string) ([]*domain.Ad, error)
	UpdateStatus(id string, status domain.EntityStatus) error
}

type adRepository struct {
	conn *postgres.Connection
}

func NewAdRepository(conn *postgres.Connection) AdRepository {
	return &adRepository{
		conn: conn,
	}
}

func (r *adRepository) GetByID(id string) (*domain.Ad, error) {
	query, args, err := squirrel.
		Select(adsColumns).
		From(adsTable).
		Where(squirrel.Eq{"a.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	ad, err := r.scanAd(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear anúncio: %w", err)
	}

	return ad, nil
}

func (r *adRepository) ListByStatus(status domain.EntityStatus, accountID *string) ([]*domain.Ad, error) {
	builder := squirrel.
		Select(adsColumns).
		From(adsTable).
		Where(squirrel.Eq{"a.status": status})

	if accountID != nil && *accountID != "" {
		builder = builder.Where(squirrel.Eq{"a.account_id": *accountID})
	}

	query, args, err := builder.
		OrderBy("a.created_at ASC").
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

	ads := make([]*domain.Ad, 0)
	for rows.Next() {
		ad := &domain.Ad{}
		err := rows.Scan(
			&ad.ID,
			&ad.AccountID,
			&ad.AdSetID,
			&ad.ExternalID,
			&ad.Name,
			&ad.Status,
			&ad.ReviewStatus,
			&ad.CreatedAt,
			&ad.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear anúncios: %w", err)
		}
		ads = append(ads, ad)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return ads, nil
}

func (r *adRepository) UpdateStatus(id string, status domain.EntityStatus) error {
	query, args, err := squirrel.
		Update("ads").
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
		return fmt.Errorf("anúncio não encontrado: %s", id)
	}

	return nil
}

func (r *adRepository) scanAd(row *sql.Row) (*domain.Ad, error) {
	ad := &domain.Ad{}

	err := row.Scan(
		&ad.ID,
		&ad.AccountID,
		&ad.AdSetID,
		&ad.ExternalID,
		&ad.Name,
		&ad.Status,
		&ad.ReviewStatus,
		&ad.CreatedAt,
		&ad.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return ad, nil
}
