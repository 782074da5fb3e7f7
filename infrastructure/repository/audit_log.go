package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ads-optimizer-api/infrastructure/database/postgres"
	"github.com/vfg2006/ads-optimizer-api/internal/domain"
)

const (
	auditLogsTable   = "optimization_audit_logs al"
	auditLogsColumns = "al.id, al.entity_type, al.entity_id, al.action, al.reason, al.previous_value, al.new_value, al.performed_by, al.performed_at"
)

// AuditLogRepository é a trilha de auditoria do motor: apenas inserção e
// leitura, nunca atualização
type AuditLogRepository interface {
	Insert(entry *domain.AuditLogEntry) error
	List(filters domain.AuditLogFilters) ([]*domain.AuditLogEntry, error)
}

type auditLogRepository struct {
	conn *postgres.Connection
}

func NewAuditLogRepository(conn *postgres.Connection) AuditLogRepository {
	return &auditLogRepository{
		conn: conn,
	}
}

func (r *auditLogRepository) Insert(entry *domain.AuditLogEntry) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("optimization_audit_logs").
		Columns("id", "entity_type", "entity_id", "action", "reason", "previous_value", "new_value", "performed_by", "performed_at").
		Values(
			entry.ID,
			entry.EntityType,
			entry.EntityID,
			entry.Action,
			entry.Reason,
			entry.PreviousValue,
			entry.NewValue,
			entry.PerformedBy,
			entry.PerformedAt,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *auditLogRepository) List(filters domain.AuditLogFilters) ([]*domain.AuditLogEntry, error) {
	builder := squirrel.
		Select(auditLogsColumns).
		From(auditLogsTable)

	if filters.EntityType != nil {
		builder = builder.Where(squirrel.Eq{"al.entity_type": *filters.EntityType})
	}

	if filters.EntityID != nil && *filters.EntityID != "" {
		builder = builder.Where(squirrel.Eq{"al.entity_id": *filters.EntityID})
	}

	if filters.From != nil && !filters.From.IsZero() {
		builder = builder.Where(squirrel.GtOrEq{"al.performed_at": *filters.From})
	}

	if filters.To != nil && !filters.To.IsZero() {
		builder = builder.Where(squirrel.LtOrEq{"al.performed_at": *filters.To})
	}

	limit := filters.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	builder = builder.
		OrderBy("al.performed_at DESC").
		Limit(uint64(limit))

	if filters.Offset > 0 {
		builder = builder.Offset(uint64(filters.Offset))
	}

	query, args, err := builder.
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

	entries := make([]*domain.AuditLogEntry, 0)
	for rows.Next() {
		entry := &domain.AuditLogEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Action,
			&entry.Reason,
			&entry.PreviousValue,
			&entry.NewValue,
			&entry.PerformedBy,
			&entry.PerformedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear registro de auditoria: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return entries, nil
}
