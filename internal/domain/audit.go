package domain

import (
	"time"
)

// AuditLogEntry é o registro imutável de uma decisão executada pelo motor.
// Registros são apenas inseridos, nunca alterados retroativamente.
type AuditLogEntry struct {
	ID            string     `json:"id"`
	EntityType    EntityType `json:"entity_type"`
	EntityID      string     `json:"entity_id"`
	Action        ActionType `json:"action"`
	Reason        string     `json:"reason"`
	PreviousValue *string    `json:"previous_value,omitempty"`
	NewValue      *string    `json:"new_value,omitempty"`
	PerformedBy   string     `json:"performed_by"`
	PerformedAt   time.Time  `json:"performed_at"`
}

// AuditLogFilters restringe a listagem da trilha de auditoria
type AuditLogFilters struct {
	EntityType *EntityType
	EntityID   *string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
