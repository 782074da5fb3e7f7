package domain

import (
	"time"
)

// OptimizationCycleResult resume uma execução completa do ciclo de otimização.
// ActionsByType sempre contém as seis ações como chaves, com zero como padrão.
type OptimizationCycleResult struct {
	CycleID           string             `json:"cycle_id"`
	StartedAt         time.Time          `json:"started_at"`
	CompletedAt       time.Time          `json:"completed_at"`
	DecisionsAnalyzed int                `json:"decisions_analyzed"`
	ActionsExecuted   int                `json:"actions_executed"`
	ActionsByType     map[ActionType]int `json:"actions_by_type"`
	Errors            []string           `json:"errors"`
	DryRun            bool               `json:"dry_run"`
}

// NewOptimizationCycleResult cria um resultado de ciclo com todos os
// contadores de ação inicializados
func NewOptimizationCycleResult(cycleID string, startedAt time.Time) *OptimizationCycleResult {
	actions := make(map[ActionType]int, len(AllActionTypes()))
	for _, action := range AllActionTypes() {
		actions[action] = 0
	}

	return &OptimizationCycleResult{
		CycleID:       cycleID,
		StartedAt:     startedAt,
		ActionsByType: actions,
		Errors:        make([]string, 0),
	}
}
