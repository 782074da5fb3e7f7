package domain

// ActionType enumera as ações que o motor de otimização pode propor
type ActionType string

const (
	ActionPause           ActionType = "PAUSE"
	ActionScale           ActionType = "SCALE"
	ActionReduceBudget    ActionType = "REDUCE_BUDGET"
	ActionActivate        ActionType = "ACTIVATE"
	ActionMonitor         ActionType = "MONITOR"
	ActionRefreshCreative ActionType = "REFRESH_CREATIVE"
)

// AllActionTypes retorna todas as ações conhecidas, na ordem de exibição.
// Usado para inicializar os contadores do resultado de ciclo com todas as
// chaves presentes.
func AllActionTypes() []ActionType {
	return []ActionType{
		ActionPause,
		ActionScale,
		ActionReduceBudget,
		ActionActivate,
		ActionMonitor,
		ActionRefreshCreative,
	}
}

// DecisionPriority indica a urgência de uma decisão
type DecisionPriority string

const (
	PriorityHigh   DecisionPriority = "HIGH"
	PriorityMedium DecisionPriority = "MEDIUM"
	PriorityLow    DecisionPriority = "LOW"
)

// DecisionMutation descreve a mutação proposta por uma decisão: o campo da
// entidade e os valores antes/depois já serializados
type DecisionMutation struct {
	Field         string `json:"field"`
	PreviousValue string `json:"previous_value"`
	NewValue      string `json:"new_value"`
}

// Campos de entidade que uma mutação pode alterar
const (
	MutationFieldStatus      = "status"
	MutationFieldDailyBudget = "daily_budget"
)

// Decision é o resultado da análise de uma entidade em um ciclo.
// Invariante: Action == MONITOR implica Mutation == nil (nenhuma mutação é
// proposta para monitoramento).
type Decision struct {
	EntityType EntityType         `json:"entity_type"`
	EntityID   string             `json:"entity_id"`
	EntityName string             `json:"entity_name"`
	Action     ActionType         `json:"action"`
	Reason     string             `json:"reason"`
	Priority   DecisionPriority   `json:"priority"`
	Confidence float64            `json:"confidence"`
	Metrics    PerformanceMetrics `json:"metrics"`
	Mutation   *DecisionMutation  `json:"mutation,omitempty"`
}

// ProposesMutation indica se a decisão propõe alteração de estado
func (d *Decision) ProposesMutation() bool {
	return d.Mutation != nil
}
