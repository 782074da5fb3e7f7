package domain

// LearningPhaseProgress descreve o avanço de uma entidade pela fase de
// aprendizado do algoritmo de entrega
type LearningPhaseProgress struct {
	Status                  LearningStatus `json:"status"`
	EventsCount             int            `json:"events_count"`
	EventsNeeded            int            `json:"events_needed"`
	ProgressPercentage      float64        `json:"progress_percentage"`
	EstimatedCompletionDays int            `json:"estimated_completion_days"`
	OnTrack                 bool           `json:"on_track"`
}
