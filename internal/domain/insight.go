package domain

import (
	"time"
)

// EntityInsightEntry é uma linha diária de telemetria de uma entidade,
// armazenada no banco pela sincronização de insights
type EntityInsightEntry struct {
	ID          int64      `json:"id"`
	EntityType  EntityType `json:"entity_type"`
	EntityID    string     `json:"entity_id"`
	Date        time.Time  `json:"date"`
	Impressions int        `json:"impressions"`
	Clicks      int        `json:"clicks"`
	Conversions int        `json:"conversions"`
	Spend       float64    `json:"spend"`
	Revenue     float64    `json:"revenue"`
	Frequency   float64    `json:"frequency"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AggregateInsights soma as linhas diárias de telemetria em um único snapshot
// de contadores. A frequência agregada é a média simples das frequências
// diárias não nulas.
func AggregateInsights(entries []*EntityInsightEntry) PerformanceMetrics {
	metrics := PerformanceMetrics{}

	frequencySum := 0.0
	frequencyDays := 0

	for _, entry := range entries {
		metrics.Impressions += entry.Impressions
		metrics.Clicks += entry.Clicks
		metrics.Conversions += entry.Conversions
		metrics.Spend += entry.Spend
		metrics.Revenue += entry.Revenue

		if entry.Frequency > 0 {
			frequencySum += entry.Frequency
			frequencyDays++
		}
	}

	if frequencyDays > 0 {
		metrics.Frequency = frequencySum / float64(frequencyDays)
	}

	metrics.ComputeDerived()

	return metrics
}
