// ABOUTME: ReadinessLog and WeightLog daily check-in models.
// ABOUTME: Both enforce at most one live row per calendar date.
package models

// ReadinessLog is a daily sleep/stress/pain check-in. The date is a
// natural key: saving again for the same date mutates the existing row.
type ReadinessLog struct {
	SyncMeta
	Date           string  `json:"date"`
	SleepHours     float64 `json:"sleepHours"`
	SleepQuality   int     `json:"sleepQuality"`
	Stress         int     `json:"stress"`
	Pain           int     `json:"pain"`
	ReadinessScore int     `json:"readinessScore"`
	Notes          string  `json:"notes"`
}

// WeightLog is a daily body-weight entry, keyed by date like ReadinessLog.
type WeightLog struct {
	SyncMeta
	Date     string  `json:"date"`
	WeightKg float64 `json:"weightKg"`
	Notes    string  `json:"notes"`
}
