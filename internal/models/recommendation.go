// ABOUTME: Recommendation model for progression/deload suggestions.
// ABOUTME: Pending recommendations are de-duplicated by (date, kind, types).
package models

// RecommendationKind classifies what a recommendation suggests.
type RecommendationKind string

const (
	RecommendationProgression RecommendationKind = "progression"
	RecommendationDeload      RecommendationKind = "deload"
)

// RecommendationStatus tracks what the user did with a recommendation.
type RecommendationStatus string

const (
	StatusPending   RecommendationStatus = "pending"
	StatusAccepted  RecommendationStatus = "accepted"
	StatusDismissed RecommendationStatus = "dismissed"
)

// IsValidRecommendationStatus checks if a string is a valid status.
func IsValidRecommendationStatus(s string) bool {
	switch RecommendationStatus(s) {
	case StatusPending, StatusAccepted, StatusDismissed:
		return true
	}
	return false
}

// Recommendation is a stored suggestion surfaced to the user.
// SplitType and WorkoutType are nil for recommendations that are not
// tied to a specific workout.
type Recommendation struct {
	SyncMeta
	Date        string               `json:"date"`
	SplitType   *SplitType           `json:"splitType"`
	WorkoutType *WorkoutType         `json:"workoutType"`
	Kind        RecommendationKind   `json:"kind"`
	Status      RecommendationStatus `json:"status"`
	Message     string               `json:"message"`
	Reason      string               `json:"reason"`
}
