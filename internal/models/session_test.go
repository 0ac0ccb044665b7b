// ABOUTME: Tests for session model validation helpers.
// ABOUTME: Covers workout type and recommendation status validity.
package models

import "testing"

func TestIsValidWorkoutType(t *testing.T) {
	valid := []string{"push", "pull", "leg", "upper-a", "upper-b", "lower-a", "lower-b"}
	for _, wt := range valid {
		if !IsValidWorkoutType(wt) {
			t.Errorf("expected %q to be valid", wt)
		}
	}

	invalid := []string{"", "cardio", "Push", "upper"}
	for _, wt := range invalid {
		if IsValidWorkoutType(wt) {
			t.Errorf("expected %q to be invalid", wt)
		}
	}
}

func TestIsValidRecommendationStatus(t *testing.T) {
	for _, s := range []string{"pending", "accepted", "dismissed"} {
		if !IsValidRecommendationStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "open", "Pending"} {
		if IsValidRecommendationStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}
