// ABOUTME: TrainingSession and ExerciseSetLog models for workout tracking.
// ABOUTME: Sets reference their session and denormalize its date/split/type.
package models

// SplitType identifies the training split a session belongs to.
type SplitType string

const (
	SplitPPL        SplitType = "ppl"
	SplitUpperLower SplitType = "upper-lower"
)

// WorkoutType identifies the workout within a split.
type WorkoutType string

const (
	WorkoutPush   WorkoutType = "push"
	WorkoutPull   WorkoutType = "pull"
	WorkoutLeg    WorkoutType = "leg"
	WorkoutUpperA WorkoutType = "upper-a"
	WorkoutUpperB WorkoutType = "upper-b"
	WorkoutLowerA WorkoutType = "lower-a"
	WorkoutLowerB WorkoutType = "lower-b"
)

// AllWorkoutTypes returns all valid workout types.
var AllWorkoutTypes = []WorkoutType{
	WorkoutPush, WorkoutPull, WorkoutLeg,
	WorkoutUpperA, WorkoutUpperB, WorkoutLowerA, WorkoutLowerB,
}

// IsValidWorkoutType checks if a string is a valid workout type.
func IsValidWorkoutType(s string) bool {
	for _, wt := range AllWorkoutTypes {
		if string(wt) == s {
			return true
		}
	}
	return false
}

// IntensificationTechnique is an optional set-level technique marker.
type IntensificationTechnique string

const (
	TechniqueDropset   IntensificationTechnique = "dropset"
	TechniqueRestPause IntensificationTechnique = "rest-pause"
	TechniqueSuperset  IntensificationTechnique = "superset"
	TechniqueMyoReps   IntensificationTechnique = "myo-reps"
)

// TrainingSession is one logged workout. Sets are not held directly;
// they reference the session by id and are looked up by index.
type TrainingSession struct {
	SyncMeta
	Date         string      `json:"date"`
	SplitType    SplitType   `json:"splitType"`
	WorkoutType  WorkoutType `json:"workoutType"`
	WorkoutLabel string      `json:"workoutLabel"`
	DurationMin  int         `json:"durationMin"`
	Notes        string      `json:"notes"`
}

// ExerciseSetLog is one set within a session. Date, split, and workout
// type are copied from the parent at creation for query locality and are
// never refreshed (sessions are not edited in place).
type ExerciseSetLog struct {
	SyncMeta
	SessionID     string                    `json:"sessionId"`
	Date          string                    `json:"date"`
	SplitType     SplitType                 `json:"splitType"`
	WorkoutType   WorkoutType               `json:"workoutType"`
	ExerciseName  string                    `json:"exerciseName"`
	ExerciseOrder int                       `json:"exerciseOrder"`
	SetOrder      int                       `json:"setOrder"`
	WeightKg      float64                   `json:"weightKg"`
	Reps          int                       `json:"reps"`
	RPE           *int                      `json:"rpe"`
	RIR           *int                      `json:"rir"`
	Technique     *IntensificationTechnique `json:"technique"`
}

// SessionWithSets pairs a session with its ordered live sets.
type SessionWithSets struct {
	Session TrainingSession  `json:"session"`
	Sets    []ExerciseSetLog `json:"sets"`
}
