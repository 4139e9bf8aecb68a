package catalog

const oneMinute = 60 // seconds

// BuiltinClasses returns the classes that ship with the app. A fresh copy is returned
// on every call.
func BuiltinClasses() []Class {
	return []Class{
		{
			ID:        "builtin-endurance-ride",
			Name:      "30 Min Endurance Ride",
			ClassType: "Cycle",
			Room:      "Studio B",
			Workouts: []Workout{
				{ID: "warmup", Name: "Warmup Spin", Category: "Cardio", Difficulty: "Beginner",
					DefaultDurationSeconds: 5 * oneMinute, CoachingCues: "Easy gear, cadence around 90"},
				{ID: "main-set", Name: "Steady Climb", Category: "Cardio", Difficulty: "Intermediate",
					DefaultDurationSeconds: 20 * oneMinute, CoachingCues: "Add resistance every 5 minutes, stay seated"},
				{ID: "cooldown", Name: "Cooldown Spin", Category: "Recovery", Difficulty: "Beginner",
					DefaultDurationSeconds: 5 * oneMinute, CoachingCues: "Drop the gear, breathe out long"},
			},
		},
		{
			ID:                "builtin-tabata-blast",
			Name:              "Tabata Blast",
			ClassType:         "HIIT",
			Room:              "Studio A",
			TransitionSeconds: 10,
			Workouts: []Workout{
				{ID: "jumping-jacks", Name: "Jumping Jacks", Category: "Cardio", Difficulty: "Beginner",
					DefaultDurationSeconds: oneMinute, CoachingCues: "Land softly, arms fully overhead"},
				{ID: "burpees", Name: "Burpees", Category: "Full Body", Difficulty: "Advanced",
					DefaultDurationSeconds: 45, CoachingCues: "Chest to floor, explode up"},
				{ID: "mountain-climbers", Name: "Mountain Climbers", Category: "Core", Difficulty: "Intermediate",
					DefaultDurationSeconds: 45, CoachingCues: "Hips level with shoulders"},
				{ID: "squat-jumps", Name: "Squat Jumps", Category: "Lower Body", Difficulty: "Intermediate",
					DefaultDurationSeconds: 45, DurationOverrideSeconds: 30, CoachingCues: "Sit back, knees over toes"},
				{ID: "plank", Name: "Plank Hold", Category: "Core", Difficulty: "Beginner",
					DefaultDurationSeconds: oneMinute, CoachingCues: "Squeeze glutes, neutral neck"},
			},
		},
		{
			ID:                "builtin-strength-circuit",
			Name:              "Total Body Strength",
			ClassType:         "Strength",
			Room:              "Studio A",
			TransitionSeconds: 15,
			Workouts: []Workout{
				{ID: "goblet-squat", Name: "Goblet Squat", Category: "Lower Body", Difficulty: "Intermediate",
					DefaultDurationSeconds: 90, CoachingCues: "Elbows inside knees at the bottom"},
				{ID: "push-up", Name: "Push-Up", Category: "Upper Body", Difficulty: "Beginner",
					DefaultDurationSeconds: oneMinute, CoachingCues: "Body in one line, modify on knees"},
				{ID: "bent-over-row", Name: "Bent-Over Row", Category: "Upper Body", Difficulty: "Intermediate",
					DefaultDurationSeconds: 90, CoachingCues: "Pull to the hip, squeeze shoulder blades"},
				{ID: "reverse-lunge", Name: "Reverse Lunge", Category: "Lower Body", Difficulty: "Intermediate",
					DefaultDurationSeconds: 90, CoachingCues: "Back knee hovers, front shin vertical"},
				{ID: "dead-bug", Name: "Dead Bug", Category: "Core", Difficulty: "Beginner",
					DefaultDurationSeconds: oneMinute, CoachingCues: "Low back stays glued to the mat"},
			},
		},
		{
			ID:        "builtin-recovery-flow",
			Name:      "Recovery Flow",
			ClassType: "Mobility",
			Room:      "Studio C",
			Workouts: []Workout{
				{ID: "cat-cow", Name: "Cat-Cow", Category: "Mobility", Difficulty: "Beginner",
					DefaultDurationSeconds: 2 * oneMinute, CoachingCues: "Move with the breath"},
				{ID: "worlds-greatest", Name: "World's Greatest Stretch", Category: "Mobility", Difficulty: "Beginner",
					DefaultDurationSeconds: 3 * oneMinute, CoachingCues: "Switch sides halfway"},
				{ID: "pigeon", Name: "Pigeon Pose", Category: "Flexibility", Difficulty: "Intermediate",
					DefaultDurationSeconds: 3 * oneMinute, CoachingCues: "Square the hips, fold forward if comfortable"},
				{ID: "savasana", Name: "Savasana", Category: "Recovery", Difficulty: "Beginner",
					DefaultDurationSeconds: 2 * oneMinute},
			},
		},
	}
}
