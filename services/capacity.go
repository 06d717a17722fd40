package services

import "fmt"

// RoomSelection is one room picked for an exam sitting, with an optional
// per-bench override supplied by the operator.
type RoomSelection struct {
	RoomID              uint   `json:"room_id"`
	RoomName            string `json:"room_name"`
	FloorID             uint   `json:"floor_id"`
	FloorName           string `json:"floor_name"`
	NumberOfBenches     int    `json:"number_of_benches"`
	MaxStudentsPerBench int    `json:"max_students_per_bench"`
	// Override must satisfy 1 <= override <= MaxStudentsPerBench; nil means
	// the facility default applies.
	MaxStudentsPerBenchOverride *int `json:"max_students_per_bench_override,omitempty"`
}

// CapacitySummary compares selected room capacity against the eligible
// student headcount. Insufficient capacity is advisory, not a hard block.
type CapacitySummary struct {
	TotalCapacity           int  `json:"total_capacity"`
	TotalEligibleStudents   int  `json:"total_eligible_students"`
	Shortage                int  `json:"shortage"`
	HasInsufficientCapacity bool `json:"has_insufficient_capacity"`
}

// EffectivePerBench resolves the students-per-bench value for a selection:
// the override when present, otherwise the facility default, with 2 as the
// floor-wide fallback when master data carries no default.
func (r RoomSelection) EffectivePerBench() int {
	if r.MaxStudentsPerBenchOverride != nil {
		return *r.MaxStudentsPerBenchOverride
	}
	if r.MaxStudentsPerBench > 0 {
		return r.MaxStudentsPerBench
	}
	return 2
}

// Capacity derives the room's seat count from benches and per-bench density.
func (r RoomSelection) Capacity() int {
	return r.NumberOfBenches * r.EffectivePerBench()
}

// ValidateOverride rejects out-of-range override values. A cleared (nil)
// override is always valid and falls back to the facility default.
func (r RoomSelection) ValidateOverride() error {
	if r.MaxStudentsPerBenchOverride == nil {
		return nil
	}
	override := *r.MaxStudentsPerBenchOverride
	max := r.MaxStudentsPerBench
	if max <= 0 {
		max = 2
	}
	if override < 1 || override > max {
		return fmt.Errorf("students per bench override %d for room %d out of range [1, %d]", override, r.RoomID, max)
	}
	return nil
}

// ReconcileCapacity computes the capacity summary for a set of selected
// rooms against the eligible student count. Pure, no side effects.
func ReconcileCapacity(rooms []RoomSelection, totalEligibleStudents int) CapacitySummary {
	totalCapacity := 0
	for _, room := range rooms {
		totalCapacity += room.Capacity()
	}

	shortage := totalEligibleStudents - totalCapacity
	if shortage < 0 {
		shortage = 0
	}

	return CapacitySummary{
		TotalCapacity:           totalCapacity,
		TotalEligibleStudents:   totalEligibleStudents,
		Shortage:                shortage,
		HasInsufficientCapacity: totalEligibleStudents > totalCapacity,
	}
}

// ValidateRoomSelections checks every override before an assignment is
// accepted; the first invalid room aborts the whole batch.
func ValidateRoomSelections(rooms []RoomSelection) error {
	if len(rooms) == 0 {
		return fmt.Errorf("at least one room must be selected")
	}
	for _, room := range rooms {
		if err := room.ValidateOverride(); err != nil {
			return err
		}
	}
	return nil
}
