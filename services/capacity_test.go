package services

import "testing"

func intPtr(v int) *int { return &v }

func TestReconcileCapacity(t *testing.T) {
	tests := []struct {
		name          string
		rooms         []RoomSelection
		eligible      int
		expCapacity   int
		expShortage   int
		expInsufficient bool
	}{
		{
			name: "exact fit",
			rooms: []RoomSelection{
				{RoomID: 1, NumberOfBenches: 10, MaxStudentsPerBench: 2},
				{RoomID: 2, NumberOfBenches: 5, MaxStudentsPerBench: 2},
			},
			eligible:    30,
			expCapacity: 30,
		},
		{
			name: "shortage of five",
			rooms: []RoomSelection{
				{RoomID: 1, NumberOfBenches: 10, MaxStudentsPerBench: 2},
				{RoomID: 2, NumberOfBenches: 5, MaxStudentsPerBench: 2},
			},
			eligible:        35,
			expCapacity:     30,
			expShortage:     5,
			expInsufficient: true,
		},
		{
			name: "surplus clamps shortage to zero",
			rooms: []RoomSelection{
				{RoomID: 1, NumberOfBenches: 20, MaxStudentsPerBench: 2},
			},
			eligible:    10,
			expCapacity: 40,
		},
		{
			name: "override changes capacity",
			rooms: []RoomSelection{
				{RoomID: 1, NumberOfBenches: 10, MaxStudentsPerBench: 3, MaxStudentsPerBenchOverride: intPtr(1)},
			},
			eligible:        12,
			expCapacity:     10,
			expShortage:     2,
			expInsufficient: true,
		},
		{
			name:            "no rooms",
			rooms:           nil,
			eligible:        3,
			expCapacity:     0,
			expShortage:     3,
			expInsufficient: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			summary := ReconcileCapacity(tc.rooms, tc.eligible)
			if summary.TotalCapacity != tc.expCapacity {
				t.Fatalf("expected capacity %d, got %d", tc.expCapacity, summary.TotalCapacity)
			}
			if summary.Shortage != tc.expShortage {
				t.Fatalf("expected shortage %d, got %d", tc.expShortage, summary.Shortage)
			}
			if summary.HasInsufficientCapacity != tc.expInsufficient {
				t.Fatalf("expected insufficient=%v, got %v", tc.expInsufficient, summary.HasInsufficientCapacity)
			}
			if summary.TotalEligibleStudents != tc.eligible {
				t.Fatalf("expected eligible %d, got %d", tc.eligible, summary.TotalEligibleStudents)
			}
		})
	}
}

func TestEffectivePerBench(t *testing.T) {
	tests := []struct {
		name string
		room RoomSelection
		exp  int
	}{
		{
			name: "facility default",
			room: RoomSelection{MaxStudentsPerBench: 3},
			exp:  3,
		},
		{
			name: "override wins",
			room: RoomSelection{MaxStudentsPerBench: 3, MaxStudentsPerBenchOverride: intPtr(1)},
			exp:  1,
		},
		{
			name: "missing master data falls back to two",
			room: RoomSelection{},
			exp:  2,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.room.EffectivePerBench(); got != tc.exp {
				t.Fatalf("expected %d, got %d", tc.exp, got)
			}
		})
	}
}

func TestValidateOverride(t *testing.T) {
	tests := []struct {
		name    string
		room    RoomSelection
		wantErr bool
	}{
		{
			name: "nil override always valid",
			room: RoomSelection{MaxStudentsPerBench: 2},
		},
		{
			name: "override at lower bound",
			room: RoomSelection{MaxStudentsPerBench: 3, MaxStudentsPerBenchOverride: intPtr(1)},
		},
		{
			name: "override at upper bound",
			room: RoomSelection{MaxStudentsPerBench: 3, MaxStudentsPerBenchOverride: intPtr(3)},
		},
		{
			name:    "zero override rejected",
			room:    RoomSelection{MaxStudentsPerBench: 3, MaxStudentsPerBenchOverride: intPtr(0)},
			wantErr: true,
		},
		{
			name:    "override above facility maximum rejected",
			room:    RoomSelection{MaxStudentsPerBench: 3, MaxStudentsPerBenchOverride: intPtr(4)},
			wantErr: true,
		},
		{
			name:    "missing master maximum defaults to two",
			room:    RoomSelection{MaxStudentsPerBenchOverride: intPtr(3)},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.room.ValidateOverride()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateRoomSelections(t *testing.T) {
	if err := ValidateRoomSelections(nil); err == nil {
		t.Fatalf("expected error for empty selection")
	}

	rooms := []RoomSelection{
		{RoomID: 1, NumberOfBenches: 10, MaxStudentsPerBench: 2},
		{RoomID: 2, NumberOfBenches: 10, MaxStudentsPerBench: 2, MaxStudentsPerBenchOverride: intPtr(5)},
	}
	if err := ValidateRoomSelections(rooms); err == nil {
		t.Fatalf("expected error for out-of-range override")
	}

	rooms[1].MaxStudentsPerBenchOverride = intPtr(2)
	if err := ValidateRoomSelections(rooms); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
