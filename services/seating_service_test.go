package services

import (
	"testing"

	"examdesk_go/models"
)

func TestSeatPositions(t *testing.T) {
	tests := []struct {
		name     string
		perBench int
		exp      []string
	}{
		{name: "single seat", perBench: 1, exp: []string{"A"}},
		{name: "two seats skip the middle", perBench: 2, exp: []string{"A", "C"}},
		{name: "three seats contiguous", perBench: 3, exp: []string{"A", "B", "C"}},
		{name: "four seats contiguous", perBench: 4, exp: []string{"A", "B", "C", "D"}},
		{name: "zero falls back to single", perBench: 0, exp: []string{"A"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := seatPositions(tc.perBench)
			if len(got) != len(tc.exp) {
				t.Fatalf("expected %v, got %v", tc.exp, got)
			}
			for i := range tc.exp {
				if got[i] != tc.exp[i] {
					t.Fatalf("expected %v, got %v", tc.exp, got)
				}
			}
		})
	}
}

func TestSortStudentsEmptyIdentifiersLast(t *testing.T) {
	students := []SeatedStudent{
		{UID: "u1", RollNumber: ""},
		{UID: "u2", RollNumber: "R-002"},
		{UID: "u3", RollNumber: "R-001"},
		{UID: "u4", RollNumber: "  "},
	}

	sortStudents(students, OrderByRollNumber)

	if students[0].UID != "u3" || students[1].UID != "u2" {
		t.Fatalf("expected roll-number order u3,u2 first, got %s,%s", students[0].UID, students[1].UID)
	}
	// Blank identifiers keep their relative order at the tail
	if students[2].UID != "u1" || students[3].UID != "u4" {
		t.Fatalf("expected empty identifiers last in stable order, got %s,%s", students[2].UID, students[3].UID)
	}
}

func TestAssignSeatsFillsRoomsInOrder(t *testing.T) {
	students := []SeatedStudent{
		{UID: "S03"}, {UID: "S01"}, {UID: "S02"}, {UID: "S04"}, {UID: "S05"},
	}
	rooms := []RoomAssignment{
		{RoomID: 1, RoomName: "Room 101", FloorName: "Ground Floor", NumberOfBenches: 2, MaxStudentsPerBench: 2, Capacity: 4},
		{RoomID: 2, RoomName: "Room 102", FloorName: "Ground Floor", NumberOfBenches: 10, MaxStudentsPerBench: 2, Capacity: 20},
	}

	seated := AssignSeats(students, rooms, OrderByUID)

	expected := []struct {
		uid  string
		room uint
		seat string
	}{
		{"S01", 1, "1A"},
		{"S02", 1, "1C"},
		{"S03", 1, "2A"},
		{"S04", 1, "2C"},
		{"S05", 2, "1A"},
	}

	for i, exp := range expected {
		if seated[i].UID != exp.uid {
			t.Fatalf("position %d: expected %s, got %s", i, exp.uid, seated[i].UID)
		}
		if seated[i].RoomID != exp.room {
			t.Fatalf("student %s: expected room %d, got %d", exp.uid, exp.room, seated[i].RoomID)
		}
		if seated[i].SeatNumber != exp.seat {
			t.Fatalf("student %s: expected seat %s, got %s", exp.uid, exp.seat, seated[i].SeatNumber)
		}
	}
}

func TestAssignSeatsOverflowKeepsEmptySeat(t *testing.T) {
	students := []SeatedStudent{
		{UID: "S01"}, {UID: "S02"}, {UID: "S03"},
	}
	rooms := []RoomAssignment{
		{RoomID: 1, RoomName: "Room 101", NumberOfBenches: 1, MaxStudentsPerBench: 2, Capacity: 2},
	}

	seated := AssignSeats(students, rooms, OrderByUID)

	if seated[0].SeatNumber != "1A" || seated[1].SeatNumber != "1C" {
		t.Fatalf("expected 1A,1C for first two, got %s,%s", seated[0].SeatNumber, seated[1].SeatNumber)
	}
	if seated[2].SeatNumber != "" || seated[2].RoomID != 0 {
		t.Fatalf("expected overflow student unseated, got seat %q room %d", seated[2].SeatNumber, seated[2].RoomID)
	}
}

func TestAssignSeatsThreePerBench(t *testing.T) {
	students := []SeatedStudent{
		{UID: "S01"}, {UID: "S02"}, {UID: "S03"}, {UID: "S04"},
	}
	rooms := []RoomAssignment{
		{RoomID: 1, RoomName: "Room 202", NumberOfBenches: 2, MaxStudentsPerBench: 3, Capacity: 6},
	}

	seated := AssignSeats(students, rooms, OrderByUID)

	expSeats := []string{"1A", "1B", "1C", "2A"}
	for i, exp := range expSeats {
		if seated[i].SeatNumber != exp {
			t.Fatalf("position %d: expected seat %s, got %s", i, exp, seated[i].SeatNumber)
		}
	}
}

func TestAssignSeatsOrderByRegistrationNumber(t *testing.T) {
	students := []SeatedStudent{
		{UID: "b", RegistrationNumber: "REG-2"},
		{UID: "a", RegistrationNumber: "REG-3"},
		{UID: "c", RegistrationNumber: "REG-1"},
	}
	rooms := []RoomAssignment{
		{RoomID: 1, NumberOfBenches: 2, MaxStudentsPerBench: 2, Capacity: 4},
	}

	seated := AssignSeats(students, rooms, OrderByRegistrationNumber)

	if seated[0].UID != "c" || seated[1].UID != "b" || seated[2].UID != "a" {
		t.Fatalf("expected registration order c,b,a got %s,%s,%s", seated[0].UID, seated[1].UID, seated[2].UID)
	}
}

func TestPaperEnrollmentTuples(t *testing.T) {
	papers := []models.Paper{
		{ClassID: 1, ProgramCourseID: 10, AcademicYearID: 2},
		{ClassID: 1, ProgramCourseID: 10, AcademicYearID: 2}, // duplicate combination
		{ClassID: 1, ProgramCourseID: 11, AcademicYearID: 2},
		{ClassID: 3, ProgramCourseID: 10, AcademicYearID: 2},
	}

	tuples := paperEnrollmentTuples(papers)
	if len(tuples) != 3 {
		t.Fatalf("expected 3 distinct enrollment combinations, got %d: %v", len(tuples), tuples)
	}

	exp := [][]interface{}{
		{uint(1), uint(10), uint(2)},
		{uint(1), uint(11), uint(2)},
		{uint(3), uint(10), uint(2)},
	}
	for i := range exp {
		for j := range exp[i] {
			if tuples[i][j] != exp[i][j] {
				t.Fatalf("tuple %d: expected %v, got %v", i, exp[i], tuples[i])
			}
		}
	}
}

func TestPaperEnrollmentTuplesEmpty(t *testing.T) {
	if got := paperEnrollmentTuples(nil); len(got) != 0 {
		t.Fatalf("expected no tuples for no papers, got %v", got)
	}
}
