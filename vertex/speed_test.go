package vertex

import (
	"errors"
	"testing"
)

func TestSpeedTable(t *testing.T) {
	tests := []struct {
		name   string
		points []SpeedPoint
		checks map[int]uint8 // table index -> duty
	}{
		{
			name:   "single point rules the whole table",
			points: []SpeedPoint{{Temp: 30, Duty: 50}},
			checks: map[int]uint8{0: 50, 10: 50, 39: 50},
		},
		{
			name:   "full range endpoints",
			points: []SpeedPoint{{Temp: 20, Duty: 20}, {Temp: 59, Duty: 100}},
			checks: map[int]uint8{0: 20, 1: 20, 38: 20, 39: 100},
		},
		{
			name:   "duty holds until the next point",
			points: []SpeedPoint{{Temp: 25, Duty: 30}, {Temp: 26, Duty: 60}},
			checks: map[int]uint8{4: 30, 5: 30, 6: 60, 7: 60},
		},
		{
			name:   "below the first point its duty applies",
			points: []SpeedPoint{{Temp: 40, Duty: 80}},
			checks: map[int]uint8{0: 80, 19: 80, 20: 80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := SpeedTable(tt.points)
			if err != nil {
				t.Fatalf("SpeedTable error: %v", err)
			}
			for index, duty := range tt.checks {
				if table[index] != duty {
					t.Errorf("table[%d] = %d, want %d", index, table[index], duty)
				}
			}
		})
	}
}

func TestSpeedTable_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		points []SpeedPoint
	}{
		{name: "empty profile", points: nil},
		{name: "temperature below the table", points: []SpeedPoint{{Temp: 19, Duty: 50}}},
		{name: "temperature above the table", points: []SpeedPoint{{Temp: 60, Duty: 50}}},
		{name: "decreasing temperatures", points: []SpeedPoint{{Temp: 30, Duty: 50}, {Temp: 25, Duty: 60}}},
		{name: "duplicate temperatures", points: []SpeedPoint{{Temp: 30, Duty: 50}, {Temp: 30, Duty: 60}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SpeedTable(tt.points); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSpeedTable_InvalidDuty(t *testing.T) {
	if _, err := SpeedTable([]SpeedPoint{{Temp: 30, Duty: 101}}); !errors.Is(err, ErrInvalidDuty) {
		t.Errorf("duty 101 error = %v, want ErrInvalidDuty", err)
	}
	if _, err := SpeedTable([]SpeedPoint{{Temp: 30, Duty: -1}}); !errors.Is(err, ErrInvalidDuty) {
		t.Errorf("duty -1 error = %v, want ErrInvalidDuty", err)
	}
}
