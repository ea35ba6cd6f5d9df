package vertex

import (
	"errors"
	"fmt"
)

const (
	// SpeedTableLength is the number of entries of a firmware duty
	// table, one per degree of liquid temperature.
	SpeedTableLength = 40
	// SpeedTableFloor is the liquid temperature of the first entry.
	SpeedTableFloor = 20
)

// SpeedTable expands profile points into the firmware duty table.
// Duties hold between points: below the first point its duty applies,
// past the last one the final duty sticks.
func SpeedTable(points []SpeedPoint) ([SpeedTableLength]uint8, error) {
	var table [SpeedTableLength]uint8

	if len(points) == 0 {
		return table, errors.New("empty speed profile")
	}

	previous := SpeedTableFloor - 1
	for _, p := range points {
		if p.Temp < SpeedTableFloor || p.Temp > SpeedTableFloor+SpeedTableLength-1 {
			return table, fmt.Errorf("temperature %d out of table range", p.Temp)
		}
		if p.Temp <= previous {
			return table, fmt.Errorf("temperatures must increase: %d after %d", p.Temp, previous)
		}
		if p.Duty < 0 || p.Duty > 100 {
			return table, ErrInvalidDuty
		}
		previous = p.Temp
	}

	duty := points[0].Duty
	next := 0
	for i := range table {
		for next < len(points) && points[next].Temp <= SpeedTableFloor+i {
			duty = points[next].Duty
			next++
		}
		table[i] = uint8(duty)
	}

	return table, nil
}
