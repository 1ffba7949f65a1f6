package clock

import "math"

// HourAngle maps an hour of the day to radians clockwise from 12 o'clock.
// Hours 0 and 12 are both the top of the face.
func HourAngle(hour int) float64 {
	return float64(mod(hour, 12)) / 12 * 2 * math.Pi
}

// MinuteAngle maps a minute or second (0..59) to radians clockwise from 12 o'clock.
func MinuteAngle(v int) float64 {
	return float64(mod(v, 60)) / 60 * 2 * math.Pi
}

// Polar projects angle and radius from (cx, cy) with y growing downwards.
// Coordinates are truncated toward zero like the panel's integer grid.
func Polar(cx, cy int16, angle float64, r int16) (x, y int16) {
	x = cx + int16(math.Sin(angle)*float64(r))
	y = cy - int16(math.Cos(angle)*float64(r))
	return x, y
}

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
