package model

import "math"

// LookYaw returns the yaw in degrees for facing along (dx, dz).
func LookYaw(dx, dz float64) float64 {
	return -math.Atan2(dx, dz) * 180 / math.Pi
}

// LookPitch returns the pitch in degrees for facing along (dx, dy, dz).
func LookPitch(dx, dy, dz float64) float64 {
	horizontal := math.Sqrt(dx*dx + dz*dz)
	return -math.Atan2(dy, horizontal) * 180 / math.Pi
}
