package views

import (
	"fmt"
	"strconv"

	"motion-tracker/models"
)

// DisplayValues is a reading rounded for on-screen use.
type DisplayValues struct {
	AccelX, AccelY, AccelZ         string
	GyroAlpha, GyroBeta, GyroGamma string
}

// FormatReading renders every axis with 3 decimals.
func FormatReading(r models.SensorReading) DisplayValues {
	f := func(v float64) string {
		if v == 0 {
			v = 0
		}
		return strconv.FormatFloat(v, 'f', 3, 64)
	}
	return DisplayValues{
		AccelX:    f(r.Accelerometer.X),
		AccelY:    f(r.Accelerometer.Y),
		AccelZ:    f(r.Accelerometer.Z),
		GyroAlpha: f(r.Gyroscope.Alpha),
		GyroBeta:  f(r.Gyroscope.Beta),
		GyroGamma: f(r.Gyroscope.Gamma),
	}
}

// FormatDuration renders whole seconds as m:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
