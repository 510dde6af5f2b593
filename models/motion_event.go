package models

// Vector3 is one acceleration block of a motion event.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RotationRate is the rotation block of a motion event, deg/s.
type RotationRate struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// MotionEvent is one raw device-motion event as delivered by the platform.
// Any block may be missing depending on the hardware.
type MotionEvent struct {
	TimestampNs                  int64         `json:"timestamp_ns"`
	Acceleration                 *Vector3      `json:"acceleration,omitempty"`
	AccelerationIncludingGravity *Vector3      `json:"acceleration_including_gravity,omitempty"`
	RotationRate                 *RotationRate `json:"rotation_rate,omitempty"`
}

// ToReading converts the event into a SensorReading. Each accelerometer axis
// prefers the gravity-free value, falls back to the gravity-inclusive one
// when that is missing or zero, and finally to 0.
func (e *MotionEvent) ToReading() SensorReading {
	r := SensorReading{TimestampNs: e.TimestampNs}

	var acc, grav Vector3
	if e.Acceleration != nil {
		acc = *e.Acceleration
	}
	if e.AccelerationIncludingGravity != nil {
		grav = *e.AccelerationIncludingGravity
	}
	r.Accelerometer = Accelerometer{
		X: firstNonZero(acc.X, grav.X),
		Y: firstNonZero(acc.Y, grav.Y),
		Z: firstNonZero(acc.Z, grav.Z),
	}

	if e.RotationRate != nil {
		r.Gyroscope = Gyroscope{
			Alpha: e.RotationRate.Alpha,
			Beta:  e.RotationRate.Beta,
			Gamma: e.RotationRate.Gamma,
		}
	}
	return r
}

// OrientationEvent carries absolute device orientation in degrees. It only
// refreshes the displayed gyroscope values and is never recorded.
type OrientationEvent struct {
	TimestampNs int64   `json:"timestamp_ns"`
	Alpha       float64 `json:"alpha"`
	Beta        float64 `json:"beta"`
	Gamma       float64 `json:"gamma"`
}

func firstNonZero(vs ...float64) float64 {
	for _, v := range vs {
		if v != 0 {
			return v
		}
	}
	return 0
}
