package models

// Accelerometer holds linear acceleration per axis in m/s².
type Accelerometer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Gyroscope holds rotation per axis in deg/s (or absolute orientation
// angles when sourced from an orientation event).
type Gyroscope struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// SensorReading is one timestamped motion sample, the unit a recording
// session buffers and exports.
type SensorReading struct {
	TimestampNs   int64         `json:"timestamp_ns"`
	Accelerometer Accelerometer `json:"accelerometer"`
	Gyroscope     Gyroscope     `json:"gyroscope"`
}

var _ CSVRowWriter = (*SensorReading)(nil)

func (SensorReading) CSVHeader() []string {
	return []string{
		"timestamp",
		"accel_x", "accel_y", "accel_z",
		"gyro_alpha", "gyro_beta", "gyro_gamma",
	}
}

func (r *SensorReading) CSVRow() []string {
	return []string{
		isoMillis(r.TimestampNs),
		ftoa(r.Accelerometer.X, 6), ftoa(r.Accelerometer.Y, 6), ftoa(r.Accelerometer.Z, 6),
		ftoa(r.Gyroscope.Alpha, 6), ftoa(r.Gyroscope.Beta, 6), ftoa(r.Gyroscope.Gamma, 6),
	}
}
