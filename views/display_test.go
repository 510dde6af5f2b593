package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"motion-tracker/models"
	"motion-tracker/utils"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time                       { return c.t }
func (c fixedClock) NewTicker(time.Duration) utils.Ticker { return nil }

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		0:    "0:00",
		7:    "0:07",
		60:   "1:00",
		125:  "2:05",
		3600: "60:00",
		-3:   "0:00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatDuration(in), "seconds=%d", in)
	}
}

func TestFormatReading(t *testing.T) {
	v := FormatReading(models.SensorReading{
		Accelerometer: models.Accelerometer{X: 0.12345, Y: -9.8066, Z: 0},
		Gyroscope:     models.Gyroscope{Alpha: 359.9999, Beta: -0.0004, Gamma: 12},
	})
	assert.Equal(t, DisplayValues{
		AccelX: "0.123", AccelY: "-9.807", AccelZ: "0.000",
		GyroAlpha: "360.000", GyroBeta: "-0.000", GyroGamma: "12.000",
	}, v)
}

func TestFileNamer(t *testing.T) {
	clock := fixedClock{t: time.Date(2024, 5, 1, 9, 7, 3, 0, time.Local)}
	n := NewFileNamer("", clock)

	assert.Equal(t, "motion-data_2024-05-01_09-07-03_chunk-001.csv", n.Chunk(1))
	assert.Equal(t, "motion-data_2024-05-01_09-07-03_chunk-012.csv", n.Chunk(12))
	assert.Equal(t, "motion-data_2024-05-01_09-07-03_complete.csv", n.Complete())
	assert.Equal(t, "motion-data_2024-05-01_09-07-03.csv", n.Plain())

	custom := NewFileNamer("walk", clock)
	assert.Equal(t, "walk_2024-05-01_09-07-03_chunk-100.csv", custom.Chunk(100))
}
