package views

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motion-tracker/models"
	"motion-tracker/utils"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 123_000_000, time.UTC)

func fixtureReadings() []models.SensorReading {
	return []models.SensorReading{
		{
			TimestampNs:   baseTime.UnixNano(),
			Accelerometer: models.Accelerometer{X: 0.1, Y: -0.25, Z: 9.80665},
			Gyroscope:     models.Gyroscope{Alpha: 1.5, Beta: -0.000001, Gamma: 0},
		},
		{
			TimestampNs:   baseTime.Add(16 * time.Millisecond).UnixNano(),
			Accelerometer: models.Accelerometer{X: 1, Y: 2, Z: 3},
			Gyroscope:     models.Gyroscope{Alpha: -45.1234564, Beta: 90, Gamma: 180},
		},
	}
}

func generated(n int) []models.SensorReading {
	out := make([]models.SensorReading, n)
	for i := range out {
		out[i] = models.SensorReading{
			TimestampNs:   baseTime.Add(time.Duration(i) * time.Millisecond).UnixNano(),
			Accelerometer: models.Accelerometer{X: float64(i), Y: -float64(i), Z: 9.81},
		}
	}
	return out
}

func TestFormatCSV_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatCSV(&buf, fixtureReadings()))

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "motion_rows", buf.Bytes())
}

func TestFormatCSV_RowCountMatchesInput(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		var buf bytes.Buffer
		require.NoError(t, FormatCSV(&buf, generated(n)))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, n+1, "n=%d", n)
		assert.Equal(t, MotionColumns, records[0], "header always present (n=%d)", n)
	}
}

func newExporter(t *testing.T, mutate func(*utils.StorageConfig)) *FileExporter {
	t.Helper()
	cfg := utils.DefaultStorageConfig()
	cfg.Storage.BaseDir = filepath.Join(t.TempDir(), "out")
	if mutate != nil {
		mutate(cfg)
	}
	e, err := NewFileExporter(cfg)
	require.NoError(t, err)
	return e
}

func TestFileExporter_WritesFile(t *testing.T) {
	e := newExporter(t, nil)

	res, err := e.Export(context.Background(), generated(25), "session.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(e.Dir(), "session.csv"), res.Path)
	assert.Equal(t, 25, res.Rows)
	assert.Positive(t, res.Bytes)

	rows, err := InspectFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, 25, rows)
}

func TestFileExporter_EmptyDatasetWritesNothing(t *testing.T) {
	e := newExporter(t, nil)

	_, err := e.Export(context.Background(), nil, "empty.csv")
	require.ErrorIs(t, err, ErrEmptyDataset)

	_, statErr := os.Stat(filepath.Join(e.Dir(), "empty.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileExporter_AlwaysWritesHeader(t *testing.T) {
	e := newExporter(t, nil)

	res, err := e.Export(context.Background(), generated(1), "one.csv")
	require.NoError(t, err)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(MotionColumns, ","), lines[0])
}

func TestFileExporter_KeepsExistingFile(t *testing.T) {
	e := newExporter(t, nil)
	ctx := context.Background()
	name := "motion-data_2024-05-01_12-00-00_complete.csv"

	first, err := e.Export(ctx, generated(1), name)
	require.NoError(t, err)
	second, err := e.Export(ctx, generated(2), name)
	require.NoError(t, err)
	third, err := e.Export(ctx, generated(3), name)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(e.Dir(), name), first.Path)
	assert.Equal(t, filepath.Join(e.Dir(), "motion-data_2024-05-01_12-00-00_complete-2.csv"), second.Path)
	assert.Equal(t, filepath.Join(e.Dir(), "motion-data_2024-05-01_12-00-00_complete-3.csv"), third.Path)

	for path, want := range map[string]int{first.Path: 1, second.Path: 2, third.Path: 3} {
		rows, err := InspectFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, rows, path)
	}
}

func TestFileExporter_OverwriteAllowed(t *testing.T) {
	e := newExporter(t, func(c *utils.StorageConfig) { c.Storage.Overwrite = true })
	ctx := context.Background()

	_, err := e.Export(ctx, generated(1), "dup.csv")
	require.NoError(t, err)
	res, err := e.Export(ctx, generated(3), "dup.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, filepath.Join(e.Dir(), "dup.csv"), res.Path)

	rows, err := InspectFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
}

func TestFileExporter_CancelledContext(t *testing.T) {
	e := newExporter(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Export(ctx, generated(1), "late.csv")
	require.ErrorIs(t, err, context.Canceled)
}

func TestInspectFile_RejectsForeignHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c,d,e,f,g\n1,2,3,4,5,6,7\n"), 0644))

	_, err := InspectFile(path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), `"a"`))
}

func TestCheckHeader_MatchesModel(t *testing.T) {
	require.NoError(t, CheckHeader(models.SensorReading{}.CSVHeader()))
	assert.Error(t, CheckHeader([]string{"timestamp"}))
}
