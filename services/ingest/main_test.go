package ingest

import (
	"io"
	"os"
	"testing"

	"motion-tracker/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger(utils.ERROR, "", io.Discard)
	os.Exit(m.Run())
}
