package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"motion-tracker/models"
	"motion-tracker/services/ingest"
	"motion-tracker/utils"
	"motion-tracker/views"
)

func exportCmd(g *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <capture.jsonl>",
		Short: "Convert a JSON-lines motion capture to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			utils.InitLogger(utils.ParseLogLevel(g.logLevel), g.logFile, os.Stderr)
			defer utils.L().Close()
			return runExport(cmd.Context(), g, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file name inside the output dir, or - for stdout")
	return cmd
}

func runExport(ctx context.Context, g *globalOptions, capturePath, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := os.Open(capturePath)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()

	events, skipped, err := ingest.ReadCapture(f)
	if err != nil {
		return err
	}
	if skipped > 0 {
		utils.L().Warn("skipped %d malformed capture lines", skipped)
	}

	readings := make([]models.SensorReading, len(events))
	for i := range events {
		readings[i] = events[i].ToReading()
	}

	if output == "-" {
		return views.FormatCSV(os.Stdout, readings)
	}

	_, storageCfg, err := g.loadConfigs()
	if err != nil {
		return err
	}
	exporter, err := views.NewFileExporter(storageCfg)
	if err != nil {
		return err
	}
	if output == "" {
		output = views.NewFileNamer(storageCfg.Storage.FilePrefix, nil).Plain()
	}

	res, err := exporter.Export(ctx, readings, output)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s rows (%s) to %s\n",
		humanize.Comma(int64(res.Rows)), humanize.Bytes(uint64(res.Bytes)), res.Path)
	return nil
}
