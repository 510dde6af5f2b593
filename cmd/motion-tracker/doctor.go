package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"motion-tracker/controller"
	"motion-tracker/services/ingest"
	"motion-tracker/views"
)

func doctorCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: config, sensor support, output directory and exported files",
		RunE: func(cmd *cobra.Command, args []string) error {
			sensorsCfg, storageCfg, err := g.loadConfigs()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			fmt.Printf("  sensors: %s\n", orDefault(g.sensorsPath))
			fmt.Printf("  storage: %s\n", orDefault(g.storagePath))
			fmt.Printf("  mode:    %s (chunk size %d)\n", storageCfg.Recording.Mode, storageCfg.Recording.ChunkSize)

			fmt.Println("\n=== Sensors ===")
			sensors := controller.NewSensorsController(controller.SourcesFromConfig(sensorsCfg),
				sensorsCfg.Sensors.RequirePermission, nil)
			support := sensors.Support()
			fmt.Printf("  source:      %s\n", sensorsCfg.Source.Kind)
			fmt.Printf("  motion:      %v (%d Hz)\n", support.Motion, sensorsCfg.Sensors.Motion.UpdateRateHz)
			fmt.Printf("  orientation: %v (%d Hz)\n", support.Orientation, sensorsCfg.Sensors.Orientation.UpdateRateHz)
			fmt.Printf("  permission:  %s\n", sensors.Permission())
			if sensorsCfg.Source.Kind == "replay" {
				rr := ingest.NewReplayReader(sensorsCfg.Source, sensorsCfg.Sensors.Motion)
				if err := rr.Check(); err != nil {
					fmt.Printf("  replay:      %v\n", err)
				} else {
					fmt.Printf("  replay:      %s (OK)\n", sensorsCfg.Source.ReplayPath)
				}
			}

			fmt.Println("\n=== Output ===")
			dir := storageCfg.Storage.BaseDir
			info, err := os.Stat(dir)
			if err != nil {
				fmt.Printf("  %s (NOT FOUND, created on first recording)\n", dir)
				return nil
			}
			if !info.IsDir() {
				fmt.Printf("  %s (NOT A DIRECTORY)\n", dir)
				return nil
			}
			fmt.Printf("  %s (OK)\n", dir)

			files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
			if err != nil {
				return fmt.Errorf("list output: %w", err)
			}
			sort.Strings(files)

			var totalRows int64
			var totalBytes uint64
			for _, f := range files {
				rows, err := views.InspectFile(f)
				if err != nil {
					fmt.Printf("  %s: INVALID (%v)\n", filepath.Base(f), err)
					continue
				}
				var size uint64
				if info, err := os.Stat(f); err == nil {
					size = uint64(info.Size())
				}
				totalRows += int64(rows)
				totalBytes += size
				fmt.Printf("  %s: %s rows, %s\n", filepath.Base(f), humanize.Comma(int64(rows)), humanize.Bytes(size))
			}
			fmt.Printf("\n=== %d files, %s rows, %s ===\n",
				len(files), humanize.Comma(totalRows), humanize.Bytes(totalBytes))
			return nil
		},
	}
}

func orDefault(path string) string {
	if path == "" {
		return "(built-in defaults)"
	}
	return path
}
