package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"motion-tracker/utils"
)

var version = "dev"

// globalOptions are shared by every subcommand.
type globalOptions struct {
	sensorsPath string
	storagePath string
	logFile     string
	logLevel    string
}

func (g *globalOptions) loadConfigs() (*utils.SensorsConfig, *utils.StorageConfig, error) {
	sensorsCfg, err := utils.LoadSensorsConfig(g.sensorsPath)
	if err != nil {
		return nil, nil, err
	}
	storageCfg, err := utils.LoadStorageConfig(g.storagePath)
	if err != nil {
		return nil, nil, err
	}
	return sensorsCfg, storageCfg, nil
}

func main() {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "motion-tracker",
		Short:         "Record accelerometer/gyroscope readings and export them as CSV",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.sensorsPath, "sensors", "", "path to sensors.yaml or sensors.toml (defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&opts.storagePath, "storage", "", "path to storage.yaml or storage.toml (defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log", "", "optional log file path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "INFO", "DEBUG, INFO, WARN or ERROR")

	rootCmd.AddCommand(recordCmd(opts))
	rootCmd.AddCommand(exportCmd(opts))
	rootCmd.AddCommand(doctorCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
