// Command cyclebench calibrates the cycle-counter instrumentation
// overhead on the current host and prints the statistical breakdown of
// the calibration samples.
package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/shdlab/cyclebench"
	"github.com/spf13/cobra"
)

var (
	entries    int
	printCount int
	platform   string
)

var rootCmd = &cobra.Command{
	Use:   "cyclebench",
	Short: "Calibrate cycle-counter measurement overhead on this host.",
	Long: `cyclebench measures the cost of its own cycle-counter instrumentation, ` +
		`validates the measurement statistically, and reports the correction that ` +
		`later measurements should subtract from raw tick deltas.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().IntVarP(&entries, "entries", "n", 10000,
		"number of calibration samples per round")
	rootCmd.Flags().IntVarP(&printCount, "print", "p", 10,
		"number of raw samples to print before the statistics")
	rootCmd.Flags().StringVar(&platform, "platform", "",
		"override platform detection (opteron, opteron2, xeon, xeon2, niagara, ryzen5-3600, i3-7020u)")
}

func run(cmd *cobra.Command, args []string) error {
	opts := []cyclebench.Option{
		cyclebench.WithOutput(os.Stdout),
	}

	if platform != "" {
		opts = append(opts, cyclebench.WithPlatform(parsePlatform(platform)))
	}

	p := cyclebench.NewProfiler(opts...)
	p.Calibrate(entries)
	p.Report(0, entries, printCount)

	return nil
}

func parsePlatform(name string) cyclebench.Platform {
	for _, p := range []cyclebench.Platform{
		cyclebench.PlatformOpteron,
		cyclebench.PlatformOpteron2,
		cyclebench.PlatformXeon,
		cyclebench.PlatformXeon2,
		cyclebench.PlatformNiagara,
		cyclebench.PlatformRyzen53600,
		cyclebench.PlatformI37020U,
	} {
		if p.String() == name {
			return p
		}
	}

	slog.Warn("unrecognized platform name, using detection fallback", "platform", name)
	return cyclebench.PlatformUnknown
}

func main() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
