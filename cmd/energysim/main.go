package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/niklasweinmann/energySIM/cmd/app"
	"github.com/niklasweinmann/energySIM/internal/simulation"
	"github.com/niklasweinmann/energySIM/internal/weather"
)

func main() {
	var (
		configPath  string
		weatherPath string
		outPath     string
		verbose     bool
	)
	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "path to config file (.yaml/.yml/.json)")
	pflag.StringVarP(&weatherPath, "weather", "w", "", "path to weather series file (.yaml/.yml/.json)")
	pflag.StringVarP(&outPath, "out", "o", "", "optional CSV file for per-step results")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if weatherPath == "" {
		log.Error("a weather series file is required (--weather)")
		os.Exit(2)
	}

	cfg, err := app.Load(configPath)
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}
	building, err := cfg.Envelope()
	if err != nil {
		log.Error("build envelope", "err", err)
		os.Exit(1)
	}
	series, err := weather.Load(weatherPath)
	if err != nil {
		log.Error("load weather series", "err", err)
		os.Exit(1)
	}

	opts := cfg.SimOptions()
	opts.Logger = log

	result, err := simulation.Run(building, cfg.HeatPumpSpecs(), series, opts)
	if err != nil {
		log.Error("simulation failed", "err", err)
		os.Exit(1)
	}

	printSummary(result)

	if outPath != "" {
		if err := writeStepsCSV(outPath, result); err != nil {
			log.Error("write results", "path", outPath, "err", err)
			os.Exit(1)
		}
		log.Info("step results written", "path", outPath, "steps", len(result.Steps))
	}
}

func printSummary(result *simulation.Result) {
	s := result.Summary
	fmt.Printf("run %s: %d steps\n", result.RunID, s.Steps)
	fmt.Printf("  heat demand     %10.2f kWh\n", s.TotalHeatDemandKWh)
	fmt.Printf("  heat delivered  %10.2f kWh\n", s.TotalHeatOutputKWh)
	fmt.Printf("  defrost losses  %10.2f kWh\n", s.TotalDefrostKWh)
	fmt.Printf("  electrical      %10.2f kWh\n", s.TotalElectricalKWh)
	fmt.Printf("  average COP     %10.2f\n", s.AverageCOP)
}

func writeStepsCSV(path string, result *simulation.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"timestamp", "outside_temp", "room_temp",
		"heat_demand_kwh", "heat_output_kwh", "electrical_kwh",
		"cop", "flow_temp",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, step := range result.Steps {
		row := []string{
			step.Timestamp.Format(time.RFC3339),
			formatFloat(step.OutsideTemp),
			formatFloat(step.RoomTemp),
			formatFloat(step.HeatDemandKWh),
			formatFloat(step.HeatOutputKWh),
			formatFloat(step.ElectricalKWh),
			formatFloat(step.COP),
			formatFloat(step.FlowTemp),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
