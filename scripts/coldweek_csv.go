package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/niklasweinmann/energySIM/internal/envelope"
	"github.com/niklasweinmann/energySIM/internal/heatpump"
	"github.com/niklasweinmann/energySIM/internal/simulation"
	"github.com/niklasweinmann/energySIM/internal/testutil"
)

func exteriorWallLayers() []envelope.Layer {
	return []envelope.Layer{
		{Thickness: 0.015, Conductivity: 0.87},
		{Thickness: 0.175, Conductivity: 0.80},
		{Thickness: 0.16, Conductivity: 0.035},
		{Thickness: 0.015, Conductivity: 0.87},
	}
}

func SimulateColdWeek(days int, filename string) error {
	building := &envelope.Building{
		Assemblies: []*envelope.Assembly{
			envelope.NewWall("south wall", 30, envelope.South, exteriorWallLayers()),
			envelope.NewWall("north wall", 30, envelope.North, exteriorWallLayers()),
			envelope.NewWall("east wall", 25, envelope.East, exteriorWallLayers()),
			envelope.NewWall("west wall", 25, envelope.West, exteriorWallLayers()),
			envelope.NewRoof("roof", 70, exteriorWallLayers()),
			envelope.NewFloor("floor", 70, exteriorWallLayers(), true),
			envelope.NewWindow("south window", 10, envelope.South, 1.3, 0.6, 0.7, 0.9),
			envelope.NewDoor("entrance", 2, envelope.North, 1.8),
		},
		Volume:                 400,
		AirChangeRate:          0.5,
		ThermalBridgeSurcharge: 0.10,
		ThermalMassPerArea:     60,
	}

	specs := heatpump.Specifications{
		NominalPower: 10.0,
		RatingPoints: map[heatpump.RatingPoint]float64{
			{OutsideTemp: -7, FlowTemp: 35}: 2.70,
			{OutsideTemp: 2, FlowTemp: 35}:  3.40,
			{OutsideTemp: 7, FlowTemp: 35}:  4.00,
			{OutsideTemp: 10, FlowTemp: 35}: 4.40,
		},
		MinOutsideTemp:   -20.0,
		MaxFlowTemp:      60.0,
		MinPartLoadRatio: 0.3,
		DefrostThreshold: 7.0,
	}

	// A January week: -3 °C mean, 5 K day/night swing, some winter sun.
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	source := testutil.DiurnalWeather(start, days*24, -3, 5, 300)

	result, err := simulation.Run(building, specs, source, simulation.Options{})
	if err != nil {
		return fmt.Errorf("failed to run simulation: %v", err)
	}

	// Create CSV file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write CSV header
	if err := writer.Write([]string{"Hour", "Outside", "Room", "Flow", "Demand", "Output", "Electrical", "COP"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for i, step := range result.Steps {
		if err := writer.Write([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", step.OutsideTemp),
			fmt.Sprintf("%.2f", step.RoomTemp),
			fmt.Sprintf("%.2f", step.FlowTemp),
			fmt.Sprintf("%.3f", step.HeatDemandKWh),
			fmt.Sprintf("%.3f", step.HeatOutputKWh),
			fmt.Sprintf("%.3f", step.ElectricalKWh),
			fmt.Sprintf("%.2f", step.COP),
		}); err != nil {
			return fmt.Errorf("failed to write CSV record: %v", err)
		}
	}

	fmt.Printf("week total: %.1f kWh heat, %.1f kWh electrical, SPF %.2f\n",
		result.Summary.TotalHeatOutputKWh,
		result.Summary.TotalElectricalKWh,
		result.Summary.AverageCOP)

	return nil
}

func main() {
	SimulateColdWeek(7, "coldweek.csv")
}
