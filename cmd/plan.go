package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/go-travel-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-travel-planner/internal/container"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

var (
	planPayload types.TripRequestPayload
	planOut     string
	planMapOut  string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate one itinerary and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := itinerary.ParseTripRequest(planPayload, time.Now())
		if err != nil {
			return err
		}

		metrics.InitAppMetrics()
		c := container.NewContainer(cmd.Context(), &cfg, logger, metrics.Get())

		result, err := c.ItineraryService.GenerateItinerary(cmd.Context(), req)
		if err != nil {
			return err
		}

		printResult(cmd.OutOrStdout(), result)

		if planOut != "" {
			path := planOut
			if fi, err := os.Stat(planOut); err == nil && fi.IsDir() {
				path = strings.TrimRight(planOut, "/") + "/" + result.DownloadName
			}
			if err := os.WriteFile(path, []byte(result.Itinerary), 0o644); err != nil {
				return fmt.Errorf("writing itinerary: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Itinerary saved to %s\n", path)
		}

		if planMapOut != "" && result.Map != nil {
			data, err := json.MarshalIndent(result.Map, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding map: %w", err)
			}
			if err := os.WriteFile(planMapOut, data, 0o644); err != nil {
				return fmt.Errorf("writing map: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Map data saved to %s\n", planMapOut)
		}
		return nil
	},
}

func printResult(w io.Writer, result *types.ItineraryResult) {
	fmt.Fprintf(w, "Your trip to %s\n\n%s\n", result.Destination, result.Itinerary)

	if len(result.Locations) > 0 {
		fmt.Fprintln(w, "\nLocations:")
		for _, loc := range result.Locations {
			fmt.Fprintf(w, "  Day %d  %-40s %9.4f, %9.4f\n", loc.Day, loc.Name, loc.Lat, loc.Lon)
		}
	} else {
		fmt.Fprintln(w, "\nNo map data available for this itinerary.")
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&planPayload.Destination, "destination", "", "Where to go, e.g. \"Paris, France\"")
	f.StringVar(&planPayload.StartDate, "start-date", "", "Optional start date (YYYY-MM-DD)")
	f.IntVar(&planPayload.DurationDays, "days", 3, "Trip length in days")
	f.StringVar(&planPayload.BudgetLevel, "budget", string(types.BudgetModerate), "Budget level: tight, moderate or flexible")
	f.StringVar(&planPayload.StayType, "stay", string(types.StayHotel), "Stay type: hostel, hotel, resort or homestay")
	f.StringVar(&planPayload.Interests, "interests", "", "Free-text interests")
	f.StringVar(&planOut, "out", "", "Write the itinerary text to this file or directory")
	f.StringVar(&planMapOut, "map-out", "", "Write the map data as GeoJSON to this file")
	_ = planCmd.MarkFlagRequired("destination")
	rootCmd.AddCommand(planCmd)
}
