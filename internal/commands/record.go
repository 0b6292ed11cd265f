package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tranquil/internal/db"
	"github.com/balkashynov/tranquil/internal/models"
	"github.com/balkashynov/tranquil/internal/parser"
	"github.com/balkashynov/tranquil/internal/watch"
)

var recordCmd = &cobra.Command{
	Use:   "record [sample]",
	Short: "Record a sample with smart parsing",
	Long: `Record a heart rate or HRV sample in the local health store.

Smart syntax:
  hr|hrv        Sample kind (default hr)
  63.4          Value (bpm for hr, ms for hrv)
  at 14:05      Time today, or at dd/mm/yyyy 14:05
  20m ago       Relative time
  #source       Where the sample came from

Examples:
  tranquil record "hr 63.4 at 14:05 #chest-strap"
  tranquil record "hrv 41 20m ago"
  tranquil record --kind hrv --value 38.5`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string) {
		now := time.Now()

		var parsed parser.ParsedSample
		if len(args) == 1 {
			parsed = parser.ParseSampleLine(args[0], now)
		} else {
			parsed = parser.ParsedSample{Kind: models.KindHeartRate, Errors: []string{}}
			if !cmd.Flags().Changed("value") {
				parsed.Errors = append(parsed.Errors, "Missing value. Pass a sample line or --value")
			}
		}

		// Flags override parsed values
		if kind, _ := cmd.Flags().GetString("kind"); kind != "" {
			k, err := parser.NormalizeKind(kind)
			if err != nil {
				parsed.Errors = append(parsed.Errors, err.Error())
			} else {
				parsed.Kind = k
			}
		}
		if cmd.Flags().Changed("value") {
			parsed.Value, _ = cmd.Flags().GetFloat64("value")
			parsed.Errors = dropValueErrors(parsed.Errors)
		}
		if source, _ := cmd.Flags().GetString("source"); source != "" {
			parsed.Source = source
		}

		if len(parsed.Errors) > 0 {
			for _, e := range parsed.Errors {
				fmt.Printf("Error: %s\n", e)
			}
			return
		}

		sample := models.Sample{
			Kind:   parsed.Kind,
			Value:  parsed.Value,
			Source: parsed.Source,
		}
		if parsed.StartDate != nil {
			sample.StartDate = *parsed.StartDate
		} else {
			sample.StartDate = now
		}
		if sample.Source == "" {
			sample.Source = "manual"
		}

		// Attach to the running workout, if any
		if workout, err := db.GetActiveWorkout(); err == nil && workout != nil && !sample.StartDate.Before(workout.StartedAt) {
			sample.WorkoutID = &workout.ID
		}

		if err := db.InsertSample(&sample); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("✅ Recorded %s %s %s at %s\n",
			sample.Kind.Label(),
			watch.FormatValue(sample.Value),
			sample.Unit,
			sample.StartDate.Local().Format("Jan 02 15:04"))
	}),
}

// dropValueErrors removes value errors superseded by --value
func dropValueErrors(errs []string) []string {
	out := errs[:0]
	for _, e := range errs {
		if strings.HasPrefix(e, "Missing value") || strings.HasPrefix(e, "Invalid value") {
			continue
		}
		out = append(out, e)
	}
	return out
}

func init() {
	recordCmd.Flags().StringP("kind", "k", "", "Sample kind: hr or hrv")
	recordCmd.Flags().Float64P("value", "V", 0, "Sample value")
	recordCmd.Flags().StringP("source", "s", "", "Sample source")
}
