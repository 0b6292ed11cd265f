package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tranquil/internal/db"
	"github.com/balkashynov/tranquil/internal/models"
	"github.com/balkashynov/tranquil/internal/output"
	"github.com/balkashynov/tranquil/internal/watch"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show daily heart rate and HRV averages for this week",
	Long: `Show daily averages of heart rate and HRV for the current calendar week,
plus the number of workouts per day. Only days with samples are shown.

Example output:
  DAY         HR AVG  HR MIN  HR MAX  HRV AVG  SAMPLES  WORKOUTS
  Mon Mar 09  64.2    51.0    131.4   48.7     812      1
  Wed Mar 11  61.8    49.3    102.9   52.1     240      0`,
	Run: withApp(func(cmd *cobra.Command, args []string) {
		offset, _ := cmd.Flags().GetInt("weeks-ago")
		if err := showWeek(time.Now().AddDate(0, 0, -7*offset)); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

// dayStats aggregates the samples of one day
type dayStats struct {
	day        time.Time
	hrSum      float64
	hrCount    int
	hrMin      float64
	hrMax      float64
	hrvSum     float64
	hrvCount   int
	workoutIDs map[uint]bool
}

func (d *dayStats) add(s models.Sample) {
	switch s.Kind {
	case models.KindHeartRate:
		if d.hrCount == 0 || s.Value < d.hrMin {
			d.hrMin = s.Value
		}
		if d.hrCount == 0 || s.Value > d.hrMax {
			d.hrMax = s.Value
		}
		d.hrSum += s.Value
		d.hrCount++
	case models.KindHeartRateVariability:
		d.hrvSum += s.Value
		d.hrvCount++
	}
}

// summarizeWeek groups samples by local calendar day, Monday first
func summarizeWeek(samples []models.Sample, workouts []models.Workout, weekStart time.Time) []*dayStats {
	days := make([]*dayStats, 7)
	for i := range days {
		days[i] = &dayStats{day: weekStart.AddDate(0, 0, i), workoutIDs: map[uint]bool{}}
	}

	dayIndex := func(t time.Time) int {
		t = t.In(weekStart.Location())
		return (int(t.Weekday()) - 1 + 7) % 7 // Convert to 0-6 with Monday=0
	}

	for _, s := range samples {
		days[dayIndex(s.StartDate)].add(s)
	}
	for _, w := range workouts {
		days[dayIndex(w.StartedAt)].workoutIDs[w.ID] = true
	}

	var active []*dayStats
	for _, d := range days {
		if d.hrCount > 0 || d.hrvCount > 0 {
			active = append(active, d)
		}
	}
	return active
}

// showWeek prints the summary of the calendar week containing t
func showWeek(t time.Time) error {
	weekStart := getWeekStart(t)
	weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Second) // End of Sunday

	samples, err := db.SamplesInRange(weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to get samples: %w", err)
	}
	workouts, err := db.WorkoutsInRange(weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to get workouts: %w", err)
	}

	days := summarizeWeek(samples, workouts, weekStart)
	if len(days) == 0 {
		fmt.Println("No samples recorded this week.")
		return nil
	}

	ui := output.New()
	table := ui.Table([]string{"Day", "HR avg", "HR min", "HR max", "HRV avg", "Samples", "Workouts"})
	for _, d := range days {
		hrAvg, hrMin, hrMax, hrvAvg := "-", "-", "-", "-"
		if d.hrCount > 0 {
			avg := d.hrSum / float64(d.hrCount)
			hrAvg = output.HeartRateColor(avg, watch.FormatValue(avg))
			hrMin = watch.FormatValue(d.hrMin)
			hrMax = watch.FormatValue(d.hrMax)
		}
		if d.hrvCount > 0 {
			hrvAvg = watch.FormatValue(d.hrvSum / float64(d.hrvCount))
		}
		_ = table.Append([]string{
			d.day.Format("Mon Jan 02"),
			hrAvg,
			hrMin,
			hrMax,
			hrvAvg,
			fmt.Sprintf("%d", d.hrCount+d.hrvCount),
			fmt.Sprintf("%d", len(d.workoutIDs)),
		})
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Print week info
	fmt.Printf("\nWeek of %s to %s\n",
		weekStart.Format("Jan 2"),
		weekStart.AddDate(0, 0, 6).Format("Jan 2, 2006"))
	return nil
}

// getWeekStart returns the start of the calendar week (Monday) for the given time
func getWeekStart(t time.Time) time.Time {
	weekday := t.Weekday()
	daysFromMonday := int(weekday - time.Monday)
	if weekday == time.Sunday {
		daysFromMonday = 6 // Sunday is 6 days from Monday
	}

	weekStart := t.AddDate(0, 0, -daysFromMonday)
	// Set to start of day
	return time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
}

func init() {
	weekCmd.Flags().Int("weeks-ago", 0, "Show an earlier week (1 = last week)")
}
