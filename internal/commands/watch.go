package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/balkashynov/tranquil/internal/db"
	"github.com/balkashynov/tranquil/internal/dispatch"
	"github.com/balkashynov/tranquil/internal/health"
	"github.com/balkashynov/tranquil/internal/logger"
	"github.com/balkashynov/tranquil/internal/models"
	"github.com/balkashynov/tranquil/internal/output"
	"github.com/balkashynov/tranquil/internal/tui"
	"github.com/balkashynov/tranquil/internal/watch"
)

// EndReasonStale marks a workout left unfinished by a crashed run
const EndReasonStale = "stale"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show live heart rate and HRV during a workout",
	Long: `Show live heart rate and heart rate variability. Press s to start or stop a
workout; readouts update from the samples recorded while it runs.

Opens the interactive watch surface by default, use --no-ui for plain output.

Examples:
  tranquil watch                          # Interactive, simulated sensor
  tranquil watch --simulate=false         # Only samples recorded with 'tranquil record'
  tranquil watch --no-ui --duration 2m    # Headless two minute workout`,
	Run: withApp(func(cmd *cobra.Command, args []string) {
		noUI, _ := cmd.Flags().GetBool("no-ui")
		simulate, _ := cmd.Flags().GetBool("simulate")
		duration, _ := cmd.Flags().GetDuration("duration")
		noBell, _ := cmd.Flags().GetBool("no-bell")

		if running := finishStaleWorkout(time.Now()); running != nil {
			output.New().Warning("Workout #%d is still running elsewhere, end it with 'tranquil stop' first", running.ID)
		}

		store := newHealthStore(simulate)
		defer store.Close()

		if noUI {
			if err := runHeadlessWatch(store, duration); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		pulse := tui.DefaultPulseConfig()
		pulse.Bell = !noBell
		if err := tui.RunWatchTUI(store, pulse); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "End the running workout",
	Long:  "End the running workout. A watch surface showing it sees the workout end on its own.",
	Run: withApp(func(cmd *cobra.Command, args []string) {
		workout, err := db.GetActiveWorkout()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if workout == nil {
			fmt.Println("No workout running")
			return
		}

		workout, err = db.FinishWorkout(workout.ID, time.Now(), health.EndReasonUser)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		duration := time.Duration(workout.DurationSeconds) * time.Second
		fmt.Printf("⏹️  Ended workout #%d (%s)\n", workout.ID, workout.ActivityType)
		fmt.Printf("Workout duration: %s\n", formatDuration(duration))
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running workout",
	Run: withApp(func(cmd *cobra.Command, args []string) {
		workout, err := db.GetActiveWorkout()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if workout == nil {
			fmt.Println("No workout running")
			return
		}

		fmt.Printf("🏃 Workout #%d running (%s)\n", workout.ID, workout.ActivityType)
		fmt.Printf("Started at: %s\n", workout.StartedAt.Local().Format("15:04:05"))
		fmt.Printf("Elapsed time: %s\n", formatDuration(time.Since(workout.StartedAt)))

		for _, kind := range health.ReadKinds {
			samples, err := db.SamplesAfter(kind, workout.StartedAt, 0)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			if len(samples) == 0 {
				continue
			}
			last := samples[len(samples)-1]
			fmt.Printf("Last %s: %s %s (%d samples)\n", kind.Label(), watch.FormatValue(last.Value), last.Unit, len(samples))
		}
	}),
}

// staleAfter is how long a running workout may go without samples before a
// new watch treats it as abandoned
const staleAfter = 2 * time.Minute

// finishStaleWorkout ends a workout a previous run never finished, so the
// store can start a new one. A workout with recent activity is left alone
// and returned; another watch is probably still showing it.
func finishStaleWorkout(now time.Time) *models.Workout {
	workout, err := db.GetActiveWorkout()
	if err != nil || workout == nil {
		return nil
	}

	last, err := db.LastWorkoutActivity(workout)
	if err != nil {
		logger.Logger.WithError(err).Warn("failed to read workout activity")
		return workout
	}
	if now.Sub(last) < staleAfter {
		logger.Logger.WithFields(logrus.Fields{
			"workout_id":    workout.ID,
			"last_activity": last,
		}).Info("running workout is still active")
		return workout
	}

	if _, err := db.FinishWorkout(workout.ID, now, EndReasonStale); err != nil {
		logger.Logger.WithError(err).Warn("failed to finish stale workout")
		return workout
	}
	logger.Logger.WithField("workout_id", workout.ID).Info("finished stale workout")
	return nil
}

// consoleLabels prints label changes and haptic cues as lines
type consoleLabels struct {
	ui *output.UI
}

func (c *consoleLabels) SetHeartRate(text string) {
	c.ui.Info("HR  %s", colorReadout(text))
}

func (c *consoleLabels) SetVariability(text string) {
	c.ui.Info("HRV %s", colorReadout(text))
}

func (c *consoleLabels) SetButtonTitle(title string) {
	c.ui.VerboseLog("button: %s", title)
}

func (c *consoleLabels) Play(h watch.HapticType) {
	c.ui.Heart("haptic %s", h)
}

func colorReadout(text string) string {
	switch text {
	case watch.NotAllowed, watch.NotAvailable:
		return output.Red(text)
	case watch.NoData, watch.Placeholder:
		return output.Faint(text)
	}
	return output.Cyan(text)
}

// runHeadlessWatch drives the watch controller on a dispatch loop: it starts
// a workout, runs it for duration (or until interrupted) and ends it.
func runHeadlessWatch(store health.Store, duration time.Duration) error {
	ui := output.New()
	loop := dispatch.NewLoop()
	defer loop.Close()

	labels := &consoleLabels{ui: ui}
	controller := watch.NewController(store, loop, labels, labels)

	loop.Dispatch(controller.Awake)

	state, _ := onLoop(loop, controller.Gate().State)
	deadline := time.Now().Add(5 * time.Second)
	for state == watch.GatePending {
		if time.Now().After(deadline) {
			return fmt.Errorf("health store did not answer the authorization request")
		}
		time.Sleep(50 * time.Millisecond)
		state, _ = onLoop(loop, controller.Gate().State)
	}

	switch state {
	case watch.GateDenied:
		ui.Error("Health access denied")
		return nil
	case watch.GateUnavailable:
		ui.Error("Health data not available")
		return nil
	}

	loop.Dispatch(controller.Start)
	if !waitFor(loop, controller, watch.Active, 5*time.Second) {
		return fmt.Errorf("workout did not start")
	}
	since, _ := onLoop(loop, func() time.Time { t, _ := controller.Since(); return t })
	ui.Success("Workout started at %s", since.Local().Format("15:04:05"))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	var timeout <-chan time.Time
	if duration > 0 {
		timeout = time.After(duration)
	}

	ended := make(chan struct{})
	go func() {
		// the workout may also end from 'tranquil stop'
		if waitFor(loop, controller, watch.Inactive, 0) {
			close(ended)
		}
	}()

	select {
	case <-interrupt:
	case <-timeout:
	case <-ended:
		ui.Success("Workout ended elsewhere after %s", formatDuration(time.Since(since)))
		return nil
	}

	loop.Dispatch(controller.Stop)
	select {
	case <-ended:
	case <-time.After(5 * time.Second):
		return fmt.Errorf("workout did not confirm its end")
	}
	ui.Success("Workout ended after %s", formatDuration(time.Since(since)))
	return nil
}

// onLoop runs fn on the loop and returns its result. It returns false if the
// loop stopped before fn ran.
func onLoop[T any](loop *dispatch.Loop, fn func() T) (T, bool) {
	result := make(chan T, 1)
	loop.Dispatch(func() { result <- fn() })
	select {
	case v := <-result:
		return v, true
	case <-loop.Done():
		select {
		case v := <-result:
			return v, true
		default:
			var zero T
			return zero, false
		}
	}
}

// waitFor polls the controller state on the loop until it equals want.
// A zero timeout waits until the loop stops.
func waitFor(loop *dispatch.Loop, controller *watch.Controller, want watch.State, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		state, ok := onLoop(loop, controller.State)
		if !ok {
			return false
		}
		if state == want {
			return true
		}
		if timeout > 0 && time.Now().After(deadline) {
			return false
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}

func init() {
	watchCmd.Flags().Bool("no-ui", false, "Plain output instead of the interactive surface")
	watchCmd.Flags().Bool("simulate", true, "Feed simulated sensor samples while a workout runs")
	watchCmd.Flags().Duration("duration", 0, "With --no-ui, end the workout after this long (0 = until interrupted)")
	watchCmd.Flags().Bool("no-bell", false, "Do not ring the terminal bell on haptic cues")
}
