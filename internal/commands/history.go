package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tranquil/internal/dispatch"
	"github.com/balkashynov/tranquil/internal/health"
	"github.com/balkashynov/tranquil/internal/history"
	"github.com/balkashynov/tranquil/internal/mirror"
	"github.com/balkashynov/tranquil/internal/output"
	"github.com/balkashynov/tranquil/internal/parser"
	"github.com/balkashynov/tranquil/internal/tui"
	"github.com/balkashynov/tranquil/internal/watch"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"ls"},
	Short:   "List recent heart rate samples",
	Long: `List the heart rate samples of the past week. Every row shown is also written
to the mirror (see mirror.backend in the config).

Examples:
  tranquil history                    # Interactive list, r to refresh
  tranquil history --window "2 days"  # Shorter look-back
  tranquil history --no-ui            # Plain table`,
	Run: withApp(func(cmd *cobra.Command, args []string) {
		noUI, _ := cmd.Flags().GetBool("no-ui")

		windowText := cfg.HistoryWindow
		if w, _ := cmd.Flags().GetString("window"); w != "" {
			windowText = w
		}
		window, err := parser.ParseWindow(windowText)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		ctx := context.Background()
		mirrorStore, err := newMirrorStore(ctx)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		writer := mirror.NewAsyncWriter(mirrorStore, cfg.MirrorTimeout)
		// Let the last writes land before the database closes
		defer writer.Wait()

		store := newHealthStore(false)
		defer store.Close()

		if noUI {
			if err := printHistory(store, writer, window); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
			return
		}

		if err := tui.RunHistoryTUI(store, writer, window); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

// tableView collects lister callbacks for a one-shot table
type tableView struct {
	done        chan struct{}
	unavailable *watch.GateState
}

func (t *tableView) Reload() {}

func (t *tableView) EndRefreshing() {
	select {
	case <-t.done:
	default:
		close(t.done)
	}
}

func (t *tableView) ShowUnavailable(state watch.GateState) {
	t.unavailable = &state
}

// printHistory loads the list once on a dispatch loop and prints every row
func printHistory(store health.Store, writer mirror.Writer, window time.Duration) error {
	ui := output.New()
	loop := dispatch.NewLoop()
	defer loop.Close()

	view := &tableView{done: make(chan struct{})}
	lister := history.NewLister(store, loop, writer, view)
	lister.Window = window

	loop.Dispatch(lister.Load)
	select {
	case <-view.done:
	case <-time.After(10 * time.Second):
		return fmt.Errorf("health store did not answer in time")
	}

	type line struct {
		row    history.Row
		sample float64
		source string
		age    string
	}
	lines, _ := onLoop(loop, func() []line {
		var out []line
		now := time.Now()
		for i := 0; i < lister.Len(); i++ {
			row, _ := lister.Row(i)
			s, _ := lister.Sample(i)
			out = append(out, line{row: row, sample: s.Value, source: s.Source, age: parser.FormatAge(s.StartDate, now)})
		}
		return out
	})

	if view.unavailable != nil {
		if *view.unavailable == watch.GateDenied {
			ui.Error("Health data not available: access denied")
		} else {
			ui.Error("Health data not available")
		}
		return nil
	}

	if len(lines) == 0 {
		fmt.Println("No heart rate samples found. Use 'tranquil watch' or 'tranquil record' to add some.")
		return nil
	}

	table := ui.Table([]string{"BPM", "DATE", "AGE", "ZONE", "SOURCE"})
	for _, l := range lines {
		_ = table.Append([]string{
			output.HeartRateColor(l.sample, l.row.Title),
			l.row.Detail,
			l.age,
			output.Zone(l.sample),
			l.source,
		})
	}
	if err := table.Render(); err != nil {
		return err
	}
	ui.Info("%d samples, mirrored to %s", len(lines), cfg.MirrorBackend)
	return nil
}

func init() {
	historyCmd.Flags().Bool("no-ui", false, "Plain table instead of the interactive list")
	historyCmd.Flags().String("window", "", "Look-back window: X hours, X days, X weeks (default from config, 7 days)")
}
