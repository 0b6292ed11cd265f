package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for tranquil",
	Long:  `Display detailed help for all tranquil commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
 _                              _ _
| |_ _ __ __ _ _ __   __ _ _   _(_) |
| __| '__/ _' | '_ \ / _' | | | | | |
| |_| | | (_| | | | | (_| | |_| | | |
 \__|_|  \__,_|_| |_|\__, |\__,_|_|_|
                        |_|

tranquil - heart rate and HRV viewer

COMMANDS:

  watch                   Live heart rate and HRV during a workout
    --no-ui               Plain output, starts a workout right away
    --duration            With --no-ui, end the workout after this long
    --simulate            Feed simulated sensor samples (default true)
    --no-bell             No terminal bell on haptic cues

    Quick actions:
      s/space       Start/stop workout
      esc/q         End workout and quit
      ctrl+c        Force quit

    Readouts:
      58.2          Latest value, one decimal
      N/A           Health data not available
      n/a           Health access denied
      /             Live query could not be set up

  stop                    End the running workout (from another terminal)
  status                  Show the running workout and its last readouts

  history                 Heart rate samples of the past week
    --window              Look-back: 36 hours, 3 days, 2 weeks
    --no-ui               Plain table

    Quick actions:
      ↑/↓           Navigate samples
      ←/→           Change page
      r             Refresh (clears and reloads)
      esc/q         Quit

  record <sample>         Record a sample with smart parsing
    -k, --kind            hr or hrv
    -V, --value           Sample value
    -s, --source          Sample source

    Smart syntax:
      hr|hrv        Sample kind (default hr)
      at 14:05      Time today (or at dd/mm/yyyy 14:05)
      20m ago       Relative time
      #source       Source tag

    Example:
      tranquil record "hr 63.4 at 14:05 #chest-strap"

  week                    Daily HR and HRV averages for this week
    --weeks-ago           Show an earlier week

  mirror ls               List documents in the local mirror
  mirror ping             Test the configured mirror backend

  help                    Show this help
  version                 Show version information

GLOBAL FLAGS:
  --config                Config file (default ~/.tranquil/config.yaml)
  --log-level             debug, info, warn, error

CONFIGURATION (~/.tranquil/config.yaml, or TRANQUIL_* env vars):
  db_path                         SQLite database (~/.tranquil/tranquil.db)
  log_file, log_level             Log output (~/.tranquil/tranquil.log, info)
  health.available                false simulates a device without health data
  health.authorization            grant | deny
  health.poll_interval            Live query poll interval (500ms)
  simulator.interval              Simulated heart rate interval (1s)
  simulator.hrv_every             One HRV sample every N heart rate samples (5)
  mirror.backend                  local | firebase | none
  mirror.timeout                  Per-write timeout (10s)
  mirror.firebase.database_url    Realtime Database URL
  mirror.firebase.credentials_file  Service account JSON
  history.window                  Default history look-back (7 days)
`)
}
