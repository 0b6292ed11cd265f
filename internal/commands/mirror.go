package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tranquil/internal/config"
	"github.com/balkashynov/tranquil/internal/db"
	"github.com/balkashynov/tranquil/internal/mirror"
	"github.com/balkashynov/tranquil/internal/output"
	"github.com/balkashynov/tranquil/internal/watch"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Inspect or test the history mirror",
}

var mirrorListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List documents in the local mirror",
	Run: withApp(func(cmd *cobra.Command, args []string) {
		docs, err := db.GetMirrorDocuments()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(docs) == 0 {
			fmt.Println("Local mirror is empty. Rows are mirrored when 'tranquil history' shows them.")
			return
		}

		ui := output.New()
		table := ui.Table([]string{"Minute", "Date", "Value", "Written"})
		for _, d := range docs {
			segments := mirror.Split(d.Path)
			minute, full := d.Path, ""
			if len(segments) == 2 {
				minute, full = segments[0], segments[1]
			}
			_ = table.Append([]string{minute, full, watch.FormatValue(d.Value), d.UpdatedAt.Local().Format("Jan 02 15:04:05")})
		}
		if err := table.Render(); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}),
}

var mirrorPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Write a test value through the configured mirror backend",
	Run: withApp(func(cmd *cobra.Command, args []string) {
		ui := output.New()
		if cfg.MirrorBackend == config.MirrorNone {
			ui.Warning("mirror.backend is none, nothing to ping")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.MirrorTimeout)
		defer cancel()

		store, err := newMirrorStore(ctx)
		if err != nil {
			ui.Error("%v", err)
			return
		}
		if err := store.SetValue(ctx, "tranquil/ping", 1); err != nil {
			ui.Error("%s mirror: %v", cfg.MirrorBackend, err)
			return
		}
		ui.Success("%s mirror is writable", cfg.MirrorBackend)
	}),
}

func init() {
	mirrorCmd.AddCommand(mirrorListCmd)
	mirrorCmd.AddCommand(mirrorPingCmd)
}
