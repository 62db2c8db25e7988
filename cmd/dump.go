package cmd

import (
	"os"

	"github.com/fiffu/billwatch/lib/snapshotter"
	"github.com/fiffu/billwatch/senders"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the bill updates the next cycle would send",
	Long: `Dump fetches every bill, compares it with the stored snapshot and prints
the rendered messages to stdout. Nothing is sent and nothing is saved.`,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	var snaps *snapshotter.Snapshotter
	var log *zap.Logger

	// The app is never started, so the poll loop and its hooks stay idle.
	preview := fx.New(components(), fx.NopLogger, fx.Populate(&snaps, &log))
	if err := preview.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	msgs, err := snaps.Preview(ctx)
	if err != nil {
		return err
	}

	out := senders.NewConsoleSender(os.Stdout)
	for _, msg := range msgs {
		if _, err := out.Send(ctx, "", msg); err != nil {
			return err
		}
	}
	log.Sugar().Infow("Dump complete", "messages", len(msgs))
	return nil
}
