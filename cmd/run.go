package cmd

import (
	"net/http"

	"github.com/fiffu/billwatch/app"
	"github.com/fiffu/billwatch/config"
	"github.com/fiffu/billwatch/lib"
	"github.com/fiffu/billwatch/lib/fetcher"
	"github.com/fiffu/billwatch/lib/registry"
	"github.com/fiffu/billwatch/lib/render"
	"github.com/fiffu/billwatch/lib/snapshots"
	"github.com/fiffu/billwatch/lib/snapshotter"
	"github.com/fiffu/billwatch/senders"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the poll loop and the command API until interrupted",
	RunE:  runService,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// components wires everything a poll cycle needs.
func components() fx.Option {
	return fx.Options(
		fx.Provide(config.NewConfig),
		fx.Provide(NewLogger),
		fx.WithLogger(fxLogger),

		fx.Provide(app.NewTransport),
		fx.Provide(senders.NewSenderRegistry),
		fx.Provide(senders.NewDispatcher),

		fx.Provide(fetcher.NewAlisonClient),
		fx.Provide(fetcher.NewFetcher),
		fx.Provide(snapshots.NewStore),
		fx.Provide(registry.NewRegistry),
		fx.Provide(render.NewRenderer),
		fx.Provide(snapshotter.NewSnapshotter),
	)
}

func runService(cmd *cobra.Command, args []string) error {
	service := fx.New(
		components(),
		fx.Provide(lib.NewService),
		fx.Provide(app.NewAPI),

		fx.Invoke(func(*http.Server, *snapshotter.Snapshotter) {}),
	)
	service.Run()
	return service.Err()
}
