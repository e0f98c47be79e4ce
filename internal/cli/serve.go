package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/piwi3910/FurniCut/internal/metrics"
	"github.com/piwi3910/FurniCut/internal/project"
	"github.com/piwi3910/FurniCut/internal/server"
	"github.com/piwi3910/FurniCut/internal/service"
)

// newServeCmd creates the serve command
func newServeCmd() *cobra.Command {
	var (
		listen string
		memory bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted.

POST /furniture/cut lays out a request and stores the resulting sheet; stored
sheets are listed, fetched, deleted and exported under /furniture/sheets.
Prometheus metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if cmd.Flags().Changed("listen") {
				a.cfg.ListenAddr = listen
			}

			var store project.SheetStore
			if memory {
				store = project.NewMemoryStore()
			} else if store, err = a.openStore(); err != nil {
				return err
			}

			m := metrics.New()
			svc := service.New(store, m, a.logger.Logger, service.ConfigFrom(a.cfg))
			srv := server.New(svc, m, a.logger.Logger)

			ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("starting server",
				"addr", a.cfg.ListenAddr,
				"data_dir", storeDir(store),
				"pack_timeout", a.cfg.PackTimeout(),
			)
			return srv.ListenAndServe(ctx, a.cfg)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", ":8080", "Address to listen on")
	cmd.Flags().BoolVar(&memory, "memory", false, "Keep sheets in memory instead of the data directory")

	return cmd
}

func storeDir(store project.SheetStore) string {
	if fs, ok := store.(*project.FileStore); ok {
		return fs.Dir()
	}
	return "(memory)"
}

// background is used when a command runs without a context.
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
