package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-discovery/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default is "+api.DefaultAddr+")")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting the talent-discovery api", zap.String("version", version))

	st, err := openStore(config.Store, logger)
	if err != nil {
		logger.Error("opening the profile store", zap.Error(err))
		return err
	}
	defer st.Close()

	logger.Info("profile store opened",
		zap.String("backend", config.Store.Backend),
		zap.String("path", config.Store.Path),
	)

	svc := newSearchService(ctx, config, st, logger)

	return api.NewServer(config.Server, st, svc, logger).Run(ctx)
}
