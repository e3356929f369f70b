package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultListen = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hh-matcher http server",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default is "+defaultListen+")")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hh-matcher server", zap.String("version", version))

	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	eng, err := newEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("wiring the engine", zap.Error(err))
	}

	srv := server.New(server.Deps{
		Logger:    logger,
		Resumes:   eng.resumes,
		Search:    eng.hh,
		Ranker:    eng.ranker,
		Scheduler: eng.scheduler,
		Ledger:    eng.ledger,
		Stats:     eng.stats,
	})

	listen := defaultListen
	if config.Server != nil && config.Server.Listen != "" {
		listen = config.Server.Listen
	}
	if flagListen := viper.GetString("server.listen"); flagListen != "" {
		listen = flagListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(listen)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		eng.scheduler.Stop()
		if err := srv.Shutdown(); err != nil {
			logger.Error("shutting down http server", zap.Error(err))
		}
	}
}
