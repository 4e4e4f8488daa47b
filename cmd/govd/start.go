package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	cmtconfig "github.com/cometbft/cometbft/config"
	cmtflags "github.com/cometbft/cometbft/libs/cli/flags"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	nm "github.com/cometbft/cometbft/node"
	"github.com/cometbft/cometbft/p2p"
	"github.com/cometbft/cometbft/privval"
	"github.com/cometbft/cometbft/proxy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/timburman/Reactive-Governance/app"
	app_config "github.com/timburman/Reactive-Governance/config"
	"github.com/timburman/Reactive-Governance/indexer"
	"github.com/timburman/Reactive-Governance/types"
	"golang.org/x/sync/errgroup"
)

const stopTimeout = 10 * time.Second

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the governance node",
	Args:  cobra.ExactArgs(0),
	RunE:  startRun,
}

func init() {
	startCmd.Flags().String(types.FlagHome, "", "node home directory")
}

func loadConfig(home string) (*app_config.Config, error) {
	if home == "" {
		home = os.ExpandEnv(app_config.DefaultHomeDir)
	}
	appConfig := &app_config.Config{
		Config: app_config.DefaultGovCometConfig(),
		App:    app_config.DefaultGovAppConfig(home),
	}
	appConfig.SetRoot(home)

	v := viper.New()
	v.SetConfigFile(filepath.Join(home, "config", "config.toml"))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := v.Unmarshal(appConfig); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	appConfig.App.Home = home
	if err := appConfig.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("invalid configuration data: %w", err)
	}
	return appConfig, nil
}

func startRun(cmd *cobra.Command, args []string) error {
	home, _ := cmd.Flags().GetString(types.FlagHome)
	appConfig, err := loadConfig(home)
	if err != nil {
		return err
	}

	pv := privval.LoadFilePV(
		appConfig.PrivValidatorKeyFile(),
		appConfig.PrivValidatorStateFile(),
	)
	nodeKey, err := p2p.LoadNodeKey(appConfig.NodeKeyFile())
	if err != nil {
		return fmt.Errorf("failed to load node's key: %w", err)
	}

	logger := cmtlog.NewTMLogger(cmtlog.NewSyncWriter(os.Stdout))
	logger, err = cmtflags.ParseLogLevel(appConfig.LogLevel, logger, cmtconfig.DefaultLogLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	govApp, err := app.NewGovApp(appConfig.App, logger, reg)
	if err != nil {
		return fmt.Errorf("new app: %w", err)
	}

	node, err := nm.NewNode(
		appConfig.Config,
		pv,
		nodeKey,
		proxy.NewLocalClientCreator(govApp),
		nm.DefaultGenesisDocProviderFunc(appConfig.Config),
		cmtconfig.DefaultDBProvider,
		nm.DefaultMetricsProvider(appConfig.Instrumentation),
		logger,
	)
	if err != nil {
		govApp.Stop()
		return fmt.Errorf("creating node: %w", err)
	}

	govApp.Start(node.BlockStore())
	if err = node.Start(); err != nil {
		govApp.Stop()
		return fmt.Errorf("start comet node: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	if appConfig.App.IndexerRPC != "" {
		idx, err := indexer.NewChainIndexer(logger, appConfig.App.IndexerDBPath(), appConfig.App.IndexerRPC)
		if err != nil {
			stopNode(node, govApp, logger)
			return fmt.Errorf("new chain indexer: %w", err)
		}
		defer idx.Close()
		svc := indexer.NewService(appConfig.App.IndexerListen, idx, reg)
		g.Go(func() error { return idx.Start(gctx) })
		g.Go(func() error { return svc.Start(gctx) })
	}

	<-gctx.Done()
	logger.Info("shutting down")
	stop()
	stopNode(node, govApp, logger)
	return g.Wait()
}

func stopNode(node *nm.Node, govApp *app.GovApp, logger cmtlog.Logger) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := node.Stop(); err != nil {
			logger.Error("stop comet node fail", "err", err)
		}
		node.Wait()
		govApp.Stop()
	}()
	select {
	case <-time.After(stopTimeout):
		logger.Error("shutdown timed out")
		os.Exit(1)
	case <-done:
	}
}
