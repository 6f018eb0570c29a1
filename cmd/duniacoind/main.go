// Command duniacoind runs a full duniacoin node: the chain engine, the P2P
// dispatcher, and its background mempool-cleanup and snapshot-save tasks.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vrecan/death/v3"
	"go.uber.org/zap"

	"github.com/duniacoin/duniacoin/chain"
	"github.com/duniacoin/duniacoin/p2p"
)

func main() {
	root := &cobra.Command{
		Use:   "duniacoind",
		Short: "Run a duniacoin full node",
		RunE:  run,
	}

	flags := root.Flags()
	flags.String("listen", ":9000", "listen address for peer/wallet/miner connections")
	flags.String("snapshot", "duniacoin.snapshot", "chain snapshot file path")
	flags.StringSlice("seeds", nil, "seed peer addresses for bootstrap sync")
	flags.Duration("mempool-cleanup-interval", 30*time.Second, "mempool cleanup period")
	flags.Duration("snapshot-save-interval", 60*time.Second, "chain snapshot save period")
	flags.Uint64("initial-reward", chain.DefaultParams().InitialReward, "whole-coin block subsidy at height 0")
	flags.Uint64("halving-interval", chain.DefaultParams().HalvingInterval, "blocks between subsidy halvings")
	flags.Uint64("ideal-block-time", chain.DefaultParams().IdealBlockTime, "target seconds between blocks")
	flags.Uint64("difficulty-update-interval", chain.DefaultParams().DifficultyUpdateInterval, "blocks between retargets")
	flags.Duration("max-mempool-tx-age", chain.DefaultParams().MaxMempoolTransactionAge, "max age of an unconfirmed mempool transaction")
	flags.Int("block-tx-cap", chain.DefaultParams().BlockTransactionCap, "max transactions (coinbase included) per template")
	flags.String("config", "", "optional config file (env DUNIACOIN_* also honored)")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	viper.SetEnvPrefix("duniacoin")
	viper.AutomaticEnv()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	params := chain.Params{
		InitialReward:            viper.GetUint64("initial-reward"),
		HalvingInterval:          viper.GetUint64("halving-interval"),
		IdealBlockTime:           viper.GetUint64("ideal-block-time"),
		DifficultyUpdateInterval: viper.GetUint64("difficulty-update-interval"),
		MaxMempoolTransactionAge: viper.GetDuration("max-mempool-tx-age"),
		BlockTransactionCap:      viper.GetInt("block-tx-cap"),
		MinTarget:                chain.DefaultParams().MinTarget,
	}

	snapshotPath := viper.GetString("snapshot")
	bc, err := loadOrCreateChain(snapshotPath, params, logger)
	if err != nil {
		return err
	}

	cfg := p2p.Config{
		ListenAddr:             viper.GetString("listen"),
		SnapshotPath:           snapshotPath,
		SeedPeers:              viper.GetStringSlice("seeds"),
		MempoolCleanupInterval: viper.GetDuration("mempool-cleanup-interval"),
		SnapshotSaveInterval:   viper.GetDuration("snapshot-save-interval"),
	}
	node := p2p.NewNode(cfg, bc, logger)

	if bc.Height() == 0 && len(cfg.SeedPeers) > 0 {
		logger.Info("bootstrapping from seed peers", zap.Strings("seeds", cfg.SeedPeers))
		node.Bootstrap()
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	node.RunBackgroundTasks(ctx)

	go func() {
		if err := node.Serve(ln); err != nil {
			logger.Warn("serve stopped", zap.Error(err))
		}
	}()

	d := death.NewDeath(syscall.SIGINT, syscall.SIGTERM)
	d.WaitForDeathWithFunc(func() {
		cancel()
		_ = ln.Close()
		if err := node.SaveSnapshotNow(); err != nil {
			logger.Warn("final snapshot save failed", zap.Error(err))
		} else {
			logger.Info("chain snapshot saved, shutting down")
		}
		runtime.Goexit()
	})
	return nil
}

func loadOrCreateChain(path string, params chain.Params, logger *zap.Logger) (*chain.Blockchain, error) {
	if _, err := os.Stat(path); err == nil {
		bc, err := chain.LoadSnapshotFile(path, params)
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", path, err)
		}
		logger.Info("loaded chain snapshot", zap.Int("height", bc.Height()))
		return bc, nil
	}
	logger.Info("no snapshot found, starting empty chain")
	return chain.NewBlockchain(params), nil
}
