// Command duniacoin-miner runs a standalone mining loop against a node,
// paying block rewards to a configured public key.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/duniacoin/duniacoin/chain"
	"github.com/duniacoin/duniacoin/miner"
)

func main() {
	root := &cobra.Command{
		Use:   "duniacoin-miner",
		Short: "Mine against a duniacoin node",
		RunE:  run,
	}

	flags := root.Flags()
	flags.String("node", "localhost:9000", "node address to mine against")
	flags.String("pubkey", "", "path to a SPKI/PEM public key file (see duniacoin-keygen)")
	flags.Uint64("batch-size", 500_000, "nonce-search iterations per batch")
	flags.Duration("fetch-interval", 5*time.Second, "template fetch/validate interval")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	viper.SetEnvPrefix("duniacoin_miner")
	viper.AutomaticEnv()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	pubKeyPath := viper.GetString("pubkey")
	if pubKeyPath == "" {
		return fmt.Errorf("duniacoin-miner: --pubkey is required")
	}
	data, err := os.ReadFile(pubKeyPath)
	if err != nil {
		return fmt.Errorf("read public key: %w", err)
	}
	pk, err := chain.ParseSPKI(data)
	if err != nil {
		return fmt.Errorf("parse public key: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	m := &miner.Miner{
		NodeAddr:      viper.GetString("node"),
		PubKey:        pk,
		BatchSize:     viper.GetUint64("batch-size"),
		FetchInterval: viper.GetDuration("fetch-interval"),
		Log:           logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("shutting down miner")
		cancel()
	}()

	logger.Info("mining started", zap.String("node", m.NodeAddr))
	m.Run(ctx)
	return nil
}
