// Command duniacoin-blockgen assembles and mines a single block against a
// chain snapshot, for seeding test fixtures and development chains.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/duniacoin/duniacoin/chain"
	"github.com/duniacoin/duniacoin/miner"
)

func main() {
	root := &cobra.Command{
		Use:   "duniacoin-blockgen [name]",
		Short: "Mine a single duniacoin block against a chain snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	flags := root.Flags()
	flags.String("snapshot", "", "chain snapshot to mine against (omitted: a fresh empty chain)")
	flags.String("pubkey", "", "path to the miner's .pub.pem public key (required)")
	flags.StringSlice("tx", nil, "paths to .tx.cbor transactions to admit to the mempool before mining")
	flags.Bool("update", false, "append the mined block to --snapshot and save it")
	root.MarkFlagRequired("pubkey")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	name := args[0]
	flags := cmd.Flags()

	snapshotPath, _ := flags.GetString("snapshot")
	pubKeyPath, _ := flags.GetString("pubkey")
	txPaths, _ := flags.GetStringSlice("tx")
	update, _ := flags.GetBool("update")

	pubData, err := os.ReadFile(pubKeyPath)
	if err != nil {
		return fmt.Errorf("read public key: %w", err)
	}
	pk, err := chain.ParseSPKI(pubData)
	if err != nil {
		return fmt.Errorf("parse public key: %w", err)
	}

	bc, err := loadOrCreateChain(snapshotPath)
	if err != nil {
		return err
	}

	for _, p := range txPaths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read transaction %s: %w", p, err)
		}
		tx, err := chain.DecodeTransaction(data)
		if err != nil {
			return fmt.Errorf("decode transaction %s: %w", p, err)
		}
		if _, err := bc.SubmitTransaction(tx); err != nil {
			return fmt.Errorf("admit transaction %s: %w", p, err)
		}
	}

	blk := bc.BuildTemplate(pk)
	solved := false
	for !solved {
		blk.Header, solved = miner.MineBatch(blk.Header, 1_000_000, time.Now)
	}

	if update {
		if err := bc.AppendBlock(blk); err != nil {
			return fmt.Errorf("append mined block to chain: %w", err)
		}
		if snapshotPath == "" {
			snapshotPath = name + ".snapshot"
		}
		if err := chain.SaveSnapshotFile(snapshotPath, bc); err != nil {
			return fmt.Errorf("save updated snapshot: %w", err)
		}
		fmt.Printf("appended block to %s (height %d)\n", snapshotPath, bc.Height())
	}

	outPath := name + ".block.cbor"
	if err := os.WriteFile(outPath, blk.CanonicalEncode(), 0o644); err != nil {
		return fmt.Errorf("write block: %w", err)
	}
	fmt.Printf("wrote %s (hash %s)\n", outPath, blk.Hash())
	return nil
}

func loadOrCreateChain(path string) (*chain.Blockchain, error) {
	if path == "" {
		return chain.NewBlockchain(chain.DefaultParams()), nil
	}
	if _, err := os.Stat(path); err != nil {
		return chain.NewBlockchain(chain.DefaultParams()), nil
	}
	return chain.LoadSnapshotFile(path, chain.DefaultParams())
}
