// Command duniacoin-print decodes and pretty-prints a .tx.cbor, .block.cbor,
// or chain snapshot file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/duniacoin/duniacoin/addr"
	"github.com/duniacoin/duniacoin/chain"
)

func main() {
	root := &cobra.Command{
		Use:   "duniacoin-print [file]",
		Short: "Pretty-print a duniacoin transaction, block, or chain snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	root.Flags().String("kind", "", `force interpretation: "tx", "block", or "snapshot" (default: guess from contents)`)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]
	kind, _ := cmd.Flags().GetString("kind")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if kind == "" {
		kind = guessKind(path)
	}

	switch kind {
	case "tx":
		tx, err := chain.DecodeTransaction(data)
		if err != nil {
			return fmt.Errorf("decode transaction: %w", err)
		}
		printTransaction(tx)
	case "block":
		blk, err := chain.DecodeBlock(data)
		if err != nil {
			return fmt.Errorf("decode block: %w", err)
		}
		printBlock(blk)
	case "snapshot":
		bc, err := chain.LoadSnapshot(data, chain.DefaultParams())
		if err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		printSnapshot(bc)
	default:
		return fmt.Errorf("cannot determine file kind for %s; pass --kind", path)
	}
	return nil
}

func guessKind(path string) string {
	switch {
	case hasSuffix(path, ".tx.cbor"):
		return "tx"
	case hasSuffix(path, ".block.cbor"):
		return "block"
	default:
		return "snapshot"
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func printTransaction(tx *chain.Transaction) {
	fmt.Printf("transaction %s\n", tx.ID())
	fmt.Printf("  coinbase: %v\n", tx.IsCoinbase())
	for i, in := range tx.Inputs {
		fmt.Printf("  input[%d]: spends %s\n", i, in.PrevOutputHash)
	}
	for i, out := range tx.Outputs {
		fmt.Printf("  output[%d]: %d to %s (address %s)\n", i, out.Value, out.Hash(), addr.Encode(out.PubKey))
	}
}

func printBlock(blk *chain.Block) {
	fmt.Printf("block %s\n", blk.Hash())
	fmt.Printf("  prev:        %s\n", blk.Header.PrevBlockHash)
	fmt.Printf("  timestamp:   %s\n", blk.Header.Timestamp)
	fmt.Printf("  nonce:       %d\n", blk.Header.Nonce)
	fmt.Printf("  target:      %s\n", blk.Header.Target)
	fmt.Printf("  merkle_root: %s\n", blk.Header.MerkleRoot)
	fmt.Printf("  transactions: %d\n", len(blk.Transactions))
	for i, tx := range blk.Transactions {
		fmt.Printf("  --- tx[%d] ---\n", i)
		printTransaction(tx)
	}
}

func printSnapshot(bc *chain.Blockchain) {
	fmt.Printf("chain snapshot\n")
	fmt.Printf("  height:        %d\n", bc.Height())
	fmt.Printf("  tip:           %s\n", bc.Tip())
	fmt.Printf("  target:        %s\n", bc.Target())
	fmt.Printf("  mempool size:  %d\n", bc.MempoolSize())
	for i := 0; i < bc.Height(); i++ {
		blk, _ := bc.BlockAt(i)
		fmt.Printf("  block[%d]: %s (%d txs)\n", i, blk.Hash(), len(blk.Transactions))
	}
}
