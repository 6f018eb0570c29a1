// Command duniacoin-txgen builds and signs a transaction spending UTXOs
// owned by a private key, sourced either from a chain snapshot file or a
// running node, and writes it as a .tx.cbor artifact.
package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/duniacoin/duniacoin/chain"
	"github.com/duniacoin/duniacoin/wire"
)

func main() {
	root := &cobra.Command{
		Use:   "duniacoin-txgen [name]",
		Short: "Build and sign a duniacoin transaction",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	flags := root.Flags()
	flags.String("key", "", "path to the spender's .key.cbor private key (required)")
	flags.String("snapshot", "", "chain snapshot file to source UTXOs from")
	flags.String("node", "", "node address to query via FetchUTXOs (alternative to --snapshot)")
	flags.String("to", "", "path to the recipient's .pub.pem public key (required)")
	flags.Uint64("amount", 0, "amount to send, in smallest units (required)")
	root.MarkFlagRequired("key")
	root.MarkFlagRequired("to")
	root.MarkFlagRequired("amount")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	name := args[0]
	flags := cmd.Flags()

	keyPath, _ := flags.GetString("key")
	snapshotPath, _ := flags.GetString("snapshot")
	nodeAddr, _ := flags.GetString("node")
	toPath, _ := flags.GetString("to")
	amount, _ := flags.GetUint64("amount")

	skData, err := os.ReadFile(keyPath)
	if err != nil {
		return fmt.Errorf("read private key: %w", err)
	}
	sk, err := chain.DecodePrivateKeyCBOR(skData)
	if err != nil {
		return fmt.Errorf("decode private key: %w", err)
	}
	pk := sk.Public()

	toData, err := os.ReadFile(toPath)
	if err != nil {
		return fmt.Errorf("read recipient public key: %w", err)
	}
	to, err := chain.ParseSPKI(toData)
	if err != nil {
		return fmt.Errorf("parse recipient public key: %w", err)
	}

	entries, err := fetchUTXOs(pk, snapshotPath, nodeAddr)
	if err != nil {
		return err
	}

	tx, err := buildTransaction(sk, pk, to, amount, entries)
	if err != nil {
		return err
	}

	data := tx.CanonicalEncode()
	outPath := name + ".tx.cbor"
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write transaction: %w", err)
	}
	fmt.Printf("wrote %s (txid %s)\n", outPath, tx.ID())
	return nil
}

// fetchUTXOs sources the spendable outputs owned by pk, from a snapshot
// file if given, else by querying a live node.
func fetchUTXOs(pk chain.PublicKey, snapshotPath, nodeAddr string) ([]chain.UTXOEntry, error) {
	switch {
	case snapshotPath != "":
		bc, err := chain.LoadSnapshotFile(snapshotPath, chain.DefaultParams())
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		return bc.UTXOsForPubKey(pk), nil

	case nodeAddr != "":
		conn, err := net.DialTimeout("tcp", nodeAddr, 5*time.Second)
		if err != nil {
			return nil, fmt.Errorf("dial node: %w", err)
		}
		defer conn.Close()
		if err := wire.WriteMessage(conn, wire.FetchUTXOs{PubKey: pk}); err != nil {
			return nil, fmt.Errorf("send FetchUTXOs: %w", err)
		}
		reply, err := wire.ReadMessage(conn)
		if err != nil {
			return nil, fmt.Errorf("read UTXOs reply: %w", err)
		}
		utxos, ok := reply.(wire.UTXOs)
		if !ok {
			return nil, fmt.Errorf("unexpected reply %T to FetchUTXOs", reply)
		}
		entries := make([]chain.UTXOEntry, len(utxos.Entries))
		for i, e := range utxos.Entries {
			entries[i] = chain.UTXOEntry{Marked: e.Marked, Output: e.Output}
		}
		return entries, nil

	default:
		return nil, fmt.Errorf("one of --snapshot or --node is required")
	}
}

// buildTransaction selects unmarked UTXOs from entries covering amount,
// builds outputs paying amount to to and any remainder back to pk, and
// signs every input (spec §4.3).
func buildTransaction(sk chain.PrivateKey, pk, to chain.PublicKey, amount uint64, entries []chain.UTXOEntry) (*chain.Transaction, error) {
	var tx chain.Transaction
	var total uint64
	for _, e := range entries {
		if e.Marked {
			continue
		}
		tx.Inputs = append(tx.Inputs, chain.TransactionInput{PrevOutputHash: e.Output.Hash()})
		total += e.Output.Value
		if total >= amount {
			break
		}
	}
	if total < amount {
		return nil, fmt.Errorf("insufficient funds: have %d, need %d", total, amount)
	}

	tx.Outputs = append(tx.Outputs, chain.NewOutput(amount, to))
	if change := total - amount; change > 0 {
		tx.Outputs = append(tx.Outputs, chain.NewOutput(change, pk))
	}

	for i := range tx.Inputs {
		tx.SignInput(i, sk)
	}
	return &tx, nil
}
