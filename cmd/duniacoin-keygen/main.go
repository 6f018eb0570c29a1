// Command duniacoin-keygen generates a secp256k1 key pair and writes the
// public key as SPKI/PEM and the private key as CBOR-wrapped binary.
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
		Use:   "duniacoin-keygen [name]",
		Short: "Generate a duniacoin key pair",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	name := args[0]

	sk, pk, err := chain.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("generate key pair: %w", err)
	}

	pubPEM, err := pk.MarshalSPKI()
	if err != nil {
		return fmt.Errorf("marshal public key: %w", err)
	}
	if err := os.WriteFile(name+".pub.pem", pubPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	keyCBOR, err := chain.EncodePrivateKeyCBOR(sk)
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}
	if err := os.WriteFile(name+".key.cbor", keyCBOR, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	fmt.Printf("wrote %s.pub.pem and %s.key.cbor\n", name, name)
	fmt.Printf("address: %s\n", addr.Encode(pk))
	return nil
}
