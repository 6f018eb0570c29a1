package chain

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// TransactionOutput is an unspent-output-to-be: a value locked to a single
// public key. UniqueID exists solely so that two outputs with identical
// value and pubkey (e.g. two coinbases paying the same miner the same
// reward) still hash to distinct identities (spec §9's "Coinbase identity"
// note) — it is re-rolled on every new output, never derived
// deterministically.
type TransactionOutput struct {
	Value    uint64    `cbor:"1,keyasint"`
	UniqueID [16]byte  `cbor:"2,keyasint"`
	PubKey   PublicKey `cbor:"3,keyasint"`
}

// NewOutput builds an output paying value to pk with a fresh random id.
func NewOutput(value uint64, pk PublicKey) TransactionOutput {
	return TransactionOutput{Value: value, UniqueID: uuid.New(), PubKey: pk}
}

func (o TransactionOutput) CanonicalEncode() []byte { return cborEncode(o) }

// Hash is this output's UTXO identity: the hash of its own canonical
// encoding.
func (o TransactionOutput) Hash() Hash { return HashOf(o) }

// TransactionInput references a previously created output and proves the
// right to spend it. The signed message is exactly PrevOutputHash, verified
// against the referenced output's PubKey; there is no separate sighash.
type TransactionInput struct {
	PrevOutputHash Hash      `cbor:"1,keyasint"`
	Signature      Signature `cbor:"2,keyasint"`
}

func (in TransactionInput) CanonicalEncode() []byte { return cborEncode(in) }

// Transaction is inputs consumed plus outputs created. A coinbase
// transaction has no inputs. Its identity is computed on demand from its
// canonical encoding — never stored, so it can't go stale across mutation.
type Transaction struct {
	Inputs  []TransactionInput  `cbor:"1,keyasint"`
	Outputs []TransactionOutput `cbor:"2,keyasint"`
}

func (tx *Transaction) CanonicalEncode() []byte { return cborEncode(tx) }

// ID is the transaction's identity: the hash of its canonical encoding.
func (tx *Transaction) ID() Hash { return HashOf(tx) }

// IsCoinbase reports whether tx has no inputs.
func (tx *Transaction) IsCoinbase() bool { return len(tx.Inputs) == 0 }

// OutputSum returns the sum of tx's output values, erroring on u64
// overflow (spec §4.3's "must not overflow u64").
func (tx *Transaction) OutputSum() (uint64, error) {
	return sumValues(tx.Outputs)
}

func sumValues(outs []TransactionOutput) (uint64, error) {
	var total uint64
	for _, o := range outs {
		if total > math.MaxUint64-o.Value {
			return 0, NewError(ErrInvalidTransaction, "output sum overflows u64")
		}
		total += o.Value
	}
	return total, nil
}

// UTXOView resolves an output hash to its current value, used by standalone
// and shadow-view validation (spec §4.3, §4.5).
type UTXOView interface {
	Lookup(h Hash) (TransactionOutput, bool)
}

// ValidateStandalone implements spec §4.3: signature checks, intra-tx
// double-spend checks, and the fee (input-output) balance for a
// non-coinbase transaction evaluated against view. Coinbase transactions
// have no inputs to validate here; their output-sum constraint is a
// block-level rule (spec §4.5 step 6), not checked by this function.
//
// Returns the fee (sum of inputs minus sum of outputs) for non-coinbase
// transactions, or 0 for coinbase transactions.
func (tx *Transaction) ValidateStandalone(view UTXOView) (fee uint64, err error) {
	if tx.IsCoinbase() {
		return 0, nil
	}

	seen := make(map[Hash]struct{}, len(tx.Inputs))
	var inputSum uint64
	for _, in := range tx.Inputs {
		if _, dup := seen[in.PrevOutputHash]; dup {
			return 0, NewError(ErrDuplicateInput, fmt.Sprintf("input %s consumed twice in one transaction", in.PrevOutputHash))
		}
		seen[in.PrevOutputHash] = struct{}{}

		out, ok := view.Lookup(in.PrevOutputHash)
		if !ok {
			return 0, NewError(ErrUnknownInput, fmt.Sprintf("no such UTXO %s", in.PrevOutputHash))
		}
		if !Verify(in.PrevOutputHash, in.Signature, out.PubKey) {
			return 0, NewError(ErrInvalidSignature, fmt.Sprintf("input %s signature invalid", in.PrevOutputHash))
		}
		if inputSum > math.MaxUint64-out.Value {
			return 0, NewError(ErrInvalidTransaction, "input sum overflows u64")
		}
		inputSum += out.Value
	}

	outputSum, err := tx.OutputSum()
	if err != nil {
		return 0, err
	}
	if inputSum < outputSum {
		return 0, NewError(ErrInsufficientInputValue, fmt.Sprintf("inputs %d < outputs %d", inputSum, outputSum))
	}
	return inputSum - outputSum, nil
}

// SignInput signs input i of tx with sk, proving ownership of the PubKey
// of the output that input i references.
func (tx *Transaction) SignInput(i int, sk PrivateKey) {
	tx.Inputs[i].Signature = Sign(tx.Inputs[i].PrevOutputHash, sk)
}

// NewCoinbase builds the inputless reward transaction for a mined block:
// one output paying value to pk.
func NewCoinbase(value uint64, pk PublicKey) *Transaction {
	return &Transaction{Outputs: []TransactionOutput{NewOutput(value, pk)}}
}
