package chain

import (
	"fmt"
	"sort"
	"time"
)

// MempoolEntry is one admitted, unconfirmed transaction (spec §3's
// "sequence of (admission_time, Transaction)").
type MempoolEntry struct {
	AdmittedAt time.Time    `cbor:"1,keyasint"`
	Tx         *Transaction `cbor:"2,keyasint"`
	Fee        uint64       `cbor:"3,keyasint"`
}

// Mempool holds validated, unconfirmed transactions kept sorted so the
// highest-fee entry is always first (spec §3, §9: a priority structure is
// an acceptable substitute as long as this ordering contract holds).
type Mempool struct {
	entries []*MempoolEntry
}

func NewMempool() *Mempool {
	return &Mempool{}
}

func (mp *Mempool) Len() int { return len(mp.entries) }

// Entries returns the mempool in its current fee-descending,
// admission-time-ascending order. Callers must not mutate the result.
func (mp *Mempool) Entries() []*MempoolEntry { return mp.entries }

// TopN returns a fee-priority prefix of up to n entries, for template
// assembly (spec §4.9).
func (mp *Mempool) TopN(n int) []*MempoolEntry {
	if n >= len(mp.entries) {
		return mp.entries
	}
	return mp.entries[:n]
}

// entryConsuming finds the mempool entry, if any, with an input referencing
// prevOutputHash.
func (mp *Mempool) entryConsuming(prevOutputHash Hash) *MempoolEntry {
	for _, e := range mp.entries {
		for _, in := range e.Tx.Inputs {
			if in.PrevOutputHash == prevOutputHash {
				return e
			}
		}
	}
	return nil
}

func (mp *Mempool) insert(e *MempoolEntry) {
	mp.entries = append(mp.entries, e)
	mp.resort()
}

func (mp *Mempool) remove(target *MempoolEntry) {
	for i, e := range mp.entries {
		if e == target {
			mp.entries = append(mp.entries[:i], mp.entries[i+1:]...)
			return
		}
	}
}

func (mp *Mempool) resort() {
	sort.SliceStable(mp.entries, func(i, j int) bool {
		a, b := mp.entries[i], mp.entries[j]
		if a.Fee != b.Fee {
			return a.Fee > b.Fee
		}
		return a.AdmittedAt.Before(b.AdmittedAt)
	})
}

// SubmitTransaction runs spec §4.4: mempool admission with replace-by-fee.
// It validates tx standalone, resolves any RBF conflicts against the
// currently marked UTXOs it spends, and on success marks tx's inputs and
// inserts it into the mempool.
func (bc *Blockchain) SubmitTransaction(tx *Transaction) (fee uint64, err error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.submitLocked(tx)
}

func (bc *Blockchain) submitLocked(tx *Transaction) (uint64, error) {
	if tx.IsCoinbase() {
		return 0, NewError(ErrInvalidTransaction, "coinbase transaction cannot be submitted to the mempool")
	}

	fee, err := tx.ValidateStandalone(bc.utxos)
	if err != nil {
		return 0, err
	}

	conflicts := make(map[*MempoolEntry]struct{})
	for _, in := range tx.Inputs {
		if !bc.utxos.IsMarked(in.PrevOutputHash) {
			continue
		}
		existing := bc.mempool.entryConsuming(in.PrevOutputHash)
		if existing == nil {
			continue
		}
		conflicts[existing] = struct{}{}
	}

	for c := range conflicts {
		if fee <= c.Fee {
			return 0, NewError(ErrFeeNotHigherThanReplacement,
				fmt.Sprintf("replacement fee %d does not exceed conflicting fee %d", fee, c.Fee))
		}
	}

	newInputs := make(map[Hash]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		newInputs[in.PrevOutputHash] = struct{}{}
	}
	for c := range conflicts {
		bc.mempool.remove(c)
		for _, in := range c.Tx.Inputs {
			if _, stillConsumed := newInputs[in.PrevOutputHash]; !stillConsumed {
				bc.utxos.Unmark(in.PrevOutputHash)
			}
		}
	}

	entry := &MempoolEntry{AdmittedAt: bc.clock(), Tx: tx, Fee: fee}
	bc.mempool.insert(entry)
	for _, in := range tx.Inputs {
		bc.utxos.Mark(in.PrevOutputHash)
	}
	return fee, nil
}

// CleanupMempool implements spec §4.7: evict every entry older than
// MaxMempoolTransactionAge, unmarking its inputs unless another surviving
// entry still consumes them.
func (bc *Blockchain) CleanupMempool() {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	now := bc.clock()
	var survivors []*MempoolEntry
	var expired []*MempoolEntry
	for _, e := range bc.mempool.entries {
		if now.Sub(e.AdmittedAt) > bc.params.MaxMempoolTransactionAge {
			expired = append(expired, e)
		} else {
			survivors = append(survivors, e)
		}
	}
	if len(expired) == 0 {
		return
	}

	stillConsumed := make(map[Hash]struct{})
	for _, e := range survivors {
		for _, in := range e.Tx.Inputs {
			stillConsumed[in.PrevOutputHash] = struct{}{}
		}
	}
	for _, e := range expired {
		for _, in := range e.Tx.Inputs {
			if _, ok := stillConsumed[in.PrevOutputHash]; !ok {
				bc.utxos.Unmark(in.PrevOutputHash)
			}
		}
	}
	bc.mempool.entries = survivors
}
