package chain

// UTXOEntry pairs a live output with whether some mempool transaction has
// claimed it as an input (spec §3: "marked = tentatively reserved by a
// mempool transaction").
type UTXOEntry struct {
	Marked bool              `cbor:"1,keyasint"`
	Output TransactionOutput `cbor:"2,keyasint"`
}

// UTXOSet is the chain's unspent-output table, keyed by output identity.
// It is never safe for concurrent use on its own; callers hold
// Blockchain's lock around every access.
type UTXOSet struct {
	entries map[Hash]*UTXOEntry `cbor:"-"`
}

func NewUTXOSet() *UTXOSet {
	return &UTXOSet{entries: make(map[Hash]*UTXOEntry)}
}

// Lookup implements UTXOView: it resolves unmarked and marked UTXOs alike,
// since standalone validation cares only about existence and value, not
// marking state.
func (s *UTXOSet) Lookup(h Hash) (TransactionOutput, bool) {
	e, ok := s.entries[h]
	if !ok {
		return TransactionOutput{}, false
	}
	return e.Output, true
}

// Get returns the full entry, including marking state, for FetchUTXOs replies.
func (s *UTXOSet) Get(h Hash) (UTXOEntry, bool) {
	e, ok := s.entries[h]
	if !ok {
		return UTXOEntry{}, false
	}
	return *e, true
}

// IsMarked reports whether h is currently claimed by a mempool transaction.
func (s *UTXOSet) IsMarked(h Hash) bool {
	e, ok := s.entries[h]
	return ok && e.Marked
}

// Insert adds a newly created, unmarked output.
func (s *UTXOSet) Insert(h Hash, out TransactionOutput) {
	s.entries[h] = &UTXOEntry{Output: out}
}

// Remove deletes h entirely, e.g. when a confirmed transaction consumes it.
func (s *UTXOSet) Remove(h Hash) {
	delete(s.entries, h)
}

// Mark flags h as claimed by a mempool transaction. No-op if h is absent.
func (s *UTXOSet) Mark(h Hash) {
	if e, ok := s.entries[h]; ok {
		e.Marked = true
	}
}

// Unmark clears h's claim flag. No-op if h is absent.
func (s *UTXOSet) Unmark(h Hash) {
	if e, ok := s.entries[h]; ok {
		e.Marked = false
	}
}

// ByPubKey returns every entry whose output is locked to pk, for
// FetchUTXOs (spec §4.12).
func (s *UTXOSet) ByPubKey(pk PublicKey) []UTXOEntry {
	var out []UTXOEntry
	for _, e := range s.entries {
		if e.Output.PubKey.Equal(pk) {
			out = append(out, *e)
		}
	}
	return out
}

// Sum returns the total value held across every entry, used by tests
// asserting coin-conservation (spec P9).
func (s *UTXOSet) Sum() uint64 {
	var total uint64
	for _, e := range s.entries {
		total += e.Output.Value
	}
	return total
}

// Len reports the number of live UTXOs.
func (s *UTXOSet) Len() int { return len(s.entries) }

// utxoSnapshotEntry is the CBOR-serializable shape of one UTXOSet entry: a
// (hash, entry) pair in a flat slice rather than a CBOR map.
type utxoSnapshotEntry struct {
	Key   Hash      `cbor:"1,keyasint"`
	Entry UTXOEntry `cbor:"2,keyasint"`
}

func (s *UTXOSet) snapshot() []utxoSnapshotEntry {
	out := make([]utxoSnapshotEntry, 0, len(s.entries))
	for h, e := range s.entries {
		out = append(out, utxoSnapshotEntry{Key: h, Entry: *e})
	}
	return out
}

func utxoSetFromSnapshot(snap []utxoSnapshotEntry) *UTXOSet {
	s := NewUTXOSet()
	for _, se := range snap {
		entry := se.Entry
		s.entries[se.Key] = &entry
	}
	return s
}
