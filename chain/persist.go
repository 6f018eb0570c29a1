package chain

import (
	"fmt"
	"os"
	"path/filepath"
)

// chainSnapshot is the on-disk shape of the full Blockchain value (spec
// §6): blocks, utxos, mempool and target, CBOR-encoded as one unit.
type chainSnapshot struct {
	Blocks  []*Block            `cbor:"1,keyasint"`
	UTXOs   []utxoSnapshotEntry `cbor:"2,keyasint"`
	Mempool []*MempoolEntry     `cbor:"3,keyasint"`
	Target  Target              `cbor:"4,keyasint"`
}

// Snapshot returns the canonical CBOR encoding of bc's current state.
func (bc *Blockchain) Snapshot() []byte {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	snap := chainSnapshot{
		Blocks:  bc.blocks,
		UTXOs:   bc.utxos.snapshot(),
		Mempool: bc.mempool.entries,
		Target:  bc.target,
	}
	return cborEncode(snap)
}

// LoadSnapshot decodes a chain snapshot produced by Snapshot.
func LoadSnapshot(data []byte, params Params) (*Blockchain, error) {
	var snap chainSnapshot
	if err := cborDecode(data, &snap); err != nil {
		return nil, NewError(ErrSerialization, fmt.Sprintf("decode snapshot: %v", err))
	}
	bc := NewBlockchain(params)
	bc.blocks = snap.Blocks
	bc.utxos = utxoSetFromSnapshot(snap.UTXOs)
	bc.mempool.entries = snap.Mempool
	bc.target = snap.Target
	return bc, nil
}

// SaveSnapshotFile writes bc's snapshot to path atomically: the encoding
// is written to a sibling temp file, then renamed over path (spec §4.12,
// §6).
func SaveSnapshotFile(path string, bc *Blockchain) error {
	data := bc.Snapshot()
	tmp := path + ".tmp"
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return NewError(ErrIO, fmt.Sprintf("create snapshot dir: %v", err))
		}
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return NewError(ErrIO, fmt.Sprintf("write snapshot temp file: %v", err))
	}
	if err := os.Rename(tmp, path); err != nil {
		return NewError(ErrIO, fmt.Sprintf("rename snapshot into place: %v", err))
	}
	return nil
}

// LoadSnapshotFile reads and decodes the snapshot at path.
func LoadSnapshotFile(path string, params Params) (*Blockchain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError(ErrIO, fmt.Sprintf("read snapshot file: %v", err))
	}
	return LoadSnapshot(data, params)
}
