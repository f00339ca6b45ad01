package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

const sovereignAccountPrefix = "bridge/sovereign/"

// SovereignAccount derives the ledger account that fronts a destination
// chain on this side of the bridge. The derivation is pure: the same dest
// always yields the same account, on every node and across restarts, so the
// account can be pre-funded before any message for that destination arrives.
func SovereignAccount(dest Destination) Account {
	seed := make([]byte, 0, len(sovereignAccountPrefix)+4)
	seed = append(seed, sovereignAccountPrefix...)
	seed = binary.BigEndian.AppendUint32(seed, uint32(dest))
	digest := sha256.Sum256(seed)
	return Account("brdg:" + hex.EncodeToString(digest[:20]))
}
