package buildcache

import (
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/ecbuild/ecbuild/internal/hash"
)

// memoEntry pairs a path's modification time and size with its
// last-computed content hash, so a single build invocation never re-reads
// and re-hashes the same unchanged dependency file twice.
type memoEntry struct {
	mtimeNano int64
	size      int64
	hash      uint64
}

// hashMemo is a process-lifetime, non-persisted cache of path -> content
// hash, keyed by xxhash of the path rather than the path string itself.
// It is never written to disk; it exists only to avoid redundant
// FNV1a64File calls within one needs_recompilation sweep (a shared
// header pulled in by many translation units would otherwise be hashed
// once per including file).
type hashMemo struct {
	mu      sync.Mutex
	entries map[uint64]memoEntry
}

func newHashMemo() *hashMemo {
	return &hashMemo{entries: make(map[uint64]memoEntry)}
}

// hashPath returns path's current content hash, consulting the memo
// first. A changed mtime or size invalidates the memoized value even if
// the key collides; a stat failure bypasses the memo and returns
// hash.Zero, the same sentinel FNV1a64File itself returns on a missing
// file. A rewrite that keeps both the size and the mtime (possible on
// filesystems with coarse mtime resolution) is not detected.
func (m *hashMemo) hashPath(path string) uint64 {
	info, err := os.Stat(path)
	if err != nil {
		return hash.Zero
	}
	key := xxhash.Sum64String(path)
	mtime := info.ModTime().UnixNano()
	size := info.Size()

	m.mu.Lock()
	if e, ok := m.entries[key]; ok && e.mtimeNano == mtime && e.size == size {
		m.mu.Unlock()
		return e.hash
	}
	m.mu.Unlock()

	h := hash.FNV1a64File(path)

	m.mu.Lock()
	m.entries[key] = memoEntry{mtimeNano: mtime, size: size, hash: h}
	m.mu.Unlock()

	return h
}
