package buildcache

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ecbuild/ecbuild/internal/ecberr"
	"github.com/ecbuild/ecbuild/internal/fsutil"
)

// pathFieldSize is the fixed, NUL-terminated width of every path field in
// the on-disk record so incremental state survives a deleted build directory.
const pathFieldSize = 4096

// Load reads <projectDir>/.eventchains/cache.dat. A missing file, a
// version mismatch, an over-limit entry count, or a short read all
// degrade to an empty cache rather than erroring the build — only the
// returned error communicates *why*, for logging.
func Load(projectDir string) (*Cache, error) {
	c := empty(projectDir)
	path := filepath.Join(c.CacheDir, FileName)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, ecberr.Wrap(ecberr.CacheIOFailed, path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return empty(projectDir), ecberr.Wrap(ecberr.CacheCorrupt, "reading version", err)
	}
	if version != FormatVersion {
		return empty(projectDir), ecberr.New(ecberr.CacheCorrupt, fmt.Sprintf("version mismatch: have %d, want %d", version, FormatVersion))
	}

	var count int64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return empty(projectDir), ecberr.Wrap(ecberr.CacheCorrupt, "reading entry count", err)
	}
	if count < 0 || count > MaxEntries {
		return empty(projectDir), overflowError(count)
	}

	entries := make(map[string]*Entry, count)
	for i := int64(0); i < count; i++ {
		entry, err := readEntry(r)
		if err != nil {
			return empty(projectDir), ecberr.Wrap(ecberr.CacheCorrupt, fmt.Sprintf("reading entry %d", i), err)
		}
		entries[entry.SourcePath] = entry
	}

	c.Version = version
	c.Entries = entries
	return c, nil
}

// Save atomically persists c: write to cache.dat.tmp, rename over
// cache.dat. On write failure the temp file is removed and the previous
// cache.dat (if any) is left intact.
func Save(c *Cache) error {
	if err := os.MkdirAll(c.CacheDir, os.ModePerm); err != nil {
		return ecberr.Wrap(ecberr.CacheIOFailed, c.CacheDir, err)
	}

	finalPath := filepath.Join(c.CacheDir, FileName)
	tmp, err := fsutil.OpenTempFile(finalPath)
	if err != nil {
		return ecberr.Wrap(ecberr.CacheIOFailed, "creating temp cache file", err)
	}
	tmpName := tmp.Name()

	if err := writeCache(tmp, c); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return ecberr.Wrap(ecberr.CacheIOFailed, "writing cache", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return ecberr.Wrap(ecberr.CacheIOFailed, "closing temp cache file", err)
	}

	if err := os.Rename(tmpName, finalPath); err != nil {
		// some platforms can't rename over an existing file: fall back to
		// remove-then-rename so incremental state survives a deleted build directory.
		if rmErr := os.Remove(finalPath); rmErr == nil {
			if err2 := os.Rename(tmpName, finalPath); err2 == nil {
				return nil
			}
		}
		_ = os.Remove(tmpName)
		return ecberr.Wrap(ecberr.CacheIOFailed, "renaming cache file into place", err)
	}
	return nil
}

func writeCache(w io.Writer, c *Cache) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, FormatVersion); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int64(len(c.Entries))); err != nil {
		return err
	}
	for _, e := range c.Entries {
		if err := writeEntry(bw, e); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeEntry(w io.Writer, e *Entry) error {
	if err := writeFixedString(w, e.SourcePath); err != nil {
		return err
	}
	if err := writeFixedString(w, e.ObjectPath); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, e.SourceHash); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, e.SourceMtime); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, e.LastCompiled); err != nil {
		return err
	}

	depCount := len(e.Deps)
	if depCount > MaxDepsPerEntry {
		depCount = MaxDepsPerEntry
	}

	for i := 0; i < MaxDepsPerEntry; i++ {
		p := ""
		if i < depCount {
			p = e.Deps[i].Path
		}
		if err := writeFixedString(w, p); err != nil {
			return err
		}
	}
	for i := 0; i < MaxDepsPerEntry; i++ {
		var h uint64
		if i < depCount {
			h = e.Deps[i].Hash
		}
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(depCount)); err != nil {
		return err
	}

	valid := byte(0)
	if e.Valid {
		valid = 1
	}
	_, err := w.Write([]byte{valid})
	return err
}

func readEntry(r io.Reader) (*Entry, error) {
	e := &Entry{}

	var err error
	if e.SourcePath, err = readFixedString(r); err != nil {
		return nil, err
	}
	if e.ObjectPath, err = readFixedString(r); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &e.SourceHash); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &e.SourceMtime); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &e.LastCompiled); err != nil {
		return nil, err
	}

	paths := make([]string, MaxDepsPerEntry)
	for i := 0; i < MaxDepsPerEntry; i++ {
		p, err := readFixedString(r)
		if err != nil {
			return nil, err
		}
		paths[i] = p
	}
	hashes := make([]uint64, MaxDepsPerEntry)
	for i := 0; i < MaxDepsPerEntry; i++ {
		if err := binary.Read(r, binary.LittleEndian, &hashes[i]); err != nil {
			return nil, err
		}
	}
	var depCount uint64
	if err := binary.Read(r, binary.LittleEndian, &depCount); err != nil {
		return nil, err
	}
	if depCount > MaxDepsPerEntry {
		depCount = MaxDepsPerEntry
	}

	e.Deps = make([]DepHash, 0, depCount)
	for i := uint64(0); i < depCount; i++ {
		e.Deps = append(e.Deps, DepHash{Path: paths[i], Hash: hashes[i]})
	}

	var valid [1]byte
	if _, err := io.ReadFull(r, valid[:]); err != nil {
		return nil, err
	}
	e.Valid = valid[0] != 0

	return e, nil
}

func writeFixedString(w io.Writer, s string) error {
	buf := make([]byte, pathFieldSize)
	if len(s) >= pathFieldSize {
		s = s[:pathFieldSize-1]
	}
	copy(buf, s)
	_, err := w.Write(buf)
	return err
}

func readFixedString(r io.Reader) (string, error) {
	buf := make([]byte, pathFieldSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n]), nil
}
