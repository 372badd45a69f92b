package fsutil

import (
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

// MkdirForFile ensures the parent directory of fileName exists.
func MkdirForFile(fileName string) error {
	return os.MkdirAll(filepath.Dir(fileName), os.ModePerm)
}

// OpenTempFile opens "<fullPath>.<rand>" exclusively, same directory as
// fullPath so a later rename is same-filesystem and atomic.
func OpenTempFile(fullPath string) (*os.File, error) {
	tmpName := fullPath + "." + strconv.Itoa(rand.Int())
	return os.OpenFile(tmpName, os.O_RDWR|os.O_CREATE|os.O_EXCL, os.ModePerm)
}

// ReplaceFileExt swaps fileName's extension for newExt (which should
// include the leading dot).
func ReplaceFileExt(fileName string, newExt string) string {
	ext := filepath.Ext(fileName)
	return fileName[:len(fileName)-len(ext)] + newExt
}
