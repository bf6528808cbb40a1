// Package image describes the firmware image handed to the bootloader.
//
// The bootloader reads the image from its own USB medium; phyboot only needs
// the base name. When the file is also present locally, Inspect reports its
// size and a short BLAKE2b-256 fingerprint so the operator can match what was
// booted against what was built.
package image

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
)

// Info describes an image file.
type Info struct {
	Path        string
	Name        string
	Size        int64
	Fingerprint string
}

// Fingerprint returns the first 10 bytes (20 hex chars) of the BLAKE2b-256
// digest of r.
func Fingerprint(r io.Reader) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:10]), nil
}

// Inspect opens path and fingerprints it. A missing file returns an error
// wrapping os.ErrNotExist.
func Inspect(path string) (Info, error) {
	info := Info{Path: path, Name: filepath.Base(path)}
	f, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return info, err
	}
	if st.IsDir() {
		return info, fmt.Errorf("%s is a directory", path)
	}
	info.Size = st.Size()

	fp, err := Fingerprint(f)
	if err != nil {
		return info, fmt.Errorf("fingerprint %s: %w", path, err)
	}
	info.Fingerprint = fp
	return info, nil
}
