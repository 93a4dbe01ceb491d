package samplekit

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// DuplicationStrategy reproduces a file into a new dataset root. The
// destination must be an independent, readable artifact with the same
// content as the source; the mechanism is a cost/safety policy, not part of
// the contract.
type DuplicationStrategy interface {
	// Reproduce copies the file at src to dst, creating parent directories
	// as needed.
	Reproduce(src, dst string) error
}

// CopyStrategy reproduces files with a full byte copy.
type CopyStrategy struct{}

func (CopyStrategy) Reproduce(src, dst string) error {
	return copyFile(src, dst)
}

// HardlinkStrategy reproduces files as hard links, falling back to a full
// copy when linking fails (cross-device destinations, filesystems without
// link support). The default strategy.
type HardlinkStrategy struct{}

func (HardlinkStrategy) Reproduce(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, "make dir for %q", dst)
	}
	if err := os.Link(src, dst); err == nil {
		return nil
	} else if os.IsNotExist(err) {
		return err
	}
	return copyFile(src, dst)
}

// SymlinkStrategy reproduces files as symbolic links. The destination does
// not survive deletion of the source, so it is only safe when the source
// dataset outlives every partition.
type SymlinkStrategy struct{}

func (SymlinkStrategy) Reproduce(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, "make dir for %q", dst)
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return errors.Wrapf(err, "resolve %q", src)
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}
	return os.Symlink(abs, dst)
}

// DefaultStrategy returns the hardlink-with-copy-fallback strategy.
func DefaultStrategy() DuplicationStrategy {
	return HardlinkStrategy{}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "open file %q", src)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, "make dir for %q", dst)
	}

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "create destination file %q", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "copy file from %q to %q", src, dst)
	}
	return out.Close()
}
