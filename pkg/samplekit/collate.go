package samplekit

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Collator merges an ordered sequence of partition datasets back into a
// single dataset: files are reproduced into one fresh root, manifests are
// concatenated, fixed metadata is taken last-wins. Inputs are never
// mutated.
type Collator struct {
	// ScratchDir, when set, is where the output root is created instead of
	// the system temporary directory.
	ScratchDir string

	strategy DuplicationStrategy
	logger   logrus.FieldLogger
}

// NewCollator builds a Collator. A nil strategy selects the default
// hardlink-with-copy-fallback; a nil logger selects a fresh logrus logger.
func NewCollator(strategy DuplicationStrategy, logger logrus.FieldLogger) *Collator {
	if strategy == nil {
		strategy = DefaultStrategy()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Collator{strategy: strategy, logger: logger}
}

// Collate merges inputs, in order, into one fresh dataset. Same-named files
// from later inputs overwrite earlier ones with a warning; partitions
// produced by a single partitioning call are disjoint and never trigger
// one. A sample whose manifest rows resolve to no existing file at all is a
// ValidationError.
func (c *Collator) Collate(inputs []*Dataset) (*Dataset, error) {
	if len(inputs) == 0 {
		return nil, NewConfigurationError(errors.New("no input datasets to collate"))
	}
	conv := inputs[0].Convention()

	out, err := c.newScratch(conv)
	if err != nil {
		return nil, err
	}

	var merged *Manifest
	var metaPath string

	for _, in := range inputs {
		if conv.HasManifest() {
			m, err := c.collateManifestBacked(in, out)
			if err != nil {
				return nil, err
			}
			if merged == nil {
				merged = &Manifest{Header: m.Header}
			}
			merged.Rows = append(merged.Rows, m.Rows...)
		} else if err := c.collateByWalk(in, out); err != nil {
			return nil, err
		}

		if conv.MetadataName != "" {
			path := filepath.Join(in.Root(), conv.MetadataName)
			if _, err := os.Stat(path); err == nil {
				metaPath = path
			}
		}
	}

	if merged != nil {
		if err := WriteManifestFile(out.ManifestPath(), merged, conv.RoleComment); err != nil {
			return nil, err
		}
	}
	if metaPath != "" {
		dst := filepath.Join(out.Root(), conv.MetadataName)
		if err := copyFile(metaPath, dst); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// collateManifestBacked reproduces one input's files row by row, driven by
// its manifest, and returns the decoded manifest for concatenation.
func (c *Collator) collateManifestBacked(in, out *Dataset) (*Manifest, error) {
	m, err := in.Manifest()
	if err != nil {
		return nil, err
	}

	for _, id := range m.SampleOrder() {
		reproduced := 0
		for _, row := range m.RowsFor(id) {
			rel := filepath.FromSlash(row.Filename)
			src := filepath.Join(in.Root(), rel)
			if _, err := os.Stat(src); err != nil {
				c.logger.WithField("sample", id).
					Debugf("manifest references %q but the file is absent", row.Filename)
				continue
			}

			dst := filepath.Join(out.Root(), rel)
			if _, err := os.Stat(dst); err == nil {
				c.logger.WithFields(logrus.Fields{
					"sample": id,
					"file":   row.Filename,
				}).Warn("duplicate file encountered during collation; overwriting")
			}
			if err := c.strategy.Reproduce(src, dst); err != nil {
				return nil, errors.Wrapf(err, "collate sample %q", id)
			}
			reproduced++
		}
		if reproduced == 0 {
			return nil, NewValidationError(errors.Errorf(
				"sample %q has no reproducible files", id))
		}
	}
	return m, nil
}

// collateByWalk reproduces one manifest-less input entry by entry. Sample
// subdirectories merge additively by name; flat files overwrite same-named
// prior output with a warning.
func (c *Collator) collateByWalk(in, out *Dataset) error {
	conv := in.Convention()

	entries, err := os.ReadDir(in.Root())
	if err != nil {
		return errors.Wrapf(err, "read dataset root %q", in.Root())
	}

	for _, entry := range entries {
		if entry.IsDir() {
			if err := c.mergeSampleDir(in, out, entry.Name()); err != nil {
				return err
			}
			continue
		}
		if entry.Name() == conv.MetadataName {
			continue
		}

		src := filepath.Join(in.Root(), entry.Name())
		dst := filepath.Join(out.Root(), entry.Name())
		if _, err := os.Stat(dst); err == nil {
			c.logger.WithField("file", entry.Name()).
				Warn("duplicate file encountered during collation; overwriting")
		}
		if err := c.strategy.Reproduce(src, dst); err != nil {
			return errors.Wrapf(err, "collate file %q", entry.Name())
		}
	}
	return nil
}

func (c *Collator) mergeSampleDir(in, out *Dataset, sample string) error {
	dstDir := filepath.Join(out.Root(), sample)
	if _, err := os.Stat(dstDir); err == nil {
		c.logger.WithField("sample", sample).
			Warn("sample directory already present in output; merging additively")
	}

	entries, err := os.ReadDir(filepath.Join(in.Root(), sample))
	if err != nil {
		return errors.Wrapf(err, "read sample directory %q", sample)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		src := filepath.Join(in.Root(), sample, entry.Name())
		dst := filepath.Join(dstDir, entry.Name())
		if err := c.strategy.Reproduce(src, dst); err != nil {
			return errors.Wrapf(err, "collate sample %q", sample)
		}
	}
	return nil
}

func (c *Collator) newScratch(conv Convention) (*Dataset, error) {
	if c.ScratchDir != "" {
		return NewScratchDatasetIn(c.ScratchDir, conv)
	}
	return NewScratchDataset(conv)
}
