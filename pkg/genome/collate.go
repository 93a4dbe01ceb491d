// Package genome merges genome sequence collections at the FASTA-record
// level: many multi-record FASTA files become one directory holding one
// file per genome identifier.
package genome

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/samplekit/samplekit-go/pkg/samplekit"
)

// fastaWidth is the line width of written FASTA sequence data.
const fastaWidth = 80

// DuplicatePolicy controls how repeated genome identifiers across inputs
// are handled.
type DuplicatePolicy int

const (
	// WarnOnDuplicates keeps the latest occurrence of each repeated
	// identifier and emits one aggregated warning. Easy to misuse: earlier
	// occurrences are silently lost.
	WarnOnDuplicates DuplicatePolicy = iota

	// ErrorOnDuplicates fails the collation as soon as a repeated
	// identifier is seen.
	ErrorOnDuplicates
)

// Collator merges genome sequences into a single genome-sequences dataset.
type Collator struct {
	// ScratchDir, when set, is where the output root is created instead of
	// the system temporary directory.
	ScratchDir string

	// Strategy reproduces whole files during dataset-level collation. Nil
	// selects the default hardlink-with-copy-fallback.
	Strategy samplekit.DuplicationStrategy

	policy DuplicatePolicy
	logger logrus.FieldLogger
}

// NewCollator builds a Collator with the given duplicate-identifier policy.
// A nil logger selects a fresh logrus logger.
func NewCollator(policy DuplicatePolicy, logger logrus.FieldLogger) *Collator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Collator{policy: policy, logger: logger}
}

// CollateFASTA splits every record of the given FASTA files (plain or
// gzipped) into per-genome <id>.fasta files in a fresh genome-sequences
// dataset. Input order decides which occurrence survives a duplicate
// identifier under the warn policy.
func (c *Collator) CollateFASTA(paths []string) (*samplekit.Dataset, error) {
	out, err := c.newScratch()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	duplicates := map[string]bool{}

	for _, path := range paths {
		if err := c.splitRecords(path, out.Root(), seen, duplicates); err != nil {
			return nil, err
		}
	}

	c.warnDuplicates(duplicates)
	return out, nil
}

// CollateDatasets merges genome-sequences datasets file by file into a
// fresh dataset, applying the duplicate-identifier policy to filenames.
func (c *Collator) CollateDatasets(inputs []*samplekit.Dataset) (*samplekit.Dataset, error) {
	if len(inputs) == 0 {
		return nil, samplekit.NewConfigurationError(
			errors.New("no input datasets to collate"))
	}

	out, err := c.newScratch()
	if err != nil {
		return nil, err
	}

	strategy := c.Strategy
	if strategy == nil {
		strategy = samplekit.DefaultStrategy()
	}

	seen := map[string]bool{}
	duplicates := map[string]bool{}

	for _, in := range inputs {
		entries, err := os.ReadDir(in.Root())
		if err != nil {
			return nil, errors.Wrapf(err, "read dataset root %q", in.Root())
		}
		for _, entry := range entries {
			if entry.IsDir() || !in.Convention().Matches(entry.Name()) {
				continue
			}
			id := in.Convention().Identifier(entry.Name())
			if seen[id] {
				duplicates[id] = true
				if c.policy == ErrorOnDuplicates {
					return nil, duplicateIDsError(duplicates)
				}
			}
			seen[id] = true

			src := filepath.Join(in.Root(), entry.Name())
			dst := filepath.Join(out.Root(), entry.Name())
			if err := strategy.Reproduce(src, dst); err != nil {
				return nil, errors.Wrapf(err, "collate genome %q", id)
			}
		}
	}

	c.warnDuplicates(duplicates)
	return out, nil
}

// splitRecords streams the records of one FASTA file into per-identifier
// files under outDir.
func (c *Collator) splitRecords(path, outDir string, seen, duplicates map[string]bool) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open FASTA %q", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return samplekit.NewValidationError(errors.Wrapf(err, "gunzip %q", path))
		}
		defer gz.Close()
		r = gz
	}

	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA)))
	for sc.Next() {
		s := sc.Seq()
		id := s.Name()
		if seen[id] {
			duplicates[id] = true
			if c.policy == ErrorOnDuplicates {
				return duplicateIDsError(duplicates)
			}
		}
		seen[id] = true

		if err := writeRecord(filepath.Join(outDir, id+".fasta"), s); err != nil {
			return err
		}
	}
	if err := sc.Error(); err != nil {
		return samplekit.NewValidationError(errors.Wrapf(err, "parse FASTA %q", path))
	}
	return nil
}

func (c *Collator) warnDuplicates(duplicates map[string]bool) {
	if len(duplicates) == 0 {
		return
	}
	c.logger.WithField("ids", strings.Join(sortedIDs(duplicates), ", ")).
		Warn("duplicate sequence files were found; the latest occurrence" +
			" overwrites all previous occurrences for each corresponding ID")
}

func (c *Collator) newScratch() (*samplekit.Dataset, error) {
	if c.ScratchDir != "" {
		return samplekit.NewScratchDatasetIn(c.ScratchDir, samplekit.GenomeSequences)
	}
	return samplekit.NewScratchDataset(samplekit.GenomeSequences)
}

func duplicateIDsError(duplicates map[string]bool) error {
	return samplekit.NewValidationError(errors.Errorf(
		"duplicate sequence files were found for the following IDs: %s",
		strings.Join(sortedIDs(duplicates), ", ")))
}

func sortedIDs(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func writeRecord(path string, s seq.Sequence) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create genome file %q", path)
	}
	defer f.Close()

	w := fasta.NewWriter(f, fastaWidth)
	if _, err := w.Write(s); err != nil {
		return errors.Wrapf(err, "write genome %q", s.Name())
	}
	return f.Close()
}
