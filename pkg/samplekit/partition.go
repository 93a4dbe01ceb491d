package samplekit

import (
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Partition is one output of a partitioning call: a dataset holding a
// contiguous subset of the source's samples. Key is the sample identifier
// when partitioning one sample per partition, otherwise the 1-based chunk
// index in decimal.
type Partition struct {
	Key     string
	Dataset *Dataset
}

// Partitioner splits a dataset into balanced per-sample groups, each
// materialized as an independent dataset with duplicated files and a
// regenerated manifest.
type Partitioner struct {
	// ScratchDir, when set, is where partition roots are created instead
	// of the system temporary directory.
	ScratchDir string

	strategy DuplicationStrategy
	logger   logrus.FieldLogger
}

// NewPartitioner builds a Partitioner. A nil strategy selects the default
// hardlink-with-copy-fallback; a nil logger selects a fresh logrus logger.
func NewPartitioner(strategy DuplicationStrategy, logger logrus.FieldLogger) *Partitioner {
	if strategy == nil {
		strategy = DefaultStrategy()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Partitioner{strategy: strategy, logger: logger}
}

// sampleArtifacts is one sample's worth of files, as root-relative paths,
// with its manifest rows when the domain carries a manifest.
type sampleArtifacts struct {
	id    string
	rows  []ManifestRow
	files []string
}

// Partition splits ds into numPartitions datasets of nearly equal sample
// counts. numPartitions zero selects one partition per sample; a negative
// value is a ConfigurationError. Requesting more partitions than samples
// logs a warning and clamps to the sample count. The source dataset is
// never mutated.
func (p *Partitioner) Partition(ds *Dataset, numPartitions int) ([]Partition, error) {
	samples, header, err := collectSamples(ds)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, NewValidationError(errors.New("dataset has no samples"))
	}

	k, err := p.validateNumPartitions(len(samples), numPartitions)
	if err != nil {
		return nil, err
	}

	meta, err := ds.Metadata()
	if err != nil {
		return nil, err
	}
	conv := ds.Convention()
	if meta == nil && conv.MetadataName != "" {
		meta = DefaultReadMetadata()
	}

	perSample := k == len(samples)
	chunks := splitChunks(samples, k)

	partitions := make([]Partition, 0, k)
	for i, chunk := range chunks {
		out, err := p.newScratch(conv)
		if err != nil {
			return nil, err
		}

		var rows []ManifestRow
		for _, sample := range chunk {
			for _, rel := range sample.files {
				src := filepath.Join(ds.Root(), rel)
				dst := filepath.Join(out.Root(), rel)
				if err := p.strategy.Reproduce(src, dst); err != nil {
					if errors.Is(err, fs.ErrNotExist) {
						return nil, NewIntegrityError(errors.Wrapf(err,
							"sample %q: file vanished before duplication", sample.id))
					}
					return nil, errors.Wrapf(err, "partition sample %q", sample.id)
				}
			}
			rows = append(rows, sample.rows...)
		}

		if conv.HasManifest() {
			m := &Manifest{Header: header, Rows: rows}
			if err := WriteManifestFile(out.ManifestPath(), m, conv.RoleComment); err != nil {
				return nil, err
			}
		}
		if conv.MetadataName != "" {
			path := filepath.Join(out.Root(), conv.MetadataName)
			if err := WriteMetadataFile(path, meta); err != nil {
				return nil, err
			}
		}

		key := strconv.Itoa(i + 1)
		if perSample {
			key = chunk[0].id
		}
		partitions = append(partitions, Partition{Key: key, Dataset: out})
	}

	return partitions, nil
}

// validateNumPartitions resolves the requested partition count against the
// sample count: zero defaults to one partition per sample, anything past
// the sample count is clamped with a warning, negatives are rejected.
func (p *Partitioner) validateNumPartitions(numSamples, requested int) (int, error) {
	switch {
	case requested == 0:
		return numSamples, nil
	case requested < 0:
		return 0, NewConfigurationError(errors.Errorf(
			"invalid partition count %d: must be at least 1", requested))
	case requested > numSamples:
		p.logger.WithFields(logrus.Fields{
			"requested": requested,
			"samples":   numSamples,
		}).Warnf("you have requested a number of partitions '%d' that is greater"+
			" than your number of samples '%d'; your data will be partitioned by"+
			" sample into '%d' partitions", requested, numSamples, numSamples)
		return numSamples, nil
	default:
		return requested, nil
	}
}

func (p *Partitioner) newScratch(conv Convention) (*Dataset, error) {
	if p.ScratchDir != "" {
		return NewScratchDatasetIn(p.ScratchDir, conv)
	}
	return NewScratchDataset(conv)
}

// collectSamples lists the dataset's samples, each with its root-relative
// files, in the dataset's natural order: manifest row order when the domain
// carries a manifest, sorted index order otherwise. The second return is
// the source manifest's header, nil for manifest-less domains.
func collectSamples(ds *Dataset) ([]sampleArtifacts, []string, error) {
	conv := ds.Convention()

	if conv.HasManifest() {
		m, err := ds.Manifest()
		if err != nil {
			return nil, nil, err
		}
		var samples []sampleArtifacts
		for _, id := range m.SampleOrder() {
			sa := sampleArtifacts{id: id, rows: m.RowsFor(id)}
			for _, row := range sa.rows {
				sa.files = append(sa.files, filepath.FromSlash(row.Filename))
			}
			samples = append(samples, sa)
		}
		return samples, m.Header, nil
	}

	ix, err := ds.Index()
	if err != nil {
		return nil, nil, err
	}
	var samples []sampleArtifacts
	for _, id := range ix.Samples() {
		sa := sampleArtifacts{id: id}
		files := ix.Files(id)
		for _, secondary := range ix.SecondaryIDs(id) {
			rel, err := filepath.Rel(ds.Root(), files[secondary])
			if err != nil {
				return nil, nil, errors.Wrapf(err, "relativize %q", files[secondary])
			}
			sa.files = append(sa.files, rel)
		}
		samples = append(samples, sa)
	}
	return samples, nil, nil
}

// splitChunks divides samples into k contiguous chunks whose sizes differ
// by at most one: the first len(samples) mod k chunks get the larger size.
func splitChunks(samples []sampleArtifacts, k int) [][]sampleArtifacts {
	n := len(samples)
	size, extra := n/k, n%k

	chunks := make([][]sampleArtifacts, 0, k)
	start := 0
	for i := 0; i < k; i++ {
		end := start + size
		if i < extra {
			end++
		}
		chunks = append(chunks, samples[start:end])
		start = end
	}
	return chunks
}
