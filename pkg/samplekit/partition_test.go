package samplekit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionThreeSamplesTwoChunks(t *testing.T) {
	ds := newReadsDataset(t, []string{"s1", "s2", "s3"}, false)

	p := NewPartitioner(CopyStrategy{}, nil)
	p.ScratchDir = t.TempDir()

	partitions, err := p.Partition(ds, 2)
	require.NoError(t, err)
	require.Len(t, partitions, 2)

	assert.Equal(t, "1", partitions[0].Key)
	assert.Equal(t, "2", partitions[1].Key)

	m1, err := partitions[0].Dataset.Manifest()
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, m1.SampleOrder())

	m2, err := partitions[1].Dataset.Manifest()
	require.NoError(t, err)
	assert.Equal(t, []string{"s3"}, m2.SampleOrder())

	for _, part := range partitions {
		require.NoError(t, part.Dataset.Validate())
	}
}

func TestPartitionPairedDefault(t *testing.T) {
	ds := newReadsDataset(t, []string{"s1", "s2"}, true)

	p := NewPartitioner(CopyStrategy{}, nil)
	p.ScratchDir = t.TempDir()

	partitions, err := p.Partition(ds, 0)
	require.NoError(t, err)
	require.Len(t, partitions, 2)

	assert.Equal(t, "s1", partitions[0].Key)
	assert.Equal(t, "s2", partitions[1].Key)

	for i, part := range partitions {
		m, err := part.Dataset.Manifest()
		require.NoError(t, err)
		require.Len(t, m.Rows, 2)
		sample := []string{"s1", "s2"}[i]

		fwd := filepath.Join(part.Dataset.Root(), fastqName(sample, 1))
		rev := filepath.Join(part.Dataset.Root(), fastqName(sample, 2))
		assert.Equal(t, "@"+sample+"/1\nACGT\n+\nIIII\n", readGzipFile(t, fwd))
		assert.Equal(t, "@"+sample+"/2\nTGCA\n+\nIIII\n", readGzipFile(t, rev))
	}
}

func TestPartitionClampWarnsOnce(t *testing.T) {
	ds := newReadsDataset(t, []string{"s1", "s2"}, false)

	logger, hook := logtest.NewNullLogger()
	p := NewPartitioner(CopyStrategy{}, logger)
	p.ScratchDir = t.TempDir()

	partitions, err := p.Partition(ds, 5)
	require.NoError(t, err)
	assert.Len(t, partitions, 2)

	var warnings []*logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings = append(warnings, entry)
		}
	}
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "'5'")
	assert.Contains(t, warnings[0].Message, "'2'")
	assert.Equal(t, 5, warnings[0].Data["requested"])
	assert.Equal(t, 2, warnings[0].Data["samples"])
}

func TestPartitionNegativeCount(t *testing.T) {
	ds := newReadsDataset(t, []string{"s1"}, false)

	p := NewPartitioner(CopyStrategy{}, nil)
	_, err := p.Partition(ds, -1)
	require.Error(t, err)
	var cerr ConfigurationError
	assert.True(t, errors.As(err, &cerr))
}

func TestPartitionBalancedSplit(t *testing.T) {
	samples := []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7"}
	ds := newReadsDataset(t, samples, false)

	p := NewPartitioner(CopyStrategy{}, nil)
	p.ScratchDir = t.TempDir()

	partitions, err := p.Partition(ds, 3)
	require.NoError(t, err)
	require.Len(t, partitions, 3)

	var sizes []int
	total := 0
	for _, part := range partitions {
		got, err := part.Dataset.Samples()
		require.NoError(t, err)
		sizes = append(sizes, len(got))
		total += len(got)
	}
	assert.Equal(t, []int{3, 2, 2}, sizes)
	assert.Equal(t, len(samples), total)
}

func TestPartitionMetadataCarriedVerbatim(t *testing.T) {
	ds := newReadsDataset(t, []string{"s1", "s2"}, false)

	p := NewPartitioner(CopyStrategy{}, nil)
	p.ScratchDir = t.TempDir()

	partitions, err := p.Partition(ds, 2)
	require.NoError(t, err)

	for _, part := range partitions {
		meta, err := part.Dataset.Metadata()
		require.NoError(t, err)
		assert.Equal(t, 33, meta["phred-offset"])
	}
}

func TestPartitionMissingFileIsIntegrityError(t *testing.T) {
	ds := newReadsDataset(t, []string{"s1", "s2"}, false)
	require.NoError(t, os.Remove(filepath.Join(ds.Root(), fastqName("s2", 1))))

	p := NewPartitioner(CopyStrategy{}, nil)
	p.ScratchDir = t.TempDir()

	_, err := p.Partition(ds, 0)
	require.Error(t, err)
	var ierr IntegrityError
	assert.True(t, errors.As(err, &ierr))
}

func TestPartitionFlatNonManifestDomain(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "s1.report.txt"), "one")
	writeFile(t, filepath.Join(root, "s2.report.txt"), "two")
	writeFile(t, filepath.Join(root, "s3.report.txt"), "three")
	ds := NewDataset(root, Kraken2Reports)

	p := NewPartitioner(CopyStrategy{}, nil)
	p.ScratchDir = t.TempDir()

	partitions, err := p.Partition(ds, 0)
	require.NoError(t, err)
	require.Len(t, partitions, 3)

	assert.Equal(t, "s1", partitions[0].Key)
	data, err := os.ReadFile(filepath.Join(partitions[0].Dataset.Root(), "s1.report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestPartitionNestedDomain(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sample1", "bin1.output.txt"), "a")
	writeFile(t, filepath.Join(root, "sample1", "bin2.output.txt"), "b")
	writeFile(t, filepath.Join(root, "sample2", "bin3.output.txt"), "c")
	ds := NewDataset(root, Kraken2MAGOutputs)

	p := NewPartitioner(CopyStrategy{}, nil)
	p.ScratchDir = t.TempDir()

	partitions, err := p.Partition(ds, 0)
	require.NoError(t, err)
	require.Len(t, partitions, 2)
	assert.Equal(t, "sample1", partitions[0].Key)
	assert.Equal(t, "sample2", partitions[1].Key)

	assert.FileExists(t, filepath.Join(partitions[0].Dataset.Root(), "sample1", "bin1.output.txt"))
	assert.FileExists(t, filepath.Join(partitions[0].Dataset.Root(), "sample1", "bin2.output.txt"))
	assert.FileExists(t, filepath.Join(partitions[1].Dataset.Root(), "sample2", "bin3.output.txt"))
}

func TestSplitChunks(t *testing.T) {
	samples := make([]sampleArtifacts, 5)
	for i := range samples {
		samples[i].id = string(rune('a' + i))
	}

	chunks := splitChunks(samples, 2)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[1], 2)

	chunks = splitChunks(samples, 5)
	require.Len(t, chunks, 5)
	for _, c := range chunks {
		assert.Len(t, c, 1)
	}
}
