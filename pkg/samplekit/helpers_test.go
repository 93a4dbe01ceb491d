package samplekit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeGzipFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
}

func readGzipFile(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()
	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	return string(data)
}

func fastqName(sample string, direction int) string {
	return fmt.Sprintf("%s_S1_L001_R%d_001.fastq.gz", sample, direction)
}

// newReadsDataset lays out a demultiplexed reads dataset: one gzipped FASTQ
// per sample and direction, a MANIFEST, and metadata.yml.
func newReadsDataset(t *testing.T, samples []string, paired bool) *Dataset {
	t.Helper()
	conv := SingleEndReads
	if paired {
		conv = PairedEndReads
	}

	root := t.TempDir()
	m := &Manifest{Header: conv.ManifestHeader}
	for _, sample := range samples {
		fwd := fastqName(sample, 1)
		writeGzipFile(t, filepath.Join(root, fwd), "@"+sample+"/1\nACGT\n+\nIIII\n")
		m.Rows = append(m.Rows, ManifestRow{SampleID: sample, Filename: fwd, Role: "forward"})
		if paired {
			rev := fastqName(sample, 2)
			writeGzipFile(t, filepath.Join(root, rev), "@"+sample+"/2\nTGCA\n+\nIIII\n")
			m.Rows = append(m.Rows, ManifestRow{SampleID: sample, Filename: rev, Role: "reverse"})
		}
	}

	require.NoError(t, WriteManifestFile(filepath.Join(root, conv.ManifestName), m, conv.RoleComment))
	require.NoError(t, WriteMetadataFile(filepath.Join(root, conv.MetadataName), DefaultReadMetadata()))
	return NewDataset(root, conv)
}
