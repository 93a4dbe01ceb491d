package samplekit

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Dataset is a directory-backed collection of artifacts keyed by sample
// identifier: a root directory, an optional manifest, optional fixed
// metadata, and the data files themselves. A Dataset instance owns its root
// exclusively for the duration of processing; no operation here ever
// deletes a root, that remains the caller's job.
type Dataset struct {
	root string
	conv Convention
}

// NewDataset wraps an existing directory as a dataset of the given domain.
func NewDataset(root string, conv Convention) *Dataset {
	return &Dataset{root: root, conv: conv}
}

// NewScratchDataset creates a dataset with a fresh root under the system
// temporary directory.
func NewScratchDataset(conv Convention) (*Dataset, error) {
	return NewScratchDatasetIn(os.TempDir(), conv)
}

// NewScratchDatasetIn creates a dataset with a fresh, uniquely named root
// under dir.
func NewScratchDatasetIn(dir string, conv Convention) (*Dataset, error) {
	root := filepath.Join(dir, "samplekit-"+uuid.NewString())
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrapf(err, "create dataset root %q", root)
	}
	return &Dataset{root: root, conv: conv}, nil
}

// Root returns the dataset's root directory.
func (d *Dataset) Root() string {
	return d.root
}

// Convention returns the dataset's domain convention.
func (d *Dataset) Convention() Convention {
	return d.conv
}

// ManifestPath returns the absolute path of the manifest file, or "" for
// manifest-less domains.
func (d *Dataset) ManifestPath() string {
	if !d.conv.HasManifest() {
		return ""
	}
	return filepath.Join(d.root, d.conv.ManifestName)
}

// Manifest decodes the dataset's manifest.
func (d *Dataset) Manifest() (*Manifest, error) {
	if !d.conv.HasManifest() {
		return nil, NewConfigurationError(
			errors.Errorf("domain %q carries no manifest", d.conv.Name))
	}
	return ReadManifestFile(d.ManifestPath())
}

// Metadata loads the fixed-metadata sidecar. Returns nil without error when
// the domain carries none or the file is absent.
func (d *Dataset) Metadata() (Metadata, error) {
	if d.conv.MetadataName == "" {
		return nil, nil
	}
	path := filepath.Join(d.root, d.conv.MetadataName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return ReadMetadataFile(path)
}

// Index builds the sample index of the dataset's root.
func (d *Dataset) Index() (*SampleIndex, error) {
	return BuildIndex(d.root, d.conv)
}

// Samples returns the dataset's sample identifiers: manifest row order for
// manifest-backed domains, sorted index order otherwise.
func (d *Dataset) Samples() ([]string, error) {
	if d.conv.HasManifest() {
		m, err := d.Manifest()
		if err != nil {
			return nil, err
		}
		return m.SampleOrder(), nil
	}
	ix, err := d.Index()
	if err != nil {
		return nil, err
	}
	return ix.Samples(), nil
}

// Validate checks that every file the manifest references exists under the
// root. All missing files are reported, not just the first. Content is
// never inspected; structural presence is the collaborator contract.
func (d *Dataset) Validate() error {
	if !d.conv.HasManifest() {
		return nil
	}
	m, err := d.Manifest()
	if err != nil {
		return err
	}

	var result *multierror.Error
	for _, row := range m.Rows {
		path := filepath.Join(d.root, filepath.FromSlash(row.Filename))
		if _, err := os.Stat(path); err != nil {
			result = multierror.Append(result, errors.Wrapf(err,
				"sample %q: missing file %q", row.SampleID, row.Filename))
		}
	}
	if result != nil {
		return NewValidationError(result)
	}
	return nil
}
