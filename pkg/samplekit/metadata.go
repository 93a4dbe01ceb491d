package samplekit

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Metadata is the fixed-value sidecar document carried verbatim into every
// partition of a dataset, e.g. {"phred-offset": 33}.
type Metadata map[string]interface{}

// DefaultReadMetadata is the fixed metadata written for demultiplexed read
// datasets.
func DefaultReadMetadata() Metadata {
	return Metadata{"phred-offset": 33}
}

// ReadMetadataFile loads a YAML metadata sidecar.
func ReadMetadataFile(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read metadata %q", path)
	}
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, NewValidationError(errors.Wrapf(err, "decode metadata %q", path))
	}
	return m, nil
}

// WriteMetadataFile serializes m as YAML at path.
func WriteMetadataFile(path string, m Metadata) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "encode metadata")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write metadata %q", path)
	}
	return nil
}
