package samplekit

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// SampleIndex maps sample identifiers to their on-disk artifacts. For flat
// datasets each sample has a single artifact keyed by its own identifier;
// for per-sample datasets each sample maps secondary identifiers (MAG bin,
// report name) to artifacts.
type SampleIndex struct {
	samples []string
	files   map[string]map[string]string
}

// Samples returns the sample identifiers in sorted order.
func (ix *SampleIndex) Samples() []string {
	return ix.samples
}

// Len returns the number of indexed samples.
func (ix *SampleIndex) Len() int {
	return len(ix.samples)
}

// Files returns the artifacts of one sample as a secondary-id to absolute
// path mapping. Flat datasets use the sample id itself as the secondary id.
func (ix *SampleIndex) Files(sampleID string) map[string]string {
	return ix.files[sampleID]
}

// SecondaryIDs returns the secondary identifiers of one sample, sorted.
func (ix *SampleIndex) SecondaryIDs(sampleID string) []string {
	ids := make([]string, 0, len(ix.files[sampleID]))
	for id := range ix.files[sampleID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BuildIndex walks the dataset root and resolves every file matching the
// convention into (sample-id, secondary-id) coordinates. Files directly
// under the root are flat entries: the stripped stem is both sample and
// secondary id. Files one directory down are nested entries: the directory
// name is the sample id. Deeper entries are ignored. Mixing both shapes in
// one dataset is undefined behavior.
func BuildIndex(root string, conv Convention) (*SampleIndex, error) {
	if conv.Pattern == nil && conv.Glob == "" {
		return nil, NewConfigurationError(
			errors.Errorf("convention %q has no matching rule", conv.Name))
	}

	ix := &SampleIndex{files: map[string]map[string]string{}}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !conv.Matches(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		var sampleID, secondaryID string
		switch dir := filepath.Dir(rel); {
		case dir == ".":
			sampleID = conv.Identifier(d.Name())
			secondaryID = sampleID
		case filepath.Dir(dir) == ".":
			sampleID = dir
			secondaryID = conv.Identifier(d.Name())
		default:
			return nil
		}

		if prev, ok := ix.files[sampleID][secondaryID]; ok && prev != path {
			return NewIntegrityError(errors.Errorf(
				"duplicate entry %s/%s: %q and %q", sampleID, secondaryID, prev, path))
		}
		if ix.files[sampleID] == nil {
			ix.files[sampleID] = map[string]string{}
			ix.samples = append(ix.samples, sampleID)
		}
		ix.files[sampleID][secondaryID] = path
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(ix.samples) == 0 {
		return nil, NewConfigurationError(errors.Errorf(
			"convention %q matched no files under %q", conv.Name, root))
	}

	sort.Strings(ix.samples)
	return ix, nil
}
