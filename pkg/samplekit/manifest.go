package samplekit

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"
)

// singleEndComment is written under the header of single-role manifests.
// Decoded manifests never retain it.
const singleEndComment = "# direction is not meaningful in this file as these\n" +
	"# data may be derived from forward, reverse, or \n" +
	"# joined reads\n"

// ManifestRow ties one sample to one artifact and its role.
type ManifestRow struct {
	SampleID string
	Filename string
	Role     string
}

// Manifest is the decoded per-dataset manifest: a header row and the data
// rows in file order.
type Manifest struct {
	Header []string
	Rows   []ManifestRow
}

// SampleOrder returns the distinct sample identifiers in first-seen row
// order.
func (m *Manifest) SampleOrder() []string {
	seen := make(map[string]bool, len(m.Rows))
	var order []string
	for _, row := range m.Rows {
		if !seen[row.SampleID] {
			seen[row.SampleID] = true
			order = append(order, row.SampleID)
		}
	}
	return order
}

// RowsFor returns the rows belonging to one sample, in manifest order.
func (m *Manifest) RowsFor(sampleID string) []ManifestRow {
	var rows []ManifestRow
	for _, row := range m.Rows {
		if row.SampleID == sampleID {
			rows = append(rows, row)
		}
	}
	return rows
}

// DecodeManifest parses a comma-separated manifest. The first row is the
// header; lines starting with '#' are comments and are dropped.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 3

	records, err := cr.ReadAll()
	if err != nil {
		return nil, NewValidationError(errors.Wrap(err, "decode manifest"))
	}
	if len(records) == 0 {
		return nil, NewValidationError(errors.New("manifest has no header row"))
	}

	m := &Manifest{Header: records[0]}
	for _, rec := range records[1:] {
		m.Rows = append(m.Rows, ManifestRow{
			SampleID: rec[0],
			Filename: rec[1],
			Role:     rec[2],
		})
	}
	return m, nil
}

// EncodeManifest writes m as comma-separated text. When roleComment is set
// a comment block noting that the role column is not meaningful follows the
// header.
func EncodeManifest(w io.Writer, m *Manifest, roleComment bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(m.Header); err != nil {
		return errors.Wrap(err, "encode manifest header")
	}
	cw.Flush()

	if roleComment {
		if _, err := io.WriteString(w, singleEndComment); err != nil {
			return errors.Wrap(err, "encode manifest comment")
		}
	}

	for _, row := range m.Rows {
		if err := cw.Write([]string{row.SampleID, row.Filename, row.Role}); err != nil {
			return errors.Wrap(err, "encode manifest row")
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadManifestFile decodes the manifest at path.
func ReadManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewValidationError(errors.Wrapf(err, "read manifest %q", path))
	}
	return DecodeManifest(bytes.NewReader(data))
}

// WriteManifestFile encodes m into the file at path.
func WriteManifestFile(path string, m *Manifest, roleComment bool) error {
	var buf bytes.Buffer
	if err := EncodeManifest(&buf, m, roleComment); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "write manifest %q", path)
	}
	return nil
}
