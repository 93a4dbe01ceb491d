package samplekit

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// Layout describes the directory shape of a dataset.
type Layout int

const (
	// LayoutFlat keeps every artifact directly under the dataset root.
	LayoutFlat Layout = iota

	// LayoutPerSample nests artifacts one level down, one directory per
	// sample. Only one level of nesting is supported.
	LayoutPerSample
)

// Convention describes how a domain lays its artifacts out on disk: which
// filenames belong to the dataset, how identifiers are recovered from them,
// and which sidecar files accompany the data. One Convention value per
// domain replaces the per-domain partition/collate functions of older
// plugin codebases.
type Convention struct {
	// Name identifies the domain, e.g. "paired-end-reads".
	Name string

	// Pattern is a regular expression selecting data files by name.
	// Exactly one of Pattern and Glob must be set.
	Pattern *regexp.Regexp

	// Glob is a doublestar pattern selecting data files by name,
	// for domains historically matched by shell glob.
	Glob string

	// Suffixes are candidate filename tails stripped to recover an
	// identifier, tried in order; list them longest-first so the most
	// specific tail wins. When none matches, the final extension is
	// stripped instead.
	Suffixes []string

	// Layout is the directory shape.
	Layout Layout

	// ManifestName is the manifest filename; empty for domains that carry
	// no manifest.
	ManifestName string

	// ManifestHeader is the manifest header row, e.g.
	// ["sample-id", "filename", "direction"].
	ManifestHeader []string

	// Roles is the closed set of role values admitted in manifest rows.
	Roles []string

	// RoleComment is true when the role column carries no meaning for the
	// domain and encoded manifests get an explanatory comment block.
	RoleComment bool

	// MetadataName is the fixed-metadata sidecar filename; empty when the
	// domain carries none.
	MetadataName string
}

// HasManifest reports whether the domain is manifest-backed.
func (c Convention) HasManifest() bool {
	return c.ManifestName != ""
}

// Matches reports whether a filename belongs to the dataset under this
// convention. Sidecar files never match.
func (c Convention) Matches(name string) bool {
	if name == c.ManifestName || name == c.MetadataName {
		return false
	}
	if c.Pattern != nil {
		return c.Pattern.MatchString(name)
	}
	if c.Glob != "" {
		ok, err := doublestar.Match(c.Glob, name)
		if err != nil {
			return false
		}
		return ok
	}
	return false
}

// Identifier strips the first matching suffix from name, falling back to
// dropping the final extension when no suffix matches. Suffixes are tried
// in declaration order.
func (c Convention) Identifier(name string) string {
	for _, s := range c.Suffixes {
		if strings.HasSuffix(name, s) {
			return strings.TrimSuffix(name, s)
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

var (
	// SingleEndReads is demultiplexed single-end FASTQ data. The manifest
	// direction column is kept for layout compatibility but carries no
	// meaning, which the encoded manifest notes in a comment block.
	SingleEndReads = Convention{
		Name:           "single-end-reads",
		Pattern:        regexp.MustCompile(`.+\.fastq\.gz$`),
		Suffixes:       []string{".fastq.gz"},
		Layout:         LayoutFlat,
		ManifestName:   "MANIFEST",
		ManifestHeader: []string{"sample-id", "filename", "direction"},
		Roles:          []string{"forward"},
		RoleComment:    true,
		MetadataName:   "metadata.yml",
	}

	// PairedEndReads is demultiplexed paired-end FASTQ data with forward
	// and reverse roles per sample.
	PairedEndReads = Convention{
		Name:           "paired-end-reads",
		Pattern:        regexp.MustCompile(`.+\.fastq\.gz$`),
		Suffixes:       []string{".fastq.gz"},
		Layout:         LayoutFlat,
		ManifestName:   "MANIFEST",
		ManifestHeader: []string{"sample-id", "filename", "direction"},
		Roles:          []string{"forward", "reverse"},
		MetadataName:   "metadata.yml",
	}

	// MultiMAGs is per-sample metagenome-assembled genomes, one directory
	// per sample, one FASTA file per bin.
	MultiMAGs = Convention{
		Name:           "multi-mags",
		Pattern:        regexp.MustCompile(`.+\.(fa|fasta)$`),
		Suffixes:       []string{".fasta", ".fa"},
		Layout:         LayoutPerSample,
		ManifestName:   "MANIFEST",
		ManifestHeader: []string{"sample-id", "filename", "mag-id"},
	}

	// Contigs is one assembled-contig FASTA file per sample.
	Contigs = Convention{
		Name:     "contigs",
		Pattern:  regexp.MustCompile(`.+_contigs\.(fa|fasta)$`),
		Suffixes: []string{"_contigs.fasta", "_contigs.fa"},
		Layout:   LayoutFlat,
	}

	// Kraken2Reports is one kraken2 report per sample.
	Kraken2Reports = Convention{
		Name:     "kraken2-reports",
		Pattern:  regexp.MustCompile(`.+\.report\.(txt|tsv)$`),
		Suffixes: []string{".report.txt", ".report.tsv"},
		Layout:   LayoutFlat,
	}

	// Kraken2Outputs is one kraken2 output per sample.
	Kraken2Outputs = Convention{
		Name:     "kraken2-outputs",
		Pattern:  regexp.MustCompile(`.+\.output\.(txt|tsv)$`),
		Suffixes: []string{".output.txt", ".output.tsv"},
		Layout:   LayoutFlat,
	}

	// Kraken2MAGReports is kraken2 reports for per-sample MAGs, one
	// directory per sample, one report per bin.
	Kraken2MAGReports = Convention{
		Name:     "kraken2-mag-reports",
		Pattern:  regexp.MustCompile(`.+\.report\.(txt|tsv)$`),
		Suffixes: []string{".report.txt", ".report.tsv"},
		Layout:   LayoutPerSample,
	}

	// Kraken2MAGOutputs is kraken2 outputs for per-sample MAGs.
	Kraken2MAGOutputs = Convention{
		Name:     "kraken2-mag-outputs",
		Pattern:  regexp.MustCompile(`.+\.output\.(txt|tsv)$`),
		Suffixes: []string{".output.txt", ".output.tsv"},
		Layout:   LayoutPerSample,
	}

	// SeedOrthologs is one eggNOG-mapper seed-ortholog file per sample,
	// matched by glob as in the tooling that produces them.
	SeedOrthologs = Convention{
		Name:     "seed-orthologs",
		Glob:     "*.seed_orthologs",
		Suffixes: []string{".emapper.seed_orthologs", ".seed_orthologs"},
		Layout:   LayoutFlat,
	}

	// OrthologAnnotations is one eggNOG-mapper annotation file per sample.
	OrthologAnnotations = Convention{
		Name:     "ortholog-annotations",
		Glob:     "*.annotations",
		Suffixes: []string{".emapper.annotations", ".annotations"},
		Layout:   LayoutFlat,
	}

	// Loci is one GFF loci file per sample.
	Loci = Convention{
		Name:     "loci",
		Pattern:  regexp.MustCompile(`.+\.gff$`),
		Suffixes: []string{".gff"},
		Layout:   LayoutFlat,
	}

	// Genes is one gene FASTA file per sample.
	Genes = Convention{
		Name:     "genes",
		Pattern:  regexp.MustCompile(`.+\.(fa|fasta)$`),
		Suffixes: []string{".fasta", ".fa"},
		Layout:   LayoutFlat,
	}

	// Proteins is one protein FASTA file per sample.
	Proteins = Convention{
		Name:     "proteins",
		Pattern:  regexp.MustCompile(`.+\.faa$`),
		Suffixes: []string{".faa"},
		Layout:   LayoutFlat,
	}

	// GenomeSequences is one genome FASTA file per genome identifier.
	GenomeSequences = Convention{
		Name:     "genome-sequences",
		Pattern:  regexp.MustCompile(`.+\.(fa|fasta)$`),
		Suffixes: []string{".fasta", ".fa"},
		Layout:   LayoutFlat,
	}
)

var conventions = map[string]Convention{}

func init() {
	for _, c := range []Convention{
		SingleEndReads, PairedEndReads, MultiMAGs, Contigs,
		Kraken2Reports, Kraken2Outputs, Kraken2MAGReports, Kraken2MAGOutputs,
		SeedOrthologs, OrthologAnnotations, Loci, Genes, Proteins,
		GenomeSequences,
	} {
		conventions[c.Name] = c
	}
}

// ConventionByName returns a built-in convention by its domain name.
func ConventionByName(name string) (Convention, bool) {
	c, ok := conventions[name]
	return c, ok
}

// ConventionNames returns the names of all built-in conventions, sorted.
func ConventionNames() []string {
	names := make([]string, 0, len(conventions))
	for name := range conventions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
