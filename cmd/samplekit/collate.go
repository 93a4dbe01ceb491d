package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samplekit/samplekit-go/pkg/genome"
	"github.com/samplekit/samplekit-go/pkg/samplekit"
)

var (
	collateDomain       string
	collateOutDir       string
	collateOnDuplicates string
)

var collateCmd = &cobra.Command{
	Use:   "collate <dataset-root>...",
	Short: "Merge partition datasets back into a single dataset",
	Long: `Merge datasets, in argument order, into one fresh dataset.

Manifests are concatenated (the first input's header seeds the output),
per-sample directories merge additively, and same-named files from later
inputs overwrite earlier ones with a warning.

The genome-sequences domain additionally honors --on-duplicates, which
controls whether a repeated genome identifier warns (last occurrence wins)
or fails the collation.

Examples:
  samplekit collate ./part1 ./part2 --domain paired-end-reads
  samplekit collate ./gen1 ./gen2 --domain genome-sequences --on-duplicates error`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := lookupConvention(collateDomain)
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}

		inputs := make([]*samplekit.Dataset, 0, len(args))
		for _, root := range args {
			inputs = append(inputs, samplekit.NewDataset(root, conv))
		}

		strategy, err := newStrategy()
		if err != nil {
			return err
		}

		var out *samplekit.Dataset
		if conv.Name == samplekit.GenomeSequences.Name {
			policy := genome.WarnOnDuplicates
			if collateOnDuplicates == "error" {
				policy = genome.ErrorOnDuplicates
			}
			c := genome.NewCollator(policy, logger)
			c.ScratchDir = collateOutDir
			c.Strategy = strategy
			out, err = c.CollateDatasets(inputs)
		} else {
			c := samplekit.NewCollator(strategy, logger)
			c.ScratchDir = collateOutDir
			out, err = c.Collate(inputs)
		}
		if err != nil {
			return err
		}

		fmt.Println(out.Root())
		return nil
	},
}

func init() {
	collateCmd.Flags().StringVar(&collateDomain, "domain", "", "Dataset convention name (required)")
	collateCmd.Flags().StringVar(&collateOutDir, "output-dir", "", "Directory for the output root (default: temp dir)")
	collateCmd.Flags().StringVar(&collateOnDuplicates, "on-duplicates", "warn", "Duplicate genome ID policy (warn, error)")
	collateCmd.MarkFlagRequired("domain")
}
