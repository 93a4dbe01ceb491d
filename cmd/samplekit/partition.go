package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samplekit/samplekit-go/pkg/samplekit"
)

var (
	partitionDomain string
	partitionNum    int
	partitionOutDir string
)

var partitionCmd = &cobra.Command{
	Use:   "partition <dataset-root>",
	Short: "Split a dataset into balanced per-sample partitions",
	Long: `Split a dataset into N partitions of nearly equal sample counts.

Each partition is an independent dataset: files are duplicated, the
manifest is regenerated for exactly its samples, and fixed metadata is
carried over verbatim. Without --num every sample gets its own partition.

Examples:
  samplekit partition ./demux --domain paired-end-reads --num 4
  samplekit partition ./reports --domain kraken2-reports --output-dir ./parts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := lookupConvention(partitionDomain)
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		strategy, err := newStrategy()
		if err != nil {
			return err
		}

		ds := samplekit.NewDataset(args[0], conv)
		if err := ds.Validate(); err != nil {
			return err
		}

		p := samplekit.NewPartitioner(strategy, logger)
		p.ScratchDir = partitionOutDir

		partitions, err := p.Partition(ds, partitionNum)
		if err != nil {
			return err
		}

		for _, part := range partitions {
			fmt.Printf("%s\t%s\n", part.Key, part.Dataset.Root())
		}
		return nil
	},
}

func init() {
	partitionCmd.Flags().StringVar(&partitionDomain, "domain", "", "Dataset convention name (required)")
	partitionCmd.Flags().IntVar(&partitionNum, "num", 0, "Number of partitions (default: one per sample)")
	partitionCmd.Flags().StringVar(&partitionOutDir, "output-dir", "", "Directory for partition roots (default: temp dir)")
	partitionCmd.MarkFlagRequired("domain")
}
