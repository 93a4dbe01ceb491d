package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samplekit/samplekit-go/pkg/samplekit"
)

var inspectDomain string

var inspectCmd = &cobra.Command{
	Use:   "inspect <dataset-root>",
	Short: "Summarize a dataset's samples and artifacts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conv, err := lookupConvention(inspectDomain)
		if err != nil {
			return err
		}

		ds := samplekit.NewDataset(args[0], conv)
		ix, err := ds.Index()
		if err != nil {
			return err
		}

		fmt.Printf("Domain:  %s\n", conv.Name)
		fmt.Printf("Root:    %s\n", ds.Root())
		fmt.Printf("Samples: %d\n", ix.Len())
		for _, id := range ix.Samples() {
			fmt.Printf("  %s (%d files)\n", id, len(ix.Files(id)))
		}

		if conv.HasManifest() {
			m, err := ds.Manifest()
			if err != nil {
				return err
			}
			fmt.Printf("Manifest rows: %d\n", len(m.Rows))
			if err := ds.Validate(); err != nil {
				return err
			}
			fmt.Println("Manifest files: all present")
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectDomain, "domain", "", "Dataset convention name (required)")
	inspectCmd.MarkFlagRequired("domain")
}
