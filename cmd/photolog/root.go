package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "photolog",
		Short:         "Photolog is a tiny photo blog backed by upload sets",
		Long:          `Photolog stores photo posts in memory and the photos themselves in the "photos" upload set, on local disk or in an S3 bucket.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to read; earlier files win, missing files are skipped")

	root.AddCommand(newServeCmd(&envFiles), newSetsCmd(&envFiles))
	return root
}
