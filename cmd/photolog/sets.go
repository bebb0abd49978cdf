package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/uploads/pkg/logger"
	"github.com/dmitrymomot/uploads/pkg/uploads"
)

func newSetsCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "sets",
		Short: "Print the resolved upload set configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, settings, err := loadConfig(*envFiles)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, settings, logger.Noop())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SET\tDESTINATION\tURL\tALLOW\tDENY")
			for _, name := range a.registry.Names() {
				c, _ := a.registry.Config(name)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					name, c.Destination, describeURL(a.registry, name, c), list(c.Allow), list(c.Deny))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if !a.registry.ShouldServe() {
				fmt.Fprintln(cmd.OutOrStdout(), "serving endpoint: off")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "serving endpoint: %s\n", uploads.ServePrefix)
			}
			return nil
		},
	}
}

func describeURL(reg *uploads.Registry, name string, c uploads.Config) string {
	switch {
	case c.BaseURL == nil:
		if !reg.Defaults().Autoserve {
			return "(not served)"
		}
		return uploads.ServePrefix + "/" + name + "/"
	case *c.BaseURL == "":
		return "(relative)"
	default:
		return *c.BaseURL
	}
}

func list(v []string) string {
	if len(v) == 0 {
		return "-"
	}
	return strings.Join(v, ",")
}
