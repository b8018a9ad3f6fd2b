package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/errors"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <tag>",
		Short: "Lists the stored datatypes of the type and its subtypes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			headers, err := a.lib.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "GID\tTYPE\tTITLE\tCREATED")
			for _, h := range headers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.GID, h.Tag, h.Title, h.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <gid>",
		Short: "Shows the summary of the stored datatype.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gid, err := parseGID(args[0])
			if err != nil {
				return err
			}
			summary, err := a.lib.Summary(cmd.Context(), gid)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(summary))
			for k := range summary {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, k := range keys {
				fmt.Fprintf(w, "%s\t%s\n", k, summary[k])
			}
			return w.Flush()
		},
	}
}

func parseGID(s string) (uuid.UUID, error) {
	gid, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.NewDetf(class.DatatypeReference, "invalid GID: '%s'", s)
	}
	return gid, nil
}
