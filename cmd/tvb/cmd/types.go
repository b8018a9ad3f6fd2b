package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Lists the registered datatypes with their bases and subtypes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := a.lib.Registry()
			types := registry.Types()
			sort.Slice(types, func(i, j int) bool { return types[i].Tag() < types[j].Tag() })

			out := cmd.OutOrStdout()
			for _, ts := range types {
				line := ts.Tag()
				if bases := ts.Bases(); len(bases) > 0 {
					line += " (" + strings.Join(bases, ", ") + ")"
				}
				subtypes, err := registry.Subtypes(ts.Tag())
				if err != nil {
					return err
				}
				if len(subtypes) > 0 {
					tags := make([]string, len(subtypes))
					for i, s := range subtypes {
						tags[i] = s.Tag()
					}
					line += " -> " + strings.Join(tags, ", ")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
