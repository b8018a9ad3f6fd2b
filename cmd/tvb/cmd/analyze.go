package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/neuronlabs/tvb/analyzers"
	"github.com/neuronlabs/tvb/analyzers/graph"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
)

func (a *app) analyzeCmd() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze <name> <gid>",
		Short: "Runs the analyzer on the stored time series and stores the result.",
		Long: `Runs the analyzer on the stored time series and stores the result. The analyzer parameters are taken from the config.
Available analyzers: ` + strings.Join(analyzers.NewRegistry(nil).Names(), ", ") + `

With the --metric flag the name is the time series metric, which is printed and not stored.
Available metrics: ` + strings.Join(analyzers.NewRegistry(nil).MetricNames(), ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gid, err := parseGID(args[1])
			if err != nil {
				return err
			}
			metric, err := cmd.Flags().GetBool("metric")
			if err != nil {
				return err
			}
			if metric {
				return a.metric(cmd, args[0], gid)
			}
			result, err := a.lib.Analyze(cmd.Context(), args[0], gid)
			if err != nil {
				return err
			}
			ts, err := a.lib.Registry().TypeOf(result)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", result.TraitsBase().GID, ts.Tag())
			return nil
		},
	}
	analyzeCmd.Flags().Bool("metric", false, "computes the time series metric")
	analyzeCmd.Flags().Int("start-point", 0, "first analyzed time point of the metric")
	analyzeCmd.Flags().Int("state-variable", 0, "analyzed state variable of the metric")
	analyzeCmd.Flags().Int("mode", 0, "analyzed mode of the metric")
	return analyzeCmd
}

func (a *app) metric(cmd *cobra.Command, name string, gid uuid.UUID) error {
	var (
		params analyzers.MetricParams
		err    error
	)
	if params.StartPoint, err = cmd.Flags().GetInt("start-point"); err != nil {
		return err
	}
	if params.StateVariable, err = cmd.Flags().GetInt("state-variable"); err != nil {
		return err
	}
	if params.Mode, err = cmd.Flags().GetInt("mode"); err != nil {
		return err
	}
	dt, err := a.lib.Load(cmd.Context(), gid)
	if err != nil {
		return err
	}
	ts, ok := dt.(datatypes.TimeSeriesData)
	if !ok {
		return errors.NewDetf(class.AnalyzerInput, "datatype: '%s' is not a time series", gid)
	}
	res, err := a.lib.Analyzers().Metric(cmd.Context(), name, ts, params)
	if err != nil {
		return err
	}
	printValues(cmd, res)
	return nil
}

func (a *app) graphCmd() *cobra.Command {
	graphCmd := &cobra.Command{
		Use:   "graph <measure> <gid>",
		Short: "Computes the graph measure of the stored connectivity and stores the result.",
		Long: `Computes the nodal graph measure of the stored connectivity and stores the result.
Available measures: ` + strings.Join(graph.NodalMeasures(), ", ") + `

With the --global flag only the connectivity GID is provided and the global measures are printed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			global, err := cmd.Flags().GetBool("global")
			if err != nil {
				return err
			}
			if global != (len(args) == 1) {
				return errors.NewDet(class.AnalyzerParameter, "provide either the measure and the connectivity GID or the --global flag and the connectivity GID")
			}
			gid, err := parseGID(args[len(args)-1])
			if err != nil {
				return err
			}
			if global {
				return a.globalMeasures(cmd, gid)
			}
			m, err := a.lib.GraphMeasure(cmd.Context(), args[0], gid)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, m.GID)
			for i, v := range m.Array.Values {
				label := fmt.Sprint(i)
				if i < len(m.Connectivity.RegionLabels) {
					label = m.Connectivity.RegionLabels[i]
				}
				fmt.Fprintf(out, "%s\t%g\n", label, v)
			}
			return nil
		},
	}
	graphCmd.Flags().Bool("global", false, "prints the global measures of the connectivity")
	return graphCmd
}

func (a *app) globalMeasures(cmd *cobra.Command, gid uuid.UUID) error {
	dt, err := a.lib.Load(cmd.Context(), gid)
	if err != nil {
		return err
	}
	conn, ok := dt.(*datatypes.Connectivity)
	if !ok {
		return errors.NewDetf(class.AnalyzerInput, "datatype: '%s' is not a connectivity", gid)
	}
	res, err := graph.GlobalMeasures(cmd.Context(), conn)
	if err != nil {
		return err
	}
	printValues(cmd, res)
	return nil
}

// printValues prints the named values sorted by their names.
func printValues(cmd *cobra.Command, values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\n", name, values[name])
	}
}
