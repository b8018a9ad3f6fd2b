package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/readers"
	"github.com/neuronlabs/tvb/traits"
)

func (a *app) importCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Imports the brain data file into the store.",
		Long: `Imports the brain data file into the store and prints the GID of the stored datatype, i.e.:

tvb import connectivity connectivity_76.zip
tvb import surface --surface-type "Cortical Surface" cortex.zip
tvb import sensors --sensors-type EEG eeg_unitvector_62.txt.bz2
tvb import timeseries --connectivity <gid> --sample-period 0.5 bold.txt`,
	}
	importCmd.PersistentFlags().String("title", "", "title of the stored datatype")

	connectivityCmd := &cobra.Command{
		Use:   "connectivity <file.zip>",
		Short: "Imports the connectivity zip archive.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := readers.ReadConnectivityZip(args[0])
			if err != nil {
				return err
			}
			return a.save(cmd, conn)
		},
	}

	surfaceCmd := &cobra.Command{
		Use:   "surface <file.zip>",
		Short: "Imports the surface zip archive.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			surfaceType, err := cmd.Flags().GetString("surface-type")
			if err != nil {
				return err
			}
			surface, err := readers.ReadSurfaceZip(args[0], surfaceType)
			if err != nil {
				return err
			}
			return a.save(cmd, surface)
		},
	}
	surfaceCmd.Flags().String("surface-type", datatypes.SurfaceTypeCortical, "type of the surface")

	sensorsCmd := &cobra.Command{
		Use:   "sensors <file>",
		Short: "Imports the sensors file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sensorsType, err := cmd.Flags().GetString("sensors-type")
			if err != nil {
				return err
			}
			sensors, err := readers.ReadSensors(args[0], sensorsType)
			if err != nil {
				return err
			}
			return a.save(cmd, sensors)
		},
	}
	sensorsCmd.Flags().String("sensors-type", datatypes.SensorsTypeEEG, "type of the sensors. Possible values: EEG, MEG, Internal")

	timeSeriesCmd := &cobra.Command{
		Use:   "timeseries <file>",
		Short: "Imports the (time, regions) matrix as the region time series of the stored connectivity.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samplePeriod, err := cmd.Flags().GetFloat64("sample-period")
			if err != nil {
				return err
			}
			connGID, err := cmd.Flags().GetString("connectivity")
			if err != nil {
				return err
			}
			gid, err := uuid.Parse(connGID)
			if err != nil {
				return errors.NewDetf(class.DatatypeReference, "invalid connectivity GID: '%s'", connGID)
			}
			dt, err := a.lib.Load(cmd.Context(), gid)
			if err != nil {
				return err
			}
			conn, ok := dt.(*datatypes.Connectivity)
			if !ok {
				return errors.NewDetf(class.DatatypeReference, "datatype: '%s' is not a connectivity", gid)
			}
			ts, err := readers.ReadTimeSeries(args[0], samplePeriod)
			if err != nil {
				return err
			}
			ts.Connectivity = conn
			return a.save(cmd, ts)
		},
	}
	timeSeriesCmd.Flags().Float64("sample-period", 1, "sample period in milliseconds")
	timeSeriesCmd.Flags().String("connectivity", "", "GID of the stored connectivity")
	_ = timeSeriesCmd.MarkFlagRequired("connectivity")

	importCmd.AddCommand(connectivityCmd, surfaceCmd, sensorsCmd, timeSeriesCmd)
	return importCmd
}

func (a *app) save(cmd *cobra.Command, dt traits.Datatype) error {
	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return err
	}
	if title != "" {
		dt.TraitsBase().Title = title
	}
	if err = a.lib.Save(cmd.Context(), dt); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dt.TraitsBase().GID)
	return nil
}
