package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"afmdash/app"
	"afmdash/domain/experiment"
	"afmdash/internal/config"
	"afmdash/internal/store"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var numCurves int
	var curveIDs []string
	var exportType, datasetType, direction, out, presetFile string

	cmd := &cobra.Command{
		Use:   "export <format> <path>",
		Short: "Export processed curves and download the file",
		Long: `Ask the backend to export curves in hdf5, json, csv or txt and save the
produced file locally.

Example: afmdash-cli export csv run.csv --num-curves 100 --export-type average`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := experiment.ParseFormat(args[0])
			if err != nil {
				return err
			}
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			st := store.NewDefault()
			if presetFile != "" {
				p, err := config.LoadPresetFile(presetFile)
				if err != nil {
					return err
				}
				st.Update(p.ApplyTo)
			}
			if numCurves > 0 {
				st.SetNumCurves(numCurves)
			}
			st.SetSelectedExportCurveIDs(curveIDs)

			if out == "" {
				out = filepath.Base(args[1])
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			svc := app.NewExportService(newBackend(cfg), st, logger)
			res, err := svc.Export(cmd.Context(), app.ExportOptions{
				Format:      format,
				Path:        args[1],
				ExportType:  experiment.ExportType(exportType),
				DatasetType: datasetType,
				Direction:   direction,
			}, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d curves to %s\n", res.ExportedCurves, out)
			return nil
		},
	}

	cmd.Flags().IntVar(&numCurves, "num-curves", 0, "Curves to export when no ids are given")
	cmd.Flags().StringSliceVar(&curveIDs, "curve-ids", nil, "Explicit curve ids to export")
	cmd.Flags().StringVar(&exportType, "export-type", "", "raw, average or scatter (csv only)")
	cmd.Flags().StringVar(&datasetType, "dataset-type", "", "Dataset to export (e.g. Force, Elasticity)")
	cmd.Flags().StringVar(&direction, "direction", "", "Curve direction")
	cmd.Flags().StringVar(&out, "out", "", "Local file (default: base name of <path>)")
	cmd.Flags().StringVar(&presetFile, "preset", "", "YAML or TOML analysis preset")

	return cmd
}
