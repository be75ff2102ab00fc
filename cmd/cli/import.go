package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"afmdash/app"
	"afmdash/domain/experiment"
	"afmdash/internal/store"
)

func newImportCmd(opts *globalOptions) *cobra.Command {
	var forcePath, zPath, metadataPath, fileType string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Upload an experiment file and optionally ingest its datasets",
		Long: `Upload a file to the backend and print its dataset structure. When both
--force-path and --z-path are given the datasets are ingested as well.

Example: afmdash-cli import scan.hdf5 --force-path /curve0/force --z-path /curve0/z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			svc := app.NewImportService(newBackend(cfg), store.NewDefault(), noReload{}, logger)

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			structure, err := svc.Load(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			if forcePath == "" || zPath == "" {
				return printJSON(cmd.OutOrStdout(), structure)
			}

			if fileType == "" {
				fileType = structure.FileType
			}
			if fileType == "" {
				fileType = strings.TrimPrefix(filepath.Ext(args[0]), ".")
			}
			res, err := svc.Process(cmd.Context(), experiment.ProcessRequest{
				FilePath:     structure.Filename,
				FileType:     fileType,
				ForcePath:    forcePath,
				ZPath:        zPath,
				MetadataPath: metadataPath,
				Metadata:     map[string]interface{}{},
			})
			if err != nil {
				return err
			}
			if res.Filename == "" {
				res.Filename = structure.Filename
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "ingested %d curves\n", res.Curves)
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&forcePath, "force-path", "", "Dataset path of force values")
	cmd.Flags().StringVar(&zPath, "z-path", "", "Dataset path of Z values")
	cmd.Flags().StringVar(&metadataPath, "metadata-path", "", "Dataset path of metadata")
	cmd.Flags().StringVar(&fileType, "file-type", "", "File type (default from the backend's answer)")

	return cmd
}
