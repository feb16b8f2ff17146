package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danisworo/member-import/internal/application/importing"
	domain "github.com/danisworo/member-import/internal/domain/member"
)

func newAutomapCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "automap",
		Short: "Print the auto-derived column mapping for a file",
		Long: `Decodes the file headers, runs the auto-map heuristic against the
default schema and prints the resulting mapping as JSON. Edit the output
and pass it back via 'run --mapping' to override individual columns.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := decodeFile(file)
			if err != nil {
				return err
			}

			mapping := importing.AutoMap(table.Headers, domain.DefaultSchema())
			out, err := json.MarshalIndent(mapping, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to the .xlsx or .csv file (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}
