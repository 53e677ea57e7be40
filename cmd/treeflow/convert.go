package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/treeflow/pkg/snapshot"
)

func (a *app) convertCmd() *cobra.Command {
	var (
		output string
		to     string
	)
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a snapshot between JSON and TOML",
		Example: "  treeflow convert diagram.json -o diagram.toml\n" +
			"  treeflow convert diagram.toml --to json -o -",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(args[0])
			if err != nil {
				return err
			}

			var format snapshot.Format
			switch {
			case to != "":
				format, err = snapshot.ParseFormat(to)
			case output != "" && output != "-":
				format, err = snapshot.FormatFromPath(output)
			default:
				// The other format.
				format = snapshot.FormatTOML
				if in, _ := snapshot.FormatFromPath(args[0]); in == snapshot.FormatTOML {
					format = snapshot.FormatJSON
				}
			}
			if err != nil {
				return err
			}
			if output == "" {
				output = withExt(args[0], string(format))
			}

			var buf bytes.Buffer
			if err := snapshot.Encode(&buf, *snap, format); err != nil {
				return fmt.Errorf("encoding %s: %w", format, err)
			}
			a.log.Debug("converted", "input", args[0], "format", format, "nodes", len(snap.Nodes))
			return writeOutput(cmd, output, buf.Bytes())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout")
	cmd.Flags().StringVar(&to, "to", "", "Output format: json or toml (default from output)")
	return cmd
}
