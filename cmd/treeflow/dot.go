package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/treeflow/pkg/render"
)

func (a *app) dotCmd() *cobra.Command {
	var (
		output string
		title  string
	)
	cmd := &cobra.Command{
		Use:     "dot <snapshot>",
		Short:   "Generate Graphviz DOT output",
		Example: "  treeflow dot diagram.json | dot -Tpng -o diagram.png",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			return writeOutput(cmd, output, []byte(render.DOT(*snap, title)))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().StringVar(&title, "title", "", "Graph label (default file name)")
	return cmd
}
