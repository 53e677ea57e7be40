package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/treeflow/pkg/render"
	"github.com/ha1tch/treeflow/pkg/snapshot"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <snapshot>",
		Short: "Show diagram statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(args[0])
			if err != nil {
				return err
			}
			forest := snapshot.Tree(*snap)
			bounds := render.SceneFromSnapshot(*snap, a.nodeSize()).Bounds()
			issues := snapshot.Validate(*snap)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "  %s\n\n", brand.Sprint(args[0]))
			fmt.Fprintf(w, "  Nodes:     %d\n", len(snap.Nodes))
			fmt.Fprintf(w, "  Edges:     %d\n", len(forest.Parent))
			fmt.Fprintf(w, "  Roots:     %d\n", len(forest.Roots))
			fmt.Fprintf(w, "  Depth:     %d\n", forest.Depth())
			fmt.Fprintf(w, "  Scale:     %g\n", snap.Scale)
			fmt.Fprintf(w, "  Scroll:    %g, %g\n", snap.ScrollLeft, snap.ScrollTop)
			fmt.Fprintf(w, "  Extent:    %gx%g at %g, %g\n", bounds.W, bounds.H, bounds.X, bounds.Y)
			if len(issues) == 0 {
				fmt.Fprintf(w, "  Issues:    %s\n", good.Sprint("none"))
			} else {
				fmt.Fprintf(w, "  Issues:    %s %s\n",
					bad.Sprint(len(issues)), subtle.Sprint("(treeflow validate for details)"))
			}
			return nil
		},
	}
}
