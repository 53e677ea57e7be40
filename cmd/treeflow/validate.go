package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/treeflow/pkg/snapshot"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <snapshot>...",
		Short: "Check snapshots for broken references and cycles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				snap, err := loadSnapshot(path)
				if err != nil {
					bad.Fprintf(w, "✗ %s: %v\n", path, err)
					failed++
					continue
				}
				issues := snapshot.Validate(*snap)
				if len(issues) == 0 {
					good.Fprintf(w, "✓ %s", path)
					subtle.Fprintf(w, " (%d nodes)\n", len(snap.Nodes))
					continue
				}
				failed++
				bad.Fprintf(w, "✗ %s: %d issues\n", path, len(issues))
				for _, is := range issues {
					fmt.Fprintf(w, "    %s\n", is)
				}
				a.log.Debug("validation failed", "path", path, "issues", len(issues))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d snapshots invalid", failed, len(args))
			}
			return nil
		},
	}
}
