// Command treeflow renders, inspects and converts tree diagram snapshots.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ha1tch/treeflow/pkg/config"
	"github.com/ha1tch/treeflow/pkg/geom"
	"github.com/ha1tch/treeflow/pkg/snapshot"
)

// Output colors
var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

// app carries what every command needs once flags are parsed.
type app struct {
	cfg *config.Config
	log *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{
		cfg: config.Default(),
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	var (
		cfgPath  string
		logLevel string
	)

	root := &cobra.Command{
		Use:   "treeflow",
		Short: "treeflow - tree diagram toolkit",
		Long: brand.Sprint("treeflow") + " renders, inspects and converts diagram snapshots\n" +
			subtle.Sprint("Edit diagrams interactively with treeedit"),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			if logLevel == "" {
				logLevel = cfg.Log.Level
			}
			level, err := config.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", config.Path(), "Config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		a.renderCmd(),
		a.infoCmd(),
		a.validateCmd(),
		a.convertCmd(),
		a.dotCmd(),
	)
	return root
}

// nodeSize is the shared node size from the editor config.
func (a *app) nodeSize() geom.Size {
	return geom.Size{W: a.cfg.Editor.NodeWidth, H: a.cfg.Editor.NodeHeight}
}

// loadSnapshot reads a JSON or TOML snapshot chosen by extension.
func loadSnapshot(path string) (*snapshot.Snapshot, error) {
	format, err := snapshot.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := snapshot.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s, nil
}

// writeOutput writes data to path, or to the command's stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	good.Fprintf(cmd.OutOrStdout(), "✓ wrote %s\n", path)
	return nil
}

func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}
