package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/treeflow/pkg/render"
)

func (a *app) renderCmd() *cobra.Command {
	var (
		output   string
		format   string
		title    string
		width    int
		height   int
		noLabels bool
	)
	cmd := &cobra.Command{
		Use:   "render <snapshot>",
		Short: "Render a diagram as SVG or PNG",
		Example: "  treeflow render diagram.json\n" +
			"  treeflow render diagram.toml -o tree.png --width 800",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(args[0])
			if err != nil {
				return err
			}
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			if format == "" || format == "dot" {
				format = a.cfg.Export.Format
			}
			if output == "" {
				output = withExt(args[0], format)
			}

			sc := render.SceneFromSnapshot(*snap, a.nodeSize())
			var buf bytes.Buffer
			switch format {
			case "svg":
				opts := render.DefaultSVGOptions()
				opts.Title = title
				opts.Labels = !noLabels
				err = render.SVG(&buf, sc, opts)
			case "png":
				opts := render.DefaultPNGOptions()
				opts.Width, opts.Height = a.cfg.Export.Width, a.cfg.Export.Height
				if width > 0 || height > 0 {
					opts.Width, opts.Height = width, height
				}
				opts.Labels = !noLabels
				err = render.PNG(&buf, sc, opts)
			default:
				return fmt.Errorf("unknown render format %q (want svg or png)", format)
			}
			if err != nil {
				return fmt.Errorf("rendering %s: %w", args[0], err)
			}
			a.log.Debug("rendered", "input", args[0], "format", format, "bytes", buf.Len())
			return writeOutput(cmd, output, buf.Bytes())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "svg or png (default from output or config)")
	cmd.Flags().StringVar(&title, "title", "", "SVG document title")
	cmd.Flags().IntVar(&width, "width", 0, "PNG width, 0 to fit")
	cmd.Flags().IntVar(&height, "height", 0, "PNG height, 0 to fit")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "Omit node labels")
	return cmd
}
