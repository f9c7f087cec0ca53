package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/layout"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/pipeline"
)

// renderCommand creates the "render" command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formats    string
		output     string
		labels     bool
		fromLayout bool
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render <tree>",
		Short: "Draw a tree as SVG, PNG, or Graphviz DOT",
		Long: `Lay out a tree and draw it.

Formats: svg (default), png, dot, json. Pass several separated by commas.
With --from-layout the argument is a layout file written by "layout".`,
		Example: `  familytree render lovelace.ftree
  familytree render lovelace.json -f svg,dot --labels -o out/lovelace
  familytree render --from-layout lovelace.layout.json -f png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmts := parseFormats(formats)
			if err := pipeline.ValidateFormats(fmts); err != nil {
				return err
			}
			base := output
			if base == "" {
				base = outputBase(args[0])
				if fromLayout {
					base = outputBase(base)
				}
			}

			runner, err := c.newRunner(cmd.Context(), flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			opts := pipeline.Options{
				Input:   args[0],
				Layout:  flags.apply(c.settings.Layout),
				Formats: fmts,
				Labels:  labels,
				Refresh: flags.refresh,
			}

			var artifacts map[string][]byte
			if fromLayout {
				l, err := layout.ReadLayoutFile(args[0])
				if err != nil {
					return err
				}
				if artifacts, err = runner.Render(cmd.Context(), l, opts); err != nil {
					return err
				}
			} else {
				result, err := runner.Execute(cmd.Context(), opts)
				if err != nil {
					return err
				}
				artifacts = result.Artifacts
				printStats(result.Stats.NodeCount, result.Stats.SpouseCount, result.CacheInfo.RenderHit)
			}

			var written []string
			for _, f := range fmts {
				path := base + "." + f
				if f == pipeline.FormatJSON {
					path = base + ".layout.json"
				}
				if err := writeArtifact(path, artifacts[f]); err != nil {
					return err
				}
				written = append(written, path)
			}
			prog.done(fmt.Sprintf("Rendered %d file(s)", len(written)))

			printSuccess("Rendered %s", args[0])
			for _, p := range written {
				printFile(p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "output formats, comma separated (svg, png, dot, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path without extension (default next to the input)")
	cmd.Flags().BoolVar(&labels, "labels", false, "show life dates and occupation")
	cmd.Flags().BoolVar(&fromLayout, "from-layout", false, "read a layout file instead of a tree")
	flags.register(cmd)
	return cmd
}

func writeArtifact(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
