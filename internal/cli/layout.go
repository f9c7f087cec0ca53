package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/layout"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/pipeline"
)

// layoutFlags holds per-run overrides of the configured layout settings.
type layoutFlags struct {
	noCache      bool
	refresh      bool
	coupleDist   float64
	siblingDist  float64
	treeDist     float64
	noKeepScreen bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().Float64Var(&f.coupleDist, "couple-distance", -1, "spouse offset from its partner (grid units)")
	cmd.Flags().Float64Var(&f.siblingDist, "sibling-distance", -1, "extra space between siblings (grid units)")
	cmd.Flags().Float64Var(&f.treeDist, "tree-distance", -1, "extra space between subtrees (grid units)")
	cmd.Flags().BoolVar(&f.noKeepScreen, "allow-negative", false, "do not shift the tree to keep x >= 0")
}

// apply overlays the flags that were set onto cfg.
func (f *layoutFlags) apply(cfg layout.Config) layout.Config {
	if f.coupleDist >= 0 {
		cfg.CoupleDistance = f.coupleDist
	}
	if f.siblingDist >= 0 {
		cfg.SiblingDistance = f.siblingDist
	}
	if f.treeDist >= 0 {
		cfg.TreeDistance = f.treeDist
	}
	if f.noKeepScreen {
		cfg.KeepOnScreen = false
	}
	return cfg
}

// layoutCommand creates the "layout" command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout <tree>",
		Short: "Compute node positions and write them as JSON",
		Long: `Compute the layout of a tree and write it as JSON.

The output lists every person, spouse, and couple bridge with pixel
coordinates, plus the edges between them. Render it with "render --from-layout"
or any tool that reads JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = outputBase(args[0]) + ".layout.json"
			}

			runner, err := c.newRunner(cmd.Context(), flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			result, err := runner.Execute(cmd.Context(), pipeline.Options{
				Input:   args[0],
				Layout:  flags.apply(c.settings.Layout),
				Formats: []string{pipeline.FormatJSON},
				Refresh: flags.refresh,
			})
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, result.Artifacts[pipeline.FormatJSON], 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done("Computed layout")

			printSuccess("Laid out %s", args[0])
			printStats(result.Stats.NodeCount, result.Stats.SpouseCount, result.CacheInfo.LayoutHit)
			printKeyValue("size", fmt.Sprintf("%.0f x %.0f px", result.Layout.Width, result.Layout.Height))
			printFile(output)
			printNextStep("Render it", fmt.Sprintf("%s render --from-layout %s", appName, output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <tree>.layout.json)")
	flags.register(cmd)
	return cmd
}
