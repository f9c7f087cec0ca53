package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/io"
)

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Start a new tree file",
		Long:  `Write a tree holding a single placeholder person. The format follows the file extension (.ftree or .json).`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := errors.ValidatePersonName(name); err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := io.Export(family.New(name), path); err != nil {
				return err
			}

			printSuccess("Created tree")
			printFile(path)
			printNextStep("Add a child", fmt.Sprintf("%s edit add-child %s %q <name>", appName, path, name))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", newTreeName, "name of the first person")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// convertCommand creates the "convert" command.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a tree between .ftree and .json",
		Long: `Convert a tree file. Both formats are chosen by file extension.

Spouses keep only their name in either format.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := io.Import(args[0])
			if err != nil {
				return err
			}
			if err := io.Export(root, args[1]); err != nil {
				return err
			}

			nodes, spouses := family.Count(root)
			printSuccess("Converted %s", args[0])
			printStats(nodes, spouses, false)
			printFile(args[1])
			return nil
		},
	}
}
