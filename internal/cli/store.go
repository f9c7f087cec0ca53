package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/io"
)

// storeCommand creates the "store" command for the local tree database.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Save and load trees in the local database",
	}

	cmd.AddCommand(c.storeSaveCommand())
	cmd.AddCommand(c.storeLoadCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeDeleteCommand())
	return cmd
}

func (c *CLI) storeSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <file>",
		Short: "Save a tree file under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := io.Import(args[1])
			if err != nil {
				return err
			}
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Save(cmd.Context(), args[0], root)
			if err != nil {
				return err
			}
			printSuccess("Saved %s", rec.Name)
			printStats(rec.Nodes, rec.Spouses, false)
			printDetail("id %s", rec.ID)
			return nil
		},
	}
}

func (c *CLI) storeLoadCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Load a saved tree into a file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			root, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output != "" {
				if err := io.Export(root, output); err != nil {
					return err
				}
				printSuccess("Loaded %s", args[0])
				printFile(output)
				return nil
			}

			f, err := io.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := io.Marshal(root, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file (format by extension)")
	cmd.Flags().StringVar(&format, "format", string(io.FormatText), "stdout format (ftree or json)")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved trees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No saved trees")
				return nil
			}
			for _, r := range recs {
				printKeyValue(r.Name, fmt.Sprintf("%d people · updated %s", r.Nodes+r.Spouses, r.UpdatedAt.Local().Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
