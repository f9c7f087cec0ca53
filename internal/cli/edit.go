package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/io"
)

// editCommand creates the "edit" command. Every subcommand loads the tree
// file, applies one mutation, and writes the file back in the same format.
// People are addressed by name; the first match in breadth-first order wins.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change people in a tree file",
	}

	cmd.AddCommand(c.editAddChildCommand())
	cmd.AddCommand(c.editRemoveChildCommand())
	cmd.AddCommand(c.editAddSpouseCommand())
	cmd.AddCommand(c.editRemoveSpouseCommand())
	cmd.AddCommand(c.editRenameCommand())
	cmd.AddCommand(c.editSetCommand())
	return cmd
}

func (c *CLI) editAddChildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-child <file> <parent> <name>",
		Short: "Append a child to a person",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editTree(args[0], func(root *family.Node) error {
				parent, err := findCouple(root, args[1])
				if err != nil {
					return err
				}
				if err := errors.ValidatePersonName(args[2]); err != nil {
					return err
				}
				parent.AddDescendant(args[2])
				printSuccess("Added %s as a child of %s", args[2], parent.Name)
				return nil
			})
		},
	}
}

func (c *CLI) editRemoveChildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-child <file> <parent> <child>",
		Short: "Remove a child and its descendants",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editTree(args[0], func(root *family.Node) error {
				parent, err := findCouple(root, args[1])
				if err != nil {
					return err
				}
				var child *family.Node
				for _, ch := range parent.Children {
					if ch.Name == args[2] {
						child = ch
						break
					}
				}
				if child == nil || !parent.RemoveDescendant(child) {
					return errors.New(errors.ErrCodeNodeNotFound, "%s has no child named %q", parent.Name, args[2])
				}
				printSuccess("Removed %s from %s", args[2], parent.Name)
				return nil
			})
		},
	}
}

func (c *CLI) editAddSpouseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-spouse <file> <person> <spouse>",
		Short: "Set a person's spouse, renaming any existing one",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editTree(args[0], func(root *family.Node) error {
				n, err := findMainPerson(root, args[1], "own spouse")
				if err != nil {
					return err
				}
				if err := errors.ValidatePersonName(args[2]); err != nil {
					return err
				}
				n.AddSpouse(args[2])
				printSuccess("%s is now married to %s", n.Name, args[2])
				return nil
			})
		},
	}
}

func (c *CLI) editRemoveSpouseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-spouse <file> <person>",
		Short: "Remove a person's spouse",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editTree(args[0], func(root *family.Node) error {
				n, err := findCouple(root, args[1])
				if err != nil {
					return err
				}
				if !n.HasSpouse() {
					printWarning("%s has no spouse", n.Name)
					return nil
				}
				n.RemoveSpouse()
				printSuccess("Removed the spouse of %s", n.Name)
				return nil
			})
		},
	}
}

func (c *CLI) editRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <file> <person> <new-name>",
		Short: "Rename a person",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.editTree(args[0], func(root *family.Node) error {
				n, err := findPerson(root, args[1])
				if err != nil {
					return err
				}
				if err := errors.ValidatePersonName(args[2]); err != nil {
					return err
				}
				n.UpdateName(args[2])
				printSuccess("Renamed %s to %s", args[1], args[2])
				return nil
			})
		},
	}
}

func (c *CLI) editSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <file> <person> <field=value>...",
		Short: "Set or clear personal details",
		Long: `Set personal details on a person. An empty value clears the field.

Fields: nick, birth, death, occ, loc, bio, pic.`,
		Example: `  familytree edit set lovelace.ftree Ada birth=1815-12-10 occ=mathematician
  familytree edit set lovelace.ftree Ada nick=`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parsePatch(args[2:])
			if err != nil {
				return err
			}
			return c.editTree(args[0], func(root *family.Node) error {
				n, err := findMainPerson(root, args[1], "details")
				if err != nil {
					return err
				}
				n.UpdatePersonData(patch)
				printSuccess("Updated %d field(s) of %s", len(patch), n.Name)
				return nil
			})
		},
	}
}

// editTree loads path, applies fn, and writes the tree back.
func (c *CLI) editTree(path string, fn func(root *family.Node) error) error {
	root, err := io.Import(path)
	if err != nil {
		return err
	}
	if err := fn(root); err != nil {
		return err
	}
	if err := io.Export(root, path); err != nil {
		return err
	}
	c.Logger.Debug("wrote tree", "path", path)
	printFile(path)
	return nil
}

func findPerson(root *family.Node, name string) (*family.Node, error) {
	if n := family.Find(root, name); n != nil {
		return n, nil
	}
	return nil, errors.New(errors.ErrCodeNodeNotFound, "no person named %q", name)
}

// findCouple resolves a name to the main node of its couple. Children and
// spouses hang off the main node, so naming either partner works.
func findCouple(root *family.Node, name string) (*family.Node, error) {
	n, err := findPerson(root, name)
	if err != nil {
		return nil, err
	}
	if n.IsSpouse {
		return n.Parent, nil
	}
	return n, nil
}

// findMainPerson is findPerson for edits only main nodes can carry. Tree
// files store a spouse by name alone.
func findMainPerson(root *family.Node, name, what string) (*family.Node, error) {
	n, err := findPerson(root, name)
	if err != nil {
		return nil, err
	}
	if n.IsSpouse {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"%s is the spouse of %s; tree files do not keep a spouse's %s", n.Name, n.Parent.Name, what)
	}
	return n, nil
}

// parsePatch turns "field=value" arguments into a patch.
func parsePatch(args []string) (family.Patch, error) {
	patch := make(family.Patch, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "expected field=value, got %q", arg)
		}
		f := family.Field(key)
		if !f.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown field %q (want one of %s)", key, fieldNames())
		}
		if err := errors.ValidateFieldValue(value); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "field %s", key)
		}
		patch[f] = value
	}
	return patch, nil
}

func fieldNames() string {
	names := make([]string, len(family.Fields))
	for i, f := range family.Fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
