// Package family provides the person-node model for genealogical trees.
//
// # Overview
//
// A family tree is a rooted forest of [Node] values. Each node owns an
// ordered list of children and at most one spouse. A node and its spouse
// form a couple: they are laid out side by side, and all descendants of the
// couple hang off the main node. Spouses never have children of their own.
//
// # Ownership
//
// Children and spouses are owned by their node. Parent, sibling, and
// spouse-partner links are non-owning back-references; they are recomputed
// by [layout.Initialize] on every layout pass and are never treated as the
// persisted source of truth.
//
// # Mutation
//
// All mutations are synchronous, in-place, and unvalidated:
//
//	root := family.New("Ada")
//	kid := root.AddDescendant("Byron")
//	kid.AddSpouse("Clara")
//	kid.UpdatePersonData(family.Patch{family.FieldBirth: "1815"})
//
// Callers must re-run layout after mutating a tree. Nothing checks for
// duplicate names, shared subtrees, or cycles; those are caller preconditions.
//
// [layout.Initialize]: github.com/repeatyourselfpls/family-tree-v2/pkg/layout.Initialize
package family
