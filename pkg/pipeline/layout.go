package pipeline

import (
	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/layout"
)

// GenerateLayout positions root and exports the result. It fails only on an
// invalid configuration; the layout itself is total.
func GenerateLayout(root *family.Node, cfg layout.Config) (layout.Layout, error) {
	if root == nil {
		return layout.Layout{}, errors.New(errors.ErrCodeInvalidInput, "tree is empty")
	}
	if err := cfg.Validate(); err != nil {
		return layout.Layout{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout config")
	}
	return layout.Export(layout.Run(root, cfg), cfg), nil
}
