package pipeline

import (
	"context"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/layout"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/render/nodelink"
)

// Render generates output artifacts in the given formats.
func Render(ctx context.Context, l layout.Layout, formats []string, labels bool) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	var dot string

	for _, format := range formats {
		if format != FormatJSON && dot == "" {
			dot = nodelink.ToDOT(l, nodelink.Options{Labels: labels})
		}

		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			data, err = layout.MarshalLayout(l)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFromLayoutData renders from serialized layout JSON, for layouts
// computed elsewhere. Undecodable data is reported as INVALID_INPUT.
func RenderFromLayoutData(ctx context.Context, data []byte, formats []string, labels bool) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	l, err := layout.UnmarshalLayout(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse layout")
	}
	return Render(ctx, l, formats, labels)
}
