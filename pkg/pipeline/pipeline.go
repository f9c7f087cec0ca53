// Package pipeline runs the load → layout → render pipeline for family trees.
//
// The CLI and the HTTP server both go through a [Runner], so caching,
// logging, and observability hooks behave the same on every entry point.
//
// # Stages
//
//  1. Load: decode a .ftree or .json document into a tree
//  2. Layout: position the tree and export it as a [layout.Layout]
//  3. Render: produce artifacts (JSON, DOT, SVG, PNG) from the layout
//
// Layouts are cached under a hash of the tree's JSON form plus the layout
// settings; artifacts under a hash of the layout plus the render settings.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "lovelace.ftree",
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Each stage can also be run on its own:
//
//	root, err := runner.Load(ctx, "lovelace.json")
//	l, err := runner.Layout(ctx, root, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"fmt"
	"time"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/cache"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/layout"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// DefaultFormats is used when Options.Formats is empty.
var DefaultFormats = []string{FormatSVG}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
type Options struct {
	// Input is the tree file to load. Only Execute reads it.
	Input string `json:"input,omitempty"`

	// Layout holds the layout settings. The zero value means
	// layout.DefaultConfig().
	Layout layout.Config `json:"layout"`

	// Formats lists the artifacts to render.
	Formats []string `json:"formats,omitempty"`
	// Labels adds life dates and occupation to rendered boxes.
	Labels bool `json:"labels,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// SetDefaults fills in unset fields.
func (o *Options) SetDefaults() {
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
}

// Validate checks the layout settings and formats.
func (o *Options) Validate() error {
	if err := o.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout config")
	}
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults applies defaults and validates. Calling it more
// than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	c := o.Layout
	return cache.LayoutKeyOpts{
		NodeSize:        c.NodeSize,
		SiblingDistance: c.SiblingDistance,
		TreeDistance:    c.TreeDistance,
		CoupleDistance:  c.CoupleDistance,
		ScaleX:          c.ScaleX,
		ScaleY:          c.ScaleY,
		KeepOnScreen:    c.KeepOnScreen,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Labels: o.Labels}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the loaded tree, with layout fields filled in unless the
	// layout came from the cache.
	Tree *family.Node

	// TreeHash is the content hash of the tree's JSON form.
	TreeHash string

	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	SpouseCount int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every requested artifact came from the cache
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d spouses (load %s, layout %s, render %s)",
		s.NodeCount, s.SpouseCount, s.LoadTime.Round(time.Microsecond),
		s.LayoutTime.Round(time.Microsecond), s.RenderTime.Round(time.Microsecond))
}
