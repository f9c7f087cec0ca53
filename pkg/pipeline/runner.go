package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/cache"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/io"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/layout"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner executes the pipeline with caching.
//
// A Runner holds no per-run state; multiple goroutines can share one as long
// as each passes its own tree.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute loads opts.Input and runs the rest of the pipeline on it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Input == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	start := time.Now()
	root, err := r.Load(ctx, opts.Input)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result, err := r.ExecuteTree(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(start)
	return result, nil
}

// ExecuteTree runs layout and render on an already loaded tree.
func (r *Runner) ExecuteTree(ctx context.Context, root *family.Node, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree is empty")
	}

	result := &Result{Tree: root}
	result.Stats.NodeCount, result.Stats.SpouseCount = family.Count(root)
	if hash, err := treeHash(root); err == nil {
		result.TreeHash = hash
	}

	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"spouses", result.Stats.SpouseCount,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load decodes the tree file at path.
func (r *Runner) Load(ctx context.Context, path string) (*family.Node, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	root, err := io.Import(path)
	nodes := 0
	if err == nil {
		nodes, _ = family.Count(root)
	}
	hooks.OnLoadComplete(ctx, path, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("loaded tree", "path", path, "nodes", nodes)
	return root, nil
}

// LayoutWithCacheInfo positions root with caching and reports whether the
// layout came from the cache.
//
// On a hit root keeps its previous layout fields. The cached layout is
// rebound to root's node IDs.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, root *family.Node, opts Options) (layout.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return layout.Layout{}, false, err
	}
	if root == nil {
		return layout.Layout{}, false, errors.New(errors.ErrCodeInvalidInput, "tree is empty")
	}

	hash, err := treeHash(root)
	if err != nil {
		return layout.Layout{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil {
			r.Logger.Warn("layout cache read failed", "err", err)
		}
		if hit {
			if cached, err := layout.UnmarshalLayout(data); err == nil {
				if l, ok := cached.Rebind(layout.LevelOrder(root)); ok {
					cacheHooks.OnCacheHit(ctx, keyTypeLayout)
					return l, true, nil
				}
			}
		}
		cacheHooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	nodes, _ := family.Count(root)
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, nodes)
	start := time.Now()
	l, err := GenerateLayout(root, opts.Layout)
	hooks.OnLayoutComplete(ctx, nodes, time.Since(start), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	if data, err := layout.MarshalLayout(l); err == nil {
		r.store(ctx, cacheKey, keyTypeLayout, data, cache.TTLLayout)
	}
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, root *family.Node, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, root, opts)
	return l, err
}

// RenderWithCacheInfo renders the requested formats, reusing cached
// artifacts. The bool is true when every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	layoutData, err := layout.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	cacheHooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			cacheHooks.OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := Render(ctx, l, missing, opts.Labels)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, key, keyTypeArtifact, data, cache.TTLArtifact)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func treeHash(root *family.Node) (string, error) {
	data, err := io.MarshalJSON(root)
	if err != nil {
		return "", fmt.Errorf("serialize tree for cache key: %w", err)
	}
	return cache.Hash(data), nil
}
