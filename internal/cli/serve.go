package cli

import (
	"github.com/spf13/cobra"

	"github.com/repeatyourselfpls/family-tree-v2/internal/api"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/cache"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/observability"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/pipeline"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/store"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve layout, conversion, and tree storage over HTTP.

Set cache.redis_url (or FAMILYTREE_CACHE_REDIS_URL) to share cached layouts
between several servers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.settings.Server.Addr
			}

			cc, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:"), c.Logger)
			defer runner.Close()

			observability.NewLogHooks(c.Logger).Install()
			defer observability.Reset()

			var st *store.Store
			if !noStore {
				if st, err = c.openStore(); err != nil {
					return err
				}
				defer st.Close()
			}

			srv := api.New(api.Config{Addr: addr, Layout: c.settings.Layout}, runner, st, c.Logger)

			printInfo("Serving on %s", addr)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+api.DefaultAddr+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable the /v1/trees routes")
	return cmd
}
