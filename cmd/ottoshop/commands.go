package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoshop/internal/display"
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/server"
)

func newRootCmd() *cobra.Command {
	var flags globalFlags
	var a *app

	root := &cobra.Command{
		Use:   "ottoshop",
		Short: "Shopping lists from recipes",
		Long: `ottoshop keeps a list of recipes and custom items you want to shop for,
and turns it into one merged list grouped by shop aisle, minus what is
already in the pantry.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(flags)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/ottoshop/config.toml)")
	pf.BoolVar(&flags.verbose, "verbose", false, "enable verbose/debug logging")
	pf.BoolVar(&flags.quiet, "quiet", false, "disable all logging")
	pf.StringVar(&flags.logFile, "log-file", "", "file to write logs to (\"stderr\" logs to the console)")

	appFn := func() *app { return a }
	root.AddCommand(
		newServeCmd(appFn),
		newListCmd(appFn),
		newAddCmd(appFn),
		newRemoveCmd(appFn),
		newClearCmd(appFn),
		newShowCmd(appFn),
	)
	return root
}

func newServeCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the shopping list over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ap := a()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			gin.SetMode(gin.ReleaseMode)
			srv := server.New(ap.eng, ap.log, server.WithBind(ap.cfg.Server.Bind))
			if err := srv.Start(ctx); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), display.RenderBanner(0))
			fmt.Fprintf(cmd.OutOrStdout(), "serving %s on http://%s\n", ap.cfg.BaseDir, srv.Addr())

			<-ctx.Done()
			srv.Stop()
			return nil
		},
	}
}

func newListCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the stored references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a().eng.ListReferences(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Shopping list is empty.")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				q := ""
				if item.Quantity != nil {
					q = *item.Quantity
				}
				rows = append(rows, []string{item.Path, item.Name, domain.FormatAmount(item.Scale), item.Kind.String(), q})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"PATH", "NAME", "SCALE", "KIND", "QUANTITY"}, rows, 2))
			return nil
		},
	}
}

func newAddCmd(a func() *app) *cobra.Command {
	var (
		path     string
		scale    float64
		custom   bool
		quantity string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a recipe or a custom item",
		Long: `Add a recipe reference (--path points at the recipe under the base
directory) or a custom item (--custom). Custom items without --path get a
generated one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := domain.AddRequest{Path: path, Name: args[0]}
			if cmd.Flags().Changed("scale") {
				req.Scale = &scale
			}
			if custom {
				req.Kind = domain.KindCustom
			}
			if cmd.Flags().Changed("quantity") {
				req.Quantity = &quantity
			}

			item, err := a().eng.AddReference(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %s\n", item.Kind, item.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "recipe path, or the path of the custom item")
	cmd.Flags().Float64Var(&scale, "scale", 1, "scale factor for the recipe")
	cmd.Flags().BoolVar(&custom, "custom", false, "add a custom item instead of a recipe")
	cmd.Flags().StringVar(&quantity, "quantity", "", "free-form quantity, e.g. \"2 packs\"")
	return cmd
}

func newRemoveCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path>",
		Short: "Remove the first reference with the given path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a().eng.RemoveReference(cmd.Context(), args[0])
		},
	}
}

func newClearCmd(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a().eng.ClearReferences(cmd.Context())
		},
	}
}

func newShowCmd(a func() *app) *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the aggregated shopping list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := aggregateStored(cmd.Context(), a())
			if err != nil {
				return err
			}
			if !interactive {
				fmt.Fprint(cmd.OutOrStdout(), display.Render(list, display.TermWidth()))
				return nil
			}

			checked, err := display.RunChecklist(list)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ticked %d item(s)\n", len(checked))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "tick items off in an interactive checklist")
	return cmd
}

// aggregateStored aggregates every stored reference.
func aggregateStored(ctx context.Context, a *app) (*domain.ShoppingList, error) {
	items, err := a.eng.ListReferences(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.AggregateEntry, len(items))
	for i, item := range items {
		entries[i] = domain.EntryFromReference(item)
	}
	return a.eng.Aggregate(ctx, entries)
}
