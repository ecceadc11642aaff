package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/storefront/internal/products"
)

type listFlags struct {
	category int64
	search   string
	page     int
	pageSize int
}

func (f listFlags) update() products.FilterUpdate {
	update := products.FilterUpdate{}
	if f.category > 0 {
		category := f.category
		update.Category = &category
	}
	if f.search != "" {
		search := f.search
		update.Search = &search
	}
	if f.pageSize > 0 {
		size := f.pageSize
		update.PageSize = &size
	}
	return update
}

// loadList opens the list with the given filters and walks forward to the
// requested page.
func loadList(ctx context.Context, a *app, f listFlags) (*products.ListController, error) {
	list := products.NewListController(a.deps)
	if err := list.ApplyFilters(ctx, f.update()); err != nil {
		return list, err
	}
	for list.State().Filters.Page < f.page && list.State().HasNext {
		if err := list.NextPage(ctx); err != nil {
			return list, err
		}
	}
	return list, nil
}

func bindListFlags(cmd *cobra.Command, f *listFlags) {
	cmd.Flags().Int64Var(&f.category, "category", 0, "only products of this category id")
	cmd.Flags().StringVar(&f.search, "search", "", "search term")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "products per page")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func newProductsCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"p"},
		Short:   "List and manage products",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List one page of products",
		Args:  cobra.NoArgs,
		RunE: run(root, func(ctx context.Context, a *app) (any, error) {
			c, err := loadList(ctx, a, lf)
			return c.State(), err
		}),
	}
	bindListFlags(list, &lf)

	featured := &cobra.Command{
		Use:   "featured",
		Short: "List featured products",
		Args:  cobra.NoArgs,
		RunE: run(root, func(ctx context.Context, a *app) (any, error) {
			c := products.NewFeaturedController(a.deps)
			err := c.Load(ctx)
			return c.State(), err
		}),
	}

	cmd.AddCommand(list, featured,
		newShowCmd(root),
		newFeatureCmd(root),
		newDeleteCmd(root),
		newAddToCartCmd(root),
	)
	return cmd
}

func newShowCmd(root *rootFlags) *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) (err error) {
			id, err = parseID(args[0])
			return err
		},
	}
	cmd.RunE = run(root, func(ctx context.Context, a *app) (any, error) {
		c := products.NewDetailController(a.deps)
		err := c.Load(ctx, id)
		return c.State(), err
	})
	return cmd
}

// newFeatureCmd toggles the featured flag of a product on the listed page.
func newFeatureCmd(root *rootFlags) *cobra.Command {
	var (
		id int64
		lf listFlags
	)
	cmd := &cobra.Command{
		Use:   "feature ID",
		Short: "Toggle the featured flag of a listed product",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) (err error) {
			id, err = parseID(args[0])
			return err
		},
	}
	bindListFlags(cmd, &lf)
	cmd.RunE = run(root, func(ctx context.Context, a *app) (any, error) {
		c, err := loadList(ctx, a, lf)
		if err != nil {
			return nil, err
		}
		err = c.ToggleFeatured(ctx, id)
		return c.State(), err
	})
	return cmd
}

func newDeleteCmd(root *rootFlags) *cobra.Command {
	var (
		id  int64
		lf  listFlags
		yes bool
	)
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a listed product",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) (err error) {
			id, err = parseID(args[0])
			return err
		},
	}
	bindListFlags(cmd, &lf)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	cmd.RunE = run(root, func(ctx context.Context, a *app) (any, error) {
		c, err := loadList(ctx, a, lf)
		if err != nil {
			return nil, err
		}
		c.RequestDelete(id)
		if !yes {
			c.CancelDelete()
			return nil, fmt.Errorf("refusing to delete product %d without --yes", id)
		}
		err = c.ConfirmDelete(ctx)
		return c.State(), err
	})
	return cmd
}

func newAddToCartCmd(root *rootFlags) *cobra.Command {
	var (
		id       int64
		quantity int
	)
	cmd := &cobra.Command{
		Use:   "add-to-cart ID",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) (err error) {
			id, err = parseID(args[0])
			return err
		},
	}
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "units to add")
	cmd.RunE = run(root, func(ctx context.Context, a *app) (any, error) {
		c := products.NewDetailController(a.deps)
		if err := c.Load(ctx, id); err != nil {
			return nil, err
		}
		c.SetQuantity(quantity)
		if _, err := c.AddToCart(ctx); err != nil {
			return nil, err
		}
		err := a.cart.Load(ctx)
		return a.cart.State(), err
	})
	return cmd
}
