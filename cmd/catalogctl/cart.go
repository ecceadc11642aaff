package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCartCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and edit the persisted cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart and its total",
		Args:  cobra.NoArgs,
		RunE: run(root, func(ctx context.Context, a *app) (any, error) {
			err := a.cart.Mount(ctx)
			return a.cart.State(), err
		}),
	}

	var (
		itemID   int64
		quantity int
	)
	update := &cobra.Command{
		Use:   "update ITEM QUANTITY",
		Short: "Set the quantity of a cart item",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(_ *cobra.Command, args []string) error {
			var err error
			if itemID, err = parseID(args[0]); err != nil {
				return err
			}
			if quantity, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			return nil
		},
		RunE: run(root, func(ctx context.Context, a *app) (any, error) {
			err := a.cart.UpdateQuantity(ctx, itemID, quantity)
			return a.cart.State(), err
		}),
	}

	remove := &cobra.Command{
		Use:   "remove ITEM",
		Short: "Remove an item from the cart",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) (err error) {
			itemID, err = parseID(args[0])
			return err
		},
		RunE: run(root, func(ctx context.Context, a *app) (any, error) {
			err := a.cart.Remove(ctx, itemID)
			return a.cart.State(), err
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the persisted cart; the next add creates a new one",
		Args:  cobra.NoArgs,
		RunE: run(root, func(ctx context.Context, a *app) (any, error) {
			return nil, a.cart.Clear(ctx)
		}),
	}

	cmd.AddCommand(show, update, remove, clearCmd)
	return cmd
}

func newCategoriesCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse product categories",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every category",
		Args:  cobra.NoArgs,
		RunE: run(root, func(ctx context.Context, a *app) (any, error) {
			categories, err := a.client.ListCategories(ctx)
			if err != nil {
				return nil, err
			}
			return categories, nil
		}),
	})
	return cmd
}
