package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cartService "github.com/Alturino/storefront/cart/service"
)

func cartCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "cart",
		Short: "Show and modify the shopping cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, c := newApp(cmd, false)
			defer app.close(c)

			if !app.requireLogin() {
				return nil
			}

			svc := cartService.NewCartService(app.gateway, app.session, app.notifier, app.confirm)
			cart, _ := svc.Load(c)
			renderCart(app.out, cart)
			return nil
		},
	}
	command.AddCommand(
		cartAddCommand(),
		cartUpdateCommand(),
		cartRemoveCommand(),
		cartClearCommand(),
	)
	return command
}

func cartAddCommand() *cobra.Command {
	var quantity int
	command := &cobra.Command{
		Use:   "add <productId>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("failed parsing product id with error=%w", err)
			}

			app, c := newApp(cmd, false)
			defer app.close(c)

			svc := cartService.NewCartService(app.gateway, app.session, app.notifier, app.confirm)
			if err := svc.AddItem(c, productID, quantity); err != nil {
				return nil
			}
			if count, err := svc.ItemCount(c); err == nil {
				fmt.Fprintf(app.out, "Cart: %d item(s)\n", count)
			}
			return nil
		},
	}
	command.Flags().IntVar(&quantity, "quantity", 1, "quantity to add")
	return command
}

func cartUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update <itemId> <quantity>",
		Short: "Change the quantity of a cart item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("failed parsing cart item id with error=%w", err)
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("failed parsing quantity with error=%w", err)
			}

			app, c := newApp(cmd, false)
			defer app.close(c)

			if !app.requireLogin() {
				return nil
			}

			svc := cartService.NewCartService(app.gateway, app.session, app.notifier, app.confirm)
			if _, err := svc.Load(c); err != nil {
				return nil
			}
			cart, _ := svc.SetItemQuantity(c, itemID, quantity)
			renderCart(app.out, cart)
			return nil
		},
	}
}

func cartRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <itemId>",
		Short: "Remove an item from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("failed parsing cart item id with error=%w", err)
			}

			app, c := newApp(cmd, false)
			defer app.close(c)

			if !app.requireLogin() {
				return nil
			}

			svc := cartService.NewCartService(app.gateway, app.session, app.notifier, app.confirm)
			if _, err := svc.Load(c); err != nil {
				return nil
			}
			cart, _ := svc.RemoveItem(c, itemID)
			renderCart(app.out, cart)
			return nil
		},
	}
}

func cartClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, c := newApp(cmd, false)
			defer app.close(c)

			if !app.requireLogin() {
				return nil
			}

			svc := cartService.NewCartService(app.gateway, app.session, app.notifier, app.confirm)
			if _, err := svc.Load(c); err != nil {
				return nil
			}
			cart, _ := svc.Clear(c)
			renderCart(app.out, cart)
			return nil
		},
	}
}
