package cmd

import (
	"context"

	"github.com/spf13/cobra"

	cartService "github.com/Alturino/storefront/cart/service"
)

func checkoutCommand() *cobra.Command {
	var assumeYes bool
	command := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, c := newApp(cmd, assumeYes)
			defer app.close(c)

			if !app.requireLogin() {
				return nil
			}

			cart := cartService.NewCartService(app.gateway, app.session, app.notifier, app.confirm)
			reload := func(c context.Context) {
				snapshot, _ := cart.Load(c)
				renderCart(app.out, snapshot)
			}

			sequencer := cartService.NewCheckoutSequencer(app.gateway, app.notifier, app.confirm, reload)
			if order, err := sequencer.Checkout(c); err == nil && order != nil {
				renderOrder(app.out, *order)
			}
			return nil
		},
	}
	command.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the order confirmation prompt")
	return command
}
