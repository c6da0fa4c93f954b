package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	orderService "github.com/Alturino/storefront/order/service"
)

func ordersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "orders [orderId]",
		Short: "Show order history, or one order in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, c := newApp(cmd, false)
			defer app.close(c)

			if !app.requireLogin() {
				return nil
			}

			svc := orderService.NewOrderService(app.gateway, app.notifier)
			if len(args) == 1 {
				orderID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("failed parsing order id with error=%w", err)
				}
				order, err := svc.FindOrderById(c, orderID)
				if err != nil {
					return nil
				}
				renderOrder(app.out, order)
				return nil
			}

			orders, err := svc.FindOrders(c)
			if err != nil {
				return nil
			}
			renderOrders(app.out, orders)
			return nil
		},
	}
}
