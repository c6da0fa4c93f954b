package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	"github.com/Alturino/storefront/internal/pricing"
	orderResponse "github.com/Alturino/storefront/order/pkg/response"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

func renderProducts(out io.Writer, products []productResponse.Product) {
	if len(products) == 0 {
		fmt.Fprintln(out, "No products found")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		stock := "Out of stock"
		if p.InStock() {
			stock = fmt.Sprintf("%d in stock", p.StockQuantity)
		}
		category := p.CategoryName
		if category == "" {
			category = "N/A"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, category, pricing.FormatUSD(p.Price), stock)
	}
	w.Flush()
}

func renderCart(out io.Writer, cart cartResponse.Cart) {
	if cart.IsEmpty() {
		fmt.Fprintln(out, "Your cart is empty.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCT\tPRICE\tQTY\tSUBTOTAL")
	for _, item := range cart.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			item.ID,
			item.ProductName,
			pricing.FormatUSD(item.Price),
			item.Quantity,
			pricing.FormatUSD(item.Subtotal),
		)
	}
	w.Flush()

	totals := pricing.ComputeTotals(cart.TotalPrice)
	fmt.Fprintf(out, "\nSubtotal: %s\n", pricing.FormatUSD(totals.Subtotal))
	fmt.Fprintf(out, "Tax (10%%): %s\n", pricing.FormatUSD(totals.Tax))
	fmt.Fprintf(out, "Total: %s\n", pricing.FormatUSD(totals.GrandTotal))
}

func renderOrders(out io.Writer, orders []orderResponse.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(out, "You have no orders yet.")
		return
	}
	for _, order := range orders {
		renderOrder(out, order)
		fmt.Fprintln(out)
	}
}

func renderOrder(out io.Writer, order orderResponse.Order) {
	fmt.Fprintf(out, "Order #%d  %s  %s  %s\n",
		order.ID,
		order.OrderDate.Format("Jan 2, 2006 15:04"),
		order.Status,
		pricing.FormatUSD(order.TotalPrice),
	)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, item := range order.Items {
		fmt.Fprintf(w, "  %s\t%d x %s\t%s\n",
			item.ProductName,
			item.Quantity,
			pricing.FormatUSD(item.Price),
			pricing.FormatUSD(item.Subtotal),
		)
	}
	w.Flush()
	fmt.Fprintf(out, "  Subtotal: %s  Tax: %s  Total: %s\n",
		pricing.FormatUSD(order.Subtotal),
		pricing.FormatUSD(order.Tax),
		pricing.FormatUSD(order.TotalPrice),
	)
}
