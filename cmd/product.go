package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	productService "github.com/Alturino/storefront/product/service"
)

func productsCommand() *cobra.Command {
	var (
		search     string
		categoryID int64
	)
	command := &cobra.Command{
		Use:   "products",
		Short: "Browse the product catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, c := newApp(cmd, false)
			defer app.close(c)

			svc := productService.NewProductService(app.gateway, app.notifier)
			if _, err := svc.LoadProducts(c); err != nil {
				return err
			}
			if categories, err := svc.LoadCategories(c); err == nil && categoryID == 0 && search == "" {
				names := make([]string, 0, len(categories))
				for _, category := range categories {
					names = append(names, fmt.Sprintf("%d=%s", category.ID, category.Name))
				}
				if len(names) > 0 {
					fmt.Fprintf(app.out, "Categories: %s\n\n", strings.Join(names, ", "))
				}
			}

			renderProducts(app.out, svc.Filter(search, categoryID))
			return nil
		},
	}
	command.Flags().StringVar(&search, "search", "", "filter products by name or description")
	command.Flags().Int64Var(&categoryID, "category", 0, "filter products by category id")
	return command
}
