package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javaweb/webshop-client/internal/catalog"
	"github.com/javaweb/webshop-client/pkg/pagination"
)

func newProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}
	cmd.AddCommand(newProductsSearchCommand(), newProductsShowCommand(), newCategoriesCommand())
	return cmd
}

func newProductsSearchCommand() *cobra.Command {
	var keyword string
	var categoryID int64
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search on-sale products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				listing, err := a.catalog.SearchProducts(cmd.Context(), catalog.SearchQuery{
					Keyword:    keyword,
					CategoryID: categoryID,
					Params:     pagination.Params{Page: page, PageSize: pageSize},
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, product := range listing.Records {
					fmt.Fprintf(out, "#%-5d %-28s %10s stock %d\n",
						product.ID, product.Name, product.Price.StringFixed(2), product.Stock)
				}
				fmt.Fprintf(out, "page %d of %d (%d products)\n", listing.Current, listing.PageCount(), listing.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "search keyword")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id filter")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "rows per page")
	return cmd
}

func newProductsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show one product with its variants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLineID(args[0])
			if err != nil {
				return fmt.Errorf("product id %q is not a number", args[0])
			}
			return withApp(cmd, func(a *app) error {
				product, err := a.catalog.Product(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s  %s (stock %d, sold %d)\n",
					product.Name, product.Price.StringFixed(2), product.Stock, product.Sales)
				if product.Description != "" {
					fmt.Fprintln(out, product.Description)
				}
				for _, sku := range product.SKUs {
					fmt.Fprintf(out, "  sku #%-4d %s  %s (stock %d)\n",
						sku.ID, sku.SpecInfo, sku.Price.StringFixed(2), sku.Stock)
				}
				return nil
			})
		},
	}
}

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Print the category tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				tree, err := a.catalog.CategoryTree(cmd.Context())
				if err != nil {
					return err
				}
				var walk func(nodes []catalog.Category, depth int)
				walk = func(nodes []catalog.Category, depth int) {
					for _, node := range nodes {
						fmt.Fprintf(cmd.OutOrStdout(), "%*s%s (#%d)\n", depth*2, "", node.Name, node.ID)
						walk(node.Children, depth+1)
					}
				}
				walk(tree, 0)
				return nil
			})
		},
	}
}

func newStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Merchant dashboard figures",
	}

	overview := &cobra.Command{
		Use:   "overview",
		Short: "Headline revenue numbers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				ov, err := a.stats.Overview(cmd.Context(), time.Now())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "orders:        %d (%d paid)\n", ov.TotalOrders, ov.PaidOrders)
				fmt.Fprintf(out, "revenue:       %s\n", ov.TotalRevenue.StringFixed(2))
				fmt.Fprintf(out, "average order: %s\n", ov.AverageOrder.StringFixed(2))
				fmt.Fprintf(out, "today:         %d orders, %s\n", ov.TodayOrders, ov.TodayRevenue.StringFixed(2))
				fmt.Fprintf(out, "this month:    %d orders, %s\n", ov.MonthOrders, ov.MonthRevenue.StringFixed(2))
				return nil
			})
		},
	}

	var days int
	trend := &cobra.Command{
		Use:   "trend",
		Short: "Daily revenue over the trailing window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				points, err := a.stats.Trend(cmd.Context(), days, time.Now())
				if err != nil {
					return err
				}
				for _, point := range points {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %3d orders  %10s\n",
						point.Date, point.Orders, point.Revenue.StringFixed(2))
				}
				return nil
			})
		},
	}
	trend.Flags().IntVar(&days, "days", 7, "window size in days")

	var limit int
	top := &cobra.Command{
		Use:   "top",
		Short: "Best-selling products by revenue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				ranks, err := a.stats.TopProducts(cmd.Context(), limit)
				if err != nil {
					return err
				}
				for i, rank := range ranks {
					fmt.Fprintf(cmd.OutOrStdout(), "%2d. %-28s x%-4d %10s\n",
						i+1, rank.ProductName, rank.Quantity, rank.Revenue.StringFixed(2))
				}
				return nil
			})
		},
	}
	top.Flags().IntVar(&limit, "limit", 10, "rows to show")

	cmd.AddCommand(overview, trend, top)
	return cmd
}
