package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/javaweb/webshop-client/internal/export"
	"github.com/javaweb/webshop-client/internal/orders"
	"github.com/javaweb/webshop-client/pkg/pagination"
)

func newOrdersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Browse and manage orders",
	}
	cmd.AddCommand(
		newOrdersListCommand(),
		newOrdersShowCommand(),
		newOrdersCheckoutCommand(),
		newOrdersCancelCommand(),
		newOrdersReceiveCommand(),
		newOrdersExportCommand(),
	)
	return cmd
}

func newOrdersCheckoutCommand() *cobra.Command {
	var addressID int64
	var note string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the checked cart lines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				ctx := cmd.Context()
				if err := a.cart.Refresh(ctx); err != nil {
					return err
				}
				checked := a.cart.CheckedLines()
				if len(checked) == 0 {
					return fmt.Errorf("no cart lines are checked")
				}

				// Without an explicit address the default book entry wins.
				if addressID == 0 {
					fallback, err := a.address.GetDefault(ctx)
					if err != nil {
						return err
					}
					if fallback == nil {
						return fmt.Errorf("no default address; pass --address or add one")
					}
					addressID = fallback.ID
				}

				input := orders.CreateInput{AddressID: addressID, Note: note}
				for _, line := range checked {
					input.CartItemIDs = append(input.CartItemIDs, line.ID)
				}

				order, err := a.orders.Create(ctx, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "order %s placed, total %s\n",
					order.OrderNo, order.TotalAmount.StringFixed(2))
				return a.cart.Refresh(ctx)
			})
		},
	}
	cmd.Flags().Int64Var(&addressID, "address", 0, "address book entry id (default: the default address)")
	cmd.Flags().StringVar(&note, "note", "", "note for the merchant")
	return cmd
}

func newOrdersListCommand() *cobra.Command {
	var status, page, pageSize int
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, mine by default",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				params := pagination.Params{Page: page, PageSize: pageSize}
				var listing *pagination.Page[orders.Order]
				var err error
				if all {
					listing, err = a.orders.ListAll(cmd.Context(), status, params)
				} else {
					listing, err = a.orders.ListMine(cmd.Context(), status, params)
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, order := range listing.Records {
					fmt.Fprintf(out, "%-16s %-16s %-15s %10s\n",
						order.OrderNo, order.CreatedAt, export.StatusLabel(order.Status),
						order.TotalAmount.StringFixed(2))
				}
				fmt.Fprintf(out, "page %d of %d (%d orders)\n", listing.Current, listing.PageCount(), listing.Total)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&status, "status", -1, "filter by status code")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "rows per page")
	cmd.Flags().BoolVar(&all, "all", false, "list every order (merchant)")
	return cmd
}

func newOrdersShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLineID(args[0])
			if err != nil {
				return fmt.Errorf("order id %q is not a number", args[0])
			}
			return withApp(cmd, func(a *app) error {
				order, err := a.orders.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "order:   %s (%s)\n", order.OrderNo, export.StatusLabel(order.Status))
				fmt.Fprintf(out, "placed:  %s\n", order.CreatedAt)
				fmt.Fprintf(out, "ship to: %s, %s, %s\n", order.ReceiverName, order.ReceiverPhone, order.ReceiverAddress)
				for _, item := range order.Items {
					fmt.Fprintf(out, "  %-24s x%-3d %8s\n", item.ProductName, item.Quantity, item.Price.StringFixed(2))
				}
				fmt.Fprintf(out, "total:   %s\n", order.TotalAmount.StringFixed(2))
				return nil
			})
		},
	}
}

func newOrdersCancelCommand() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "cancel <order-no>",
		Short: "Cancel an unpaid order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if err := a.orders.Cancel(cmd.Context(), args[0], reason); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "order %s cancelled\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "why the order is cancelled")
	return cmd
}

func newOrdersReceiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "receive <order-no>",
		Short: "Confirm receipt of a shipped order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if err := a.orders.ConfirmReceipt(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "order %s marked received\n", args[0])
				return nil
			})
		},
	}
}

func newOrdersExportCommand() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every order to CSV (merchant)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				var book []orders.Order
				params := pagination.Params{Page: 1, PageSize: pagination.MaxPageSize}
				for {
					page, err := a.orders.ListAll(cmd.Context(), -1, params)
					if err != nil {
						return err
					}
					book = append(book, page.Records...)
					if !page.HasNext() {
						break
					}
					params.Page++
				}

				if outPath == "" {
					outPath = export.Filename(time.Now())
				}
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()

				if err := export.WriteCSV(f, book); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d orders to %s\n", len(book), outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default orders-<timestamp>.csv)")
	return cmd
}
