package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javaweb/webshop-client/internal/cart"
)

func newCartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and edit the shopping cart",
	}
	cmd.AddCommand(
		newCartListCommand(),
		newCartAddCommand(),
		newCartQuantityCommand(),
		newCartRemoveCommand(),
		newCartToggleCommand(),
		newCartSelectAllCommand(),
		newCartClearCommand(),
		newCartCountCommand(),
	)
	return cmd
}

func printCart(cmd *cobra.Command, basket *cart.Container) {
	out := cmd.OutOrStdout()
	lines := basket.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(out, "cart is empty")
		return
	}
	for _, line := range lines {
		mark := " "
		if line.Checked {
			mark = "x"
		}
		fmt.Fprintf(out, "[%s] #%-4d %-24s x%-3d %8s each %10s\n",
			mark, line.ID, line.ProductName, line.Quantity,
			line.UnitPrice.StringFixed(2), line.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(out, "selected: %d item(s), total %s\n",
		basket.CheckedCount(), basket.CheckedTotal().StringFixed(2))
}

func newCartListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the server-side cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				if err := a.cart.Refresh(cmd.Context()); err != nil {
					return err
				}
				printCart(cmd, a.cart)
				return nil
			})
		},
	}
}

func newCartAddCommand() *cobra.Command {
	var input cart.AddInput
	var specPairs []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			specs, err := parseSpecs(specPairs)
			if err != nil {
				return err
			}
			input.Specs = specs
			return withApp(cmd, func(a *app) error {
				if err := a.cart.AddItem(cmd.Context(), input); err != nil {
					return err
				}
				printCart(cmd, a.cart)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&input.ProductID, "product", 0, "product id")
	cmd.Flags().Int64Var(&input.SKUID, "sku", 0, "sku id")
	cmd.Flags().IntVar(&input.Quantity, "qty", 1, "quantity")
	cmd.Flags().StringArrayVar(&specPairs, "spec", nil, "spec selection, key=value (repeatable)")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func parseLineID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cart line id %q is not a number", arg)
	}
	return id, nil
}

func newCartQuantityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "qty <line-id> <quantity>",
		Short: "Change a line's quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := parseLineID(args[0])
			if err != nil {
				return err
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q is not a number", args[1])
			}
			return withApp(cmd, func(a *app) error {
				if err := a.cart.UpdateQuantity(cmd.Context(), lineID, quantity); err != nil {
					return err
				}
				printCart(cmd, a.cart)
				return nil
			})
		},
	}
}

func newCartRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <line-id>...",
		Short: "Remove one or more lines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseLineID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return withApp(cmd, func(a *app) error {
				var err error
				if len(ids) == 1 {
					err = a.cart.DeleteItem(cmd.Context(), ids[0])
				} else {
					err = a.cart.BatchDelete(cmd.Context(), ids)
				}
				if err != nil {
					return err
				}
				printCart(cmd, a.cart)
				return nil
			})
		},
	}
}

func newCartToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <line-id>",
		Short: "Flip a line's checkout selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := parseLineID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				if err := a.cart.Refresh(cmd.Context()); err != nil {
					return err
				}
				if err := a.cart.ToggleSelection(cmd.Context(), lineID); err != nil {
					return err
				}
				printCart(cmd, a.cart)
				return nil
			})
		},
	}
}

func newCartSelectAllCommand() *cobra.Command {
	var deselect bool
	cmd := &cobra.Command{
		Use:   "select-all",
		Short: "Select (or deselect) every line",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				if err := a.cart.Refresh(cmd.Context()); err != nil {
					return err
				}
				if err := a.cart.ToggleAllSelection(cmd.Context(), !deselect); err != nil {
					return err
				}
				printCart(cmd, a.cart)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&deselect, "off", false, "deselect instead")
	return cmd
}

func newCartClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				if err := a.cart.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cart cleared")
				return nil
			})
		},
	}
}

func newCartCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show the cart badge count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				if err := a.cart.RefreshCount(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), a.cart.Count())
				return nil
			})
		},
	}
}
