package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javaweb/webshop-client/internal/address"
)

func newAddressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Manage the delivery address book",
	}
	cmd.AddCommand(
		newAddressListCommand(),
		newAddressAddCommand(),
		newAddressRemoveCommand(),
		newAddressDefaultCommand(),
	)
	return cmd
}

func newAddressListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved addresses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				book, err := a.address.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, entry := range book {
					marker := " "
					if entry.Default() {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %-4d %-12s %-14s %s\n",
						marker, entry.ID, entry.ReceiverName, entry.ReceiverPhone, entry.Full())
				}
				return nil
			})
		},
	}
}

func newAddressAddCommand() *cobra.Command {
	var input address.Input
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an address book entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				if err := a.address.Add(cmd.Context(), input); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "address saved")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&input.ReceiverName, "name", "", "receiver name")
	cmd.Flags().StringVar(&input.ReceiverPhone, "phone", "", "receiver phone")
	cmd.Flags().StringVar(&input.Province, "province", "", "province")
	cmd.Flags().StringVar(&input.City, "city", "", "city")
	cmd.Flags().StringVar(&input.District, "district", "", "district")
	cmd.Flags().StringVar(&input.DetailAddress, "detail", "", "street detail")
	cmd.Flags().BoolVar(&input.AsDefault, "default", false, "make this the default address")
	return cmd
}

func newAddressRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <address-id>",
		Short: "Remove an address book entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLineID(args[0])
			if err != nil {
				return fmt.Errorf("address id %q is not a number", args[0])
			}
			return withApp(cmd, func(a *app) error {
				if err := a.address.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "address %d removed\n", id)
				return nil
			})
		},
	}
}

func newAddressDefaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <address-id>",
		Short: "Make an entry the default address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLineID(args[0])
			if err != nil {
				return fmt.Errorf("address id %q is not a number", args[0])
			}
			return withApp(cmd, func(a *app) error {
				if err := a.address.SetDefault(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "address %d is now the default\n", id)
				return nil
			})
		},
	}
}
