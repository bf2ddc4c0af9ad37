package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javaweb/webshop-client/internal/session"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Command-line client for the web shop backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newLoginCommand(),
		newLogoutCommand(),
		newRegisterCommand(),
		newWhoamiCommand(),
		newCartCommand(),
		newOrdersCommand(),
		newAddressCommand(),
		newProductsCommand(),
		newStatsCommand(),
	)
	return root
}

// withApp bootstraps the stack, runs fn, and tears the stack down.
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil {
			a.logger.Error(ctx, "closing client stack", cerr)
		}
	}()
	return fn(a)
}

func newLoginCommand() *cobra.Command {
	var username, password string
	var merchant bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				err := a.session.Login(cmd.Context(), session.Credentials{
					Username: username,
					Password: password,
				})
				if err != nil {
					return err
				}
				identity := a.session.Identity()
				if merchant && identity.Role != session.RoleMerchant {
					a.session.ForceLogout(cmd.Context())
					return fmt.Errorf("account %q is not a merchant", identity.Username)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (%s)\n", identity.Username, identity.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().BoolVar(&merchant, "merchant", false, "require a merchant account")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the persisted session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				if err := a.session.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "signed out")
				return nil
			})
		},
	}
}

func newRegisterCommand() *cobra.Command {
	reg := session.Registration{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a shopper account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				if err := a.session.Register(cmd.Context(), reg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "account %s created, sign in with shopctl login\n", reg.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&reg.Username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&reg.Nickname, "nickname", "", "display name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "contact phone")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newWhoamiCommand() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				identity := a.session.Identity()
				if refresh {
					var err error
					identity, err = a.session.FetchIdentity(cmd.Context())
					if err != nil {
						return err
					}
				}
				if identity == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
					return nil
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "id:       %d\n", identity.ID)
				fmt.Fprintf(out, "username: %s\n", identity.Username)
				fmt.Fprintf(out, "role:     %s\n", identity.Role)
				if identity.Nickname != "" {
					fmt.Fprintf(out, "nickname: %s\n", identity.Nickname)
				}
				if identity.Email != "" {
					fmt.Fprintf(out, "email:    %s\n", identity.Email)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch the profile from the backend")
	return cmd
}

// parseSpecs turns repeated key=value flags into a spec selection.
func parseSpecs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	specs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("spec %q is not key=value", pair)
		}
		specs[key] = value
	}
	return specs, nil
}
