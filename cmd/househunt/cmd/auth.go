package cmd

import (
	"errors"
	"fmt"

	"github.com/househunt/househunt-go/internal/model"
	"github.com/househunt/househunt-go/internal/service"
	"github.com/spf13/cobra"
)

func newLoginCmd(c *cli) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Logs in and remembers the session.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := c.app.Login(cmd.Context(), args[0], password)
			if err != nil {
				return errors.New(service.FailureMessage("Login", err))
			}
			c.session = session

			fmt.Fprintln(cmd.OutOrStdout(), "Login successful!")
			fmt.Fprintln(cmd.OutOrStdout(), service.Welcome(session.Username))
			return c.wait(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newRegisterCmd(c *cli) *cobra.Command {
	var req model.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Creates an account. Log in afterwards.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Username = args[0]
			if err := c.app.Auth.Register(cmd.Context(), req); err != nil {
				return errors.New(service.FailureMessage("Registration", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful! Please log in.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm", "", "password again")
	return cmd
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forgets the stored session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Logout(cmd.Context()); err != nil {
				return err
			}
			c.session = model.Session{}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Prints the logged in user.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.session.Valid() {
				return errNotLoggedIn
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.Welcome(c.session.Username))
			return nil
		},
	}
}
