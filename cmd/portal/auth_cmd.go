package main

import (
	"fmt"

	"hr-portal/internal/domain"

	"github.com/spf13/cobra"
)

func newLoginCmd(get func() *portal) *cobra.Command {
	var email, password, role string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			sess, err := p.resolver.Login(cmd.Context(), email, password, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(p.out, "Logged in as %s (%s)\n", sess.Name, sess.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&role, "role", "", "hr or employee")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newSignupCmd(get func() *portal) *cobra.Command {
	var name, email, password, role, department string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			sess, err := p.resolver.Signup(cmd.Context(), name, email, password, r, department)
			if err != nil {
				return err
			}
			fmt.Fprintf(p.out, "Welcome, %s. You are logged in as %s.\n", sess.Name, sess.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 6 characters")
	cmd.Flags().StringVar(&role, "role", "employee", "hr or employee")
	cmd.Flags().StringVar(&department, "department", "", "department")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(get func() *portal) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			if _, _, err := p.resolver.Resolve(cmd.Context()); err != nil {
				return err
			}
			if err := p.resolver.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(p.out, "Logged out")
			return nil
		},
	}
}

func newStatusCmd(get func() *portal) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			state, sess, err := p.resolver.Resolve(cmd.Context())
			if err != nil {
				return err
			}
			if sess.UserID == "" {
				fmt.Fprintf(p.out, "%s: choose a role and log in\n", state)
				return nil
			}
			fmt.Fprintf(p.out, "%s: %s (%s), session valid until %s\n",
				state, sess.Name, sess.Role, sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}
