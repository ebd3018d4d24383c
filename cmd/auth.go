package cmd

import (
	"fmt"

	"github.com/iksnae/teampulse/internal"
	"github.com/spf13/cobra"
)

var (
	authUsername    string
	authPassword    string
	authFullName    string
	authEmail       string
	authConfirm     string
	authAcceptTerms bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Remember a user as logged in",
	Long: `Remember a user as logged in on this machine. Credentials are not
checked against any server; any non-empty username and password work.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		user, err := app.Auth.Login(authUsername, authPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Username)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a local account",
	Long: `Create a local account. Passwords need at least 8 characters with an
uppercase letter, a lowercase letter, a number and one of !@#$%^&*.
Passwords are validated only and never stored.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		user, err := app.Auth.Signup(internal.SignupForm{
			FullName:        authFullName,
			Email:           authEmail,
			Username:        authUsername,
			Password:        authPassword,
			ConfirmPassword: authConfirm,
			AcceptTerms:     authAcceptTerms,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! Signed up as %s\n", user.FullName, user.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		if err := app.Auth.Logout(); err != nil {
			return fmt.Errorf("failed to log out: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		user, err := app.Auth.CurrentUser()
		if err != nil {
			return fmt.Errorf("failed to read user: %w", err)
		}

		out := cmd.OutOrStdout()
		if user == nil {
			fmt.Fprintln(out, "Not logged in")
			return nil
		}
		fmt.Fprintln(out, user.Username)
		if user.FullName != "" {
			fmt.Fprintf(out, "  Name:  %s\n", user.FullName)
		}
		if user.Email != "" {
			fmt.Fprintf(out, "  Email: %s\n", user.Email)
		}
		if user.ID != "" {
			fmt.Fprintf(out, "  ID:    %s\n", idStyle.Render(user.ID))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password")

	signupCmd.Flags().StringVarP(&authUsername, "username", "u", "", "Username")
	signupCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password")
	signupCmd.Flags().StringVar(&authConfirm, "confirm-password", "", "Password again")
	signupCmd.Flags().StringVar(&authFullName, "name", "", "Full name")
	signupCmd.Flags().StringVar(&authEmail, "email", "", "Email address")
	signupCmd.Flags().BoolVar(&authAcceptTerms, "accept-terms", false, "Accept the Terms of Service")
}
