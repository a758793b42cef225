package cli

import (
	"bufio"
	"codecourse/internal/client"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string

	signupReq client.SignupRequest
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the access token",
	Long: `Sign in with your username and password.

The access token is stored in ~/.codecourse/config.json and sent with every
later command until you log out.

Example:
  codecourse login -u alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		username := loginUsername
		if username == "" {
			username = prompt(in, out, "Username: ")
		}
		password := loginPassword
		if password == "" {
			password = prompt(in, out, "Password: ")
		}

		token, err := api.Login(ctxOf(cmd), username, password)
		if err != nil {
			fmt.Fprintln(out, red.Render("✗ Login failed. Please check your credentials."))
			return errors.New(describeErr(err))
		}
		if err := sess.Login(token); err != nil {
			return err
		}

		user, _ := sess.User()
		fmt.Fprintln(out, green.Render("✓ Logged in as "+user.Username))
		fmt.Fprintln(out, gray.Render("role: "+user.Role))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !sess.IsAuthenticated() {
			fmt.Fprintln(out, "Already logged out")
			return nil
		}
		if err := sess.Logout(); err != nil {
			return fmt.Errorf("failed to clear credentials: %w", err)
		}
		fmt.Fprintln(out, green.Render("✓ Logged out successfully!"))
		return nil
	},
}

var whoamiRemote bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		user, ok := sess.User()
		if !ok {
			fmt.Fprintln(out, gray.Render("Not logged in"))
			return nil
		}
		if !whoamiRemote {
			fmt.Fprintf(out, "%s %s\n", cyan.Render(user.Username), gray.Render("("+user.Role+")"))
			return nil
		}

		me, err := api.Me(ctxOf(cmd))
		if err != nil {
			if client.IsStatus(err, http.StatusUnauthorized) {
				fmt.Fprintln(out, orange.Render("Your session has expired. Run 'codecourse login' again."))
			}
			return errors.New(describeErr(err))
		}
		fmt.Fprintf(out, "%s %s %s\n", cyan.Render(me.Username), gray.Render("<"+me.Email+">"), gray.Render("("+me.Role+")"))
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		user, err := api.Signup(ctxOf(cmd), signupReq)
		if err != nil {
			return errors.New(describeErr(err))
		}
		fmt.Fprintln(out, green.Render("✓ Account created for "+user.Username))
		fmt.Fprintln(out, gray.Render("Run 'codecourse login -u "+user.Username+"' to sign in."))
		return nil
	},
}

func prompt(in *bufio.Reader, out io.Writer, label string) string {
	fmt.Fprint(out, label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")

	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "ask the server instead of reading the local token")

	signupCmd.Flags().StringVarP(&signupReq.Username, "username", "u", "", "username")
	signupCmd.Flags().StringVar(&signupReq.Email, "email", "", "email address")
	signupCmd.Flags().StringVarP(&signupReq.Password, "password", "p", "", "password")
	signupCmd.Flags().StringVar(&signupReq.Role, "role", "", "student (default) or admin")
	_ = signupCmd.MarkFlagRequired("username")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, signupCmd)
}
