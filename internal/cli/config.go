package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change client settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", gray.Render("config file:"), cfgPath)
		fmt.Fprintf(out, "%s %s\n", gray.Render("api url:    "), api.BaseURL())
		status := "logged out"
		if user, ok := sess.User(); ok {
			status = user.Username + " (" + user.Role + ")"
		}
		fmt.Fprintf(out, "%s %s\n", gray.Render("session:    "), status)
		return nil
	},
}

var configAPIURLCmd = &cobra.Command{
	Use:   "api-url <url>",
	Short: "Set the API base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := url.Parse(args[0])
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid URL %q", args[0])
		}
		v.Set(keyAPIURL, args[0])
		if err := v.WriteConfigAs(cfgPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), green.Render("✓ API URL set to "+args[0]))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configAPIURLCmd)
	rootCmd.AddCommand(configCmd)
}
