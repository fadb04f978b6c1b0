// Package main provides the cmdctl CLI entry point.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/cmdshop/cmdshop/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitCode(err))
	}
}

// app carries the settings shared by every subcommand.
type app struct {
	v     *viper.Viper
	human bool
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "cmdctl",
		Short: "Manage saved shell command snippets",
		Long: `cmdctl talks to a cmdshop server to list, add, edit and remove saved
command snippets.

Settings come from flags or the environment:
  CMDSHOP_SERVER  base URL of the server (default ` + client.DefaultServer + `)
  CMDSHOP_TOKEN   bearer token sent with every request
  JWT_SECRET      signing secret used by 'cmdctl token'

All commands output JSON by default; pass --human for readable output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	pf := root.PersistentFlags()
	pf.String("server", client.DefaultServer, "cmdshop server base URL")
	pf.String("token", "", "Bearer token")
	pf.BoolVar(&a.human, "human", false, "Use human-readable output instead of JSON")

	_ = a.v.BindPFlag("server", pf.Lookup("server"))
	_ = a.v.BindPFlag("token", pf.Lookup("token"))
	_ = a.v.BindEnv("server", "CMDSHOP_SERVER")
	_ = a.v.BindEnv("token", "CMDSHOP_TOKEN")
	_ = a.v.BindEnv("jwt_secret", "JWT_SECRET")

	root.AddCommand(
		a.listCmd(),
		a.getCmd(),
		a.addCmd(),
		a.editCmd(),
		a.rmCmd(),
		a.tagsCmd(),
		a.exportCmd(),
		a.tokenCmd(),
	)
	return root
}

func (a *app) client() *client.Client {
	var opts []client.ClientOption
	if tok := a.v.GetString("token"); tok != "" {
		opts = append(opts, client.WithToken(tok))
	}
	return client.New(a.v.GetString("server"), opts...)
}

func exitCode(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusNotFound:
			return ExitNotFound
		case apiErr.Status == http.StatusUnauthorized:
			return ExitAuthError
		case apiErr.Status >= 400 && apiErr.Status < 500:
			return ExitDataError
		}
	}
	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}
	return ExitError
}
