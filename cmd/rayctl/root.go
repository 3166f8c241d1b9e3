package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rx0a/rayspace/internal/apiclient"
)

// cli holds what every subcommand shares.
type cli struct {
	v      *viper.Viper
	client *apiclient.Client
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.SetEnvPrefix("RAYCTL")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "rayctl",
		Short:         "Manage Ray Space posts and guestbook",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.client != nil {
				return nil
			}

			url := c.v.GetString("url")
			if url == "" {
				return fmt.Errorf("--url or RAYCTL_URL must be set")
			}

			c.client = apiclient.New(url,
				apiclient.WithSession(c.v.GetString("session")),
				apiclient.WithCacheTTL(apiclient.DefaultCacheTTL),
			)
			return nil
		},
	}

	root.PersistentFlags().String("url", "http://localhost:8080", "base URL of the site (RAYCTL_URL)")
	root.PersistentFlags().String("session", "", "value of the AdminUser session cookie (RAYCTL_SESSION)")
	root.PersistentFlags().Duration("timeout", 15*time.Second, "request timeout")
	root.PersistentFlags().Bool("json", false, "print raw JSON")

	for _, name := range []string{"url", "session", "timeout", "json"} {
		// flag names are fixed above, binding cannot fail
		_ = c.v.BindPFlag(name, root.PersistentFlags().Lookup(name))
	}

	root.AddCommand(
		c.postsCmd(),
		c.guestbookCmd(),
		c.statusCmd(),
		c.statsCmd(),
		c.loginCmd(),
		c.logoutCmd(),
	)

	return root
}

func (c *cli) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), c.v.GetDuration("timeout"))
}

// printJSON writes v indented when --json is set and reports whether it did.
func (c *cli) printJSON(w io.Writer, v any) (bool, error) {
	if !c.v.GetBool("json") {
		return false, nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}
