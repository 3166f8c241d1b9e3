package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) guestbookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guestbook",
		Short: "Read and sign the guestbook",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List guestbook signatures, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := c.ctx(cmd)
				defer cancel()

				comments, err := c.client.Comments(ctx)
				if err != nil {
					return err
				}

				if ok, err := c.printJSON(cmd.OutOrStdout(), comments); ok {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "WHEN\tNAME\tCOMMENT")
				for _, cm := range comments {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", cm.Timestamp.Format("2006-01-02 15:04"), cm.Name, cm.Comment)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "sign <text>",
			Short: "Sign the guestbook as the session user",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := c.ctx(cmd)
				defer cancel()

				cm, err := c.client.SignGuestbook(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}

				if ok, err := c.printJSON(cmd.OutOrStdout(), cm); ok {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "signed as %s\n", cm.Name)
				return nil
			},
		},
	)

	return cmd
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who the session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			st, err := c.client.UserStatus(ctx)
			if err != nil {
				return err
			}

			if ok, err := c.printJSON(cmd.OutOrStdout(), st); ok {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case !st.Authenticated:
				fmt.Fprintln(w, "not signed in")
			case st.IsAdmin:
				fmt.Fprintf(w, "signed in as %s (admin)\n", st.UserName)
			default:
				fmt.Fprintf(w, "signed in as %s\n", st.UserName)
			}
			return nil
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show total views, latest signee and GitHub stars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s, err := c.client.Stats(ctx)
			if err != nil {
				return err
			}

			if ok, err := c.printJSON(cmd.OutOrStdout(), s); ok {
				return err
			}

			stars := "unavailable"
			if s.Stars != nil {
				stars = fmt.Sprint(*s.Stars)
			}

			signee := s.RecentSignee
			if signee == "" {
				signee = "-"
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "total views:   %d\n", s.TotalViews)
			fmt.Fprintf(w, "recent signee: %s\n", signee)
			fmt.Fprintf(w, "github stars:  %s\n", stars)
			return nil
		},
	}
}

func (c *cli) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Print the URL that starts a GitHub sign-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.client.StartOAuthURL())
			fmt.Fprintln(cmd.OutOrStdout(), "copy the AdminUser cookie into RAYCTL_SESSION once signed in")
			return nil
		},
	}
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the session cookie on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			if err := c.client.Logout(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}
