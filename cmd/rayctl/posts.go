package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rx0a/rayspace/internal/apiclient"
	"github.com/rx0a/rayspace/internal/postservice"
)

func (c *cli) postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List, inspect and edit blog posts",
	}

	cmd.AddCommand(
		c.postsListCmd(),
		c.postsShowCmd(),
		c.postsCreateCmd(),
		c.postsUpdateCmd(),
		c.postsDeleteCmd(),
	)

	return cmd
}

func (c *cli) postsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			posts, err := c.client.Posts(ctx)
			if err != nil {
				return err
			}

			if ok, err := c.printJSON(cmd.OutOrStdout(), posts); ok {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tVIEWS\tTITLE")
			for _, p := range posts {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", p.ID, dateString(p.PublishedDate), p.Views, p.Title)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) postsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a post with its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := c.ctx(cmd)
			defer cancel()

			p, err := c.client.Post(ctx, id)
			if err != nil {
				return err
			}

			if ok, err := c.printJSON(cmd.OutOrStdout(), p); ok {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "#%d %s\n", p.ID, p.Title)
			fmt.Fprintf(w, "published: %s  views: %d  version: %d\n\n", dateString(p.PublishedDate), p.Views, p.Version)
			fmt.Fprintln(w, p.Content)
			return nil
		},
	}
}

func (c *cli) postsCreateCmd() *cobra.Command {
	var (
		title, date, contentFile string
		tools                    bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post from an HTML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(contentFile)
			if err != nil {
				return fmt.Errorf("read content: %w", err)
			}

			req := &postservice.CreatePostRequest{Title: title, Content: string(content)}
			if date != "" {
				d, err := postservice.ParseDate(date)
				if err != nil {
					return err
				}
				req.PublishedDate = &d
			}

			ctx, cancel := c.ctx(cmd)
			defer cancel()

			p, err := c.client.CreatePost(ctx, writeScope(tools), req)
			if err != nil {
				return err
			}

			if ok, err := c.printJSON(cmd.OutOrStdout(), p); ok {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created post %d: %s\n", p.ID, p.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&date, "date", "", "publish date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "file holding the post HTML")
	cmd.Flags().BoolVar(&tools, "tools", false, "use the tools routes instead of admin")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content-file")

	return cmd
}

func (c *cli) postsUpdateCmd() *cobra.Command {
	var (
		title, date, contentFile string
		version                  int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the title, date or content of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			req := &postservice.UpdatePostRequest{}
			flags := cmd.Flags()
			if flags.Changed("title") {
				req.Title = &title
			}
			if flags.Changed("content-file") {
				content, err := os.ReadFile(contentFile)
				if err != nil {
					return fmt.Errorf("read content: %w", err)
				}
				s := string(content)
				req.Content = &s
			}
			if flags.Changed("date") {
				d, err := postservice.ParseDate(date)
				if err != nil {
					return err
				}
				req.PublishedDate = &d
			}
			if flags.Changed("version") {
				req.Version = &version
			}

			if req.Title == nil && req.Content == nil && req.PublishedDate == nil {
				return fmt.Errorf("nothing to update: pass --title, --date or --content-file")
			}

			ctx, cancel := c.ctx(cmd)
			defer cancel()

			p, err := c.client.UpdatePost(ctx, apiclient.ScopeAdmin, id, req)
			if err != nil {
				return err
			}

			if ok, err := c.printJSON(cmd.OutOrStdout(), p); ok {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated post %d (version %d)\n", p.ID, p.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&date, "date", "", "new publish date as YYYY-MM-DD")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "file holding the new post HTML")
	cmd.Flags().IntVar(&version, "version", 0, "expected version, rejected on conflict")

	return cmd
}

func (c *cli) postsDeleteCmd() *cobra.Command {
	var tools bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := c.ctx(cmd)
			defer cancel()

			if err := c.client.DeletePost(ctx, writeScope(tools), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted post %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&tools, "tools", false, "use the tools routes instead of admin")

	return cmd
}

func writeScope(tools bool) apiclient.Scope {
	if tools {
		return apiclient.ScopeTools
	}
	return apiclient.ScopeAdmin
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid post id %q", s)
	}
	return id, nil
}

func dateString(d *postservice.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
