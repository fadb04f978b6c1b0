package main

import (
	"fmt"
	"strings"

	"github.com/cmdshop/cmdshop/internal/client"
	"github.com/cmdshop/cmdshop/internal/cmds"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	var tag, query string
	c := &cobra.Command{
		Use:   "list",
		Short: "List cmds ordered by title",
		Long: `List every saved cmd, optionally narrowed by tag and a text query.

Examples:
  cmdctl list
  cmdctl list --tag docker --query logs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				list []cmds.Cmd
				err  error
			)
			if tag != "" || query != "" {
				list, err = a.client().Search(cmd.Context(), tag, query)
			} else {
				l := client.NewLoader(a.client())
				l.Load(cmd.Context())
				st := l.Wait(cmd.Context())
				list, err = st.Cmds, l.Err()
			}
			if err != nil {
				return fmt.Errorf("listing cmds: %w", err)
			}
			if list == nil {
				list = []cmds.Cmd{}
			}
			if a.human {
				printCmdList(cmd.OutOrStdout(), list)
				return nil
			}
			return outputJSON(cmd.OutOrStdout(), list)
		},
	}
	c.Flags().StringVar(&tag, "tag", "", "Only cmds carrying this exact tag")
	c.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive text to match in title, content or tags")
	return c
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one cmd",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("getting cmd %s: %w", args[0], err)
			}
			if a.human {
				printCmdDetail(cmd.OutOrStdout(), c)
				return nil
			}
			return outputJSON(cmd.OutOrStdout(), c)
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	var (
		title, content string
		tags           []string
	)
	c := &cobra.Command{
		Use:   "add",
		Short: "Save a new cmd",
		Long: `Save a new cmd.

Example:
  cmdctl add --title "ls -la" --content "list all files" --tag unix --tag files`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := a.client().Create(cmd.Context(), cmds.NewCmd{Title: title, Content: content, Tags: tags})
			if err != nil {
				return fmt.Errorf("adding cmd: %w", err)
			}
			if a.human {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", created.ID)
				return nil
			}
			return outputJSON(cmd.OutOrStdout(), created)
		},
	}
	c.Flags().StringVar(&title, "title", "", "Title (required)")
	c.Flags().StringVar(&content, "content", "", "Command text (required)")
	c.Flags().StringArrayVar(&tags, "tag", nil, "Tag; repeat for several")
	_ = c.MarkFlagRequired("title")
	_ = c.MarkFlagRequired("content")
	return c
}

func (a *app) editCmd() *cobra.Command {
	var title, content, tags string
	c := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing cmd",
		Long: `Change the title, content or tags of a cmd. Only the flags given are sent.

Example:
  cmdctl edit 3f1c... --tags unix,files`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u client.Update
			if cmd.Flags().Changed("title") {
				u.Title = &title
			}
			if cmd.Flags().Changed("content") {
				u.Content = &content
			}
			if cmd.Flags().Changed("tags") {
				list := []string{}
				for _, t := range strings.Split(tags, ",") {
					if t = strings.TrimSpace(t); t != "" {
						list = append(list, t)
					}
				}
				u.Tags = &list
			}
			updated, err := a.client().Update(cmd.Context(), args[0], u)
			if err != nil {
				return fmt.Errorf("editing cmd %s: %w", args[0], err)
			}
			if a.human {
				printCmdDetail(cmd.OutOrStdout(), updated)
				return nil
			}
			return outputJSON(cmd.OutOrStdout(), updated)
		},
	}
	c.Flags().StringVar(&title, "title", "", "New title")
	c.Flags().StringVar(&content, "content", "", "New command text")
	c.Flags().StringVar(&tags, "tags", "", "Comma-separated replacement tag list")
	return c
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a cmd",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := a.client().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("deleting cmd %s: %w", args[0], err)
			}
			if a.human {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			}
			return outputJSON(cmd.OutOrStdout(), map[string]string{"id": args[0], "message": msg})
		},
	}
}

func (a *app) tagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the distinct tags in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := a.client().Tags(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing tags: %w", err)
			}
			if a.human {
				for _, t := range tags {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			}
			return outputJSON(cmd.OutOrStdout(), tags)
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Upload a JSON snapshot of every cmd to object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.client().Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("exporting cmds: %w", err)
			}
			if a.human {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cmds to %s\n%s\n", snap.Count, snap.Key, snap.URL)
				return nil
			}
			return outputJSON(cmd.OutOrStdout(), snap)
		},
	}
}
