package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cmdshop/cmdshop/internal/cmds"
)

const titleMaxLen = 40

// outputJSON writes a value as formatted JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCmdList(w io.Writer, list []cmds.Cmd) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No cmds.")
		return
	}
	for _, c := range list {
		line := fmt.Sprintf("%-36s  %-*s", c.ID, titleMaxLen, truncate(c.Title, titleMaxLen))
		if len(c.Tags) > 0 {
			line += "  [" + strings.Join(c.Tags, ", ") + "]"
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func printCmdDetail(w io.Writer, c *cmds.Cmd) {
	fmt.Fprintf(w, "ID:      %s\n", c.ID)
	fmt.Fprintf(w, "Title:   %s\n", c.Title)
	if len(c.Tags) > 0 {
		fmt.Fprintf(w, "Tags:    %s\n", strings.Join(c.Tags, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, c.Content)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
