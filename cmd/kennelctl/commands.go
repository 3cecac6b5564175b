package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/KennelOS/backend/internal/cli"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
	"github.com/GriffinCanCode/KennelOS/backend/internal/shared/paths"
)

func loadTree() (*content.Tree, error) {
	if treeFile == "" {
		return content.Default(), nil
	}
	return content.LoadFile(treeFile)
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// tree
func treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the content tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree()
			if err != nil {
				return err
			}
			if asJSON {
				type row struct {
					Path  string       `json:"path"`
					Depth int          `json:"depth"`
					Node  content.Node `json:"node"`
				}
				var rows []row
				tree.Walk(func(path string, depth int, n *content.Node) bool {
					rows = append(rows, row{Path: path, Depth: depth, Node: *n})
					return true
				})
				return printJSON(cmd.OutOrStdout(), rows)
			}
			cli.PrintTree(color.Output, tree)
			return nil
		},
	}
}

// resolve <path>
func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve an internal path or fragment to its node",
		Long: `Resolve accepts either form: "ourDogs.children.championRex" or
"ourDogs#championRex".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := loadTree()
			if err != nil {
				return err
			}
			path := paths.ToInternal(strings.TrimPrefix(args[0], "#"))
			n, err := tree.Resolve(path)
			if err != nil {
				return err
			}
			if asJSON {
				entries, _ := tree.List(path)
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"path":     path,
					"fragment": paths.ToExternal(path),
					"node":     n,
					"entries":  entries,
				})
			}
			cli.PrintNode(color.Output, tree, path, n)
			return nil
		},
	}
}

// encode <path>
func encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <path>",
		Short: "Convert an internal path to its fragment form",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), paths.ToExternal(args[0]))
		},
	}
}

// decode <fragment>
func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <fragment>",
		Short: "Convert a fragment to its internal path",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), paths.ToInternal(strings.TrimPrefix(args[0], "#")))
		},
	}
}

// open <path>
func openCmd() *cobra.Command {
	var (
		sessionID string
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Open a path in a remote desktop session",
		Long: `Open creates a session on the server (or reuses --session) and opens
the path in it, then prints the resulting taskbar.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := cli.NewClient(server)
			if sessionID == "" {
				snap, err := client.CreateSession(session.Options{})
				if err != nil {
					return err
				}
				sessionID = snap.SessionID
			}
			snap, err := client.Open(sessionID, paths.ToInternal(strings.TrimPrefix(args[0], "#")), force)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), snap)
			}
			cli.PrintSnapshot(color.Output, snap)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "Existing session id")
	cmd.Flags().BoolVar(&force, "new", false, "Always create a new window")
	return cmd
}

// sessions
func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List live desktop sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := cli.NewClient(server).Sessions()
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), infos)
			}
			cli.PrintSessions(color.Output, infos)
			return nil
		},
	}
}
