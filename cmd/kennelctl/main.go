// Package main provides the kennelctl entrypoint: offline tools for the
// content tree and path codec plus a thin client for a running server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/KennelOS/backend/internal/cli"
)

var (
	version  = "1.0.0"
	server   string
	treeFile string
	asJSON   bool
)

func main() {
	serverDefault := cli.DefaultServer
	if env, ok := os.LookupEnv("KENNEL_SERVER"); ok && env != "" {
		serverDefault = env
	}

	rootCmd := &cobra.Command{
		Use:     "kennelctl",
		Short:   "Inspect KennelOS content and drive desktop sessions",
		Version: version,
		Long: `kennelctl works with the KennelOS content tree and window desktop.

Offline commands (tree, resolve, encode, decode) read the built-in tree or
the file given with --tree. Session commands (open, sessions) talk to the
server named by --server or KENNEL_SERVER.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&server, "server", serverDefault, "KennelOS server URL")
	rootCmd.PersistentFlags().StringVar(&treeFile, "tree", "", "Content tree YAML file (default: built-in tree)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "content", Title: "Content:"},
		&cobra.Group{ID: "desktop", Title: "Desktop:"},
	)

	for _, cmd := range []*cobra.Command{treeCmd(), resolveCmd(), encodeCmd(), decodeCmd()} {
		cmd.GroupID = "content"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{openCmd(), sessionsCmd()} {
		cmd.GroupID = "desktop"
		rootCmd.AddCommand(cmd)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
