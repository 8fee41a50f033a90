package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/cipherboard/cipherboard/cmd"
	figure "github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cipherboard",
	Short: "cipherboard - end-to-end encrypted pages shared by invitation.",
	Long: `cipherboard keeps small shared pages whose titles, descriptions and posts
are encrypted on your machine. The store only ever sees ciphertext, wrapped
keys and a hash of a password verifier.

Usage:
  cipherboard <command> [flags]

Available Commands:
  account    Register, log in and log out
  page       Create, read and post to pages
  invite     Share pages with other users
  config     Show and change settings
  log        Show the audit log
  metrics    Print operation counters

Run 'cipherboard help <command>' for more details on a specific command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		figure.NewColorFigure("cipherboard", "small", "cyan", true).Print()
		fmt.Println()
		fmt.Println("Run 'cipherboard --help' to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.Commands()...)
}

func main() {
	// Wipe locked key buffers on Ctrl-C as well as on normal exit.
	memguard.CatchInterrupt()
	defer memguard.Purge()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		memguard.Purge()
		os.Exit(1)
	}
}
