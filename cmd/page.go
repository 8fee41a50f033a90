package cmd

import (
	"github.com/spf13/cobra"
)

// PageCmd groups the page and post commands.
var PageCmd = &cobra.Command{
	Use:   "page",
	Short: "Create, read and post to encrypted pages",
	Long: `Pages are small shared boards. Each page has its own key; the title,
description and every post are encrypted under it before they leave this
machine, and only members can open it.

Examples:
  # Create a page and invite two people to it
  cipherboard page create --title "Book club" --invite bob,carol

  # List your pages
  cipherboard page list

  # Read a page and post to it
  cipherboard page view 3f2a9c1e-...
  cipherboard page post 3f2a9c1e-... "Dune next?"`,
}

func init() {
	addLoggingFlags(PageCmd)
}

func resetPageState() {
	resetPageCreateState()
}
