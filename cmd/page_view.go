package cmd

import (
	"fmt"
	"strings"

	"github.com/cipherboard/cipherboard/internal/ui"
	"github.com/cipherboard/cipherboard/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	PageCmd.AddCommand(pageListCmd)
	PageCmd.AddCommand(pageViewCmd)
	PageCmd.AddCommand(pageMembersCmd)
}

var pageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the pages you belong to",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		spinner, cleanup := startSpinner("Decrypting pages...")
		defer cleanup()

		result, err := workflows.ListPages(commandContext(cmd), client)
		if err != nil {
			spinner.FinalMSG = failure("Could not list pages", err)
			return nil
		}
		if len(result.Pages) == 0 {
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " You are not a member of any page yet"
			return nil
		}

		var b strings.Builder
		b.WriteString(ui.Info.Sprint("Pages") + ":\n")
		for _, page := range result.Pages {
			fmt.Fprintf(&b, "  %s  %s  by %s\n",
				page.PageID,
				ui.Content(page.Title.Display(), page.Title.OK()),
				ui.Highlight.Sprint(page.Owner))
		}
		spinner.FinalMSG = b.String()
		return nil
	},
}

var pageViewCmd = &cobra.Command{
	Use:   "view <page-id>",
	Short: "Decrypt and show a page with its posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		spinner, cleanup := startSpinner("Decrypting page...")
		defer cleanup()

		page, err := workflows.ViewPage(commandContext(cmd), client, workflows.ViewPageOptions{PageID: args[0]})
		if err != nil {
			spinner.FinalMSG = failure("Could not open page", err)
			return nil
		}
		spinner.FinalMSG = renderPage(page)
		return nil
	},
}

func renderPage(page *workflows.ViewPageResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", ui.Content(page.Title.Display(), page.Title.OK()), ui.Muted.Sprint(page.PageID))
	if page.Description.Plaintext != "" || !page.Description.OK() {
		fmt.Fprintf(&b, "%s\n", ui.Content(page.Description.Display(), page.Description.OK()))
	}
	b.WriteString("\n")

	if len(page.Posts) == 0 {
		b.WriteString(ui.Muted.Sprint("no posts") + "\n")
		return b.String()
	}
	for _, post := range page.Posts {
		fmt.Fprintf(&b, "%s %s %s\n  %s\n",
			ui.Highlight.Sprint(post.Author),
			post.CreatedAt.Local().Format("2006-01-02 15:04"),
			ui.Muted.Sprint(post.PostID),
			ui.Content(post.Message.Display(), post.Message.OK()))
	}
	return b.String()
}

var pageMembersCmd = &cobra.Command{
	Use:   "members <page-id>",
	Short: "List the members of a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		result, err := workflows.Members(commandContext(cmd), client, workflows.MembersOptions{PageID: args[0]})
		if err != nil {
			fmt.Println(failure("Could not list members", err))
			return nil
		}
		fmt.Print(ui.Info.Sprint("Members") + ":\n" + ui.Bullets(result.Members))
		return nil
	},
}
