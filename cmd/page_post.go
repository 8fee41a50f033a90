package cmd

import (
	"strings"

	"github.com/cipherboard/cipherboard/internal/ui"
	"github.com/cipherboard/cipherboard/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	PageCmd.AddCommand(pagePostCmd)
	PageCmd.AddCommand(pageDeletePostCmd)
}

var pagePostCmd = &cobra.Command{
	Use:   "post <page-id> <message...>",
	Short: "Add an encrypted post to a page",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		spinner, cleanup := startSpinner("Posting...")
		defer cleanup()

		result, err := workflows.AddPost(commandContext(cmd), client, workflows.AddPostOptions{
			PageID:  args[0],
			Message: strings.Join(args[1:], " "),
		})
		if err != nil {
			spinner.FinalMSG = failure("Could not post", err)
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Posted " + ui.Muted.Sprint(result.PostID)
		return nil
	},
}

var pageDeletePostCmd = &cobra.Command{
	Use:   "delete-post <page-id> <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		spinner, cleanup := startSpinner("Deleting post...")
		defer cleanup()

		err = workflows.DeletePost(commandContext(cmd), client, workflows.DeletePostOptions{PageID: args[0], PostID: args[1]})
		if err != nil {
			spinner.FinalMSG = failure("Could not delete post", err)
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Deleted post " + ui.Muted.Sprint(args[1])
		return nil
	},
}
