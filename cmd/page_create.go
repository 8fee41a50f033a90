package cmd

import (
	"github.com/cipherboard/cipherboard/internal/ui"
	"github.com/cipherboard/cipherboard/internal/utils"
	"github.com/cipherboard/cipherboard/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	pageTitle       string
	pageDescription string
	pageInvitees    []string
)

func init() {
	pageCreateCmd.Flags().StringVarP(&pageTitle, "title", "t", "", "page title")
	pageCreateCmd.Flags().StringVar(&pageDescription, "description", "", "page description")
	pageCreateCmd.Flags().StringSliceVarP(&pageInvitees, "invite", "i", nil, "usernames to invite, comma separated")
	if err := pageCreateCmd.MarkFlagRequired("title"); err != nil {
		Logger.Errorf("Failed to mark --title flag as required: %v", err)
	}
	PageCmd.AddCommand(pageCreateCmd)
}

func resetPageCreateState() {
	pageTitle = ""
	pageDescription = ""
	pageInvitees = nil
}

var pageCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a page",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		spinner, cleanup := startSpinner("Creating page...")
		defer cleanup()

		result, err := workflows.CreatePage(commandContext(cmd), client, workflows.CreatePageOptions{
			Title:       pageTitle,
			Description: pageDescription,
			Invitees:    utils.SplitUsernames(pageInvitees),
		})
		if err != nil {
			spinner.FinalMSG = failure("Could not create page", err)
			return nil
		}

		msg := ui.Success.Sprint("✓") + " Created " + ui.Highlight.Sprint(pageTitle) + " " + ui.Muted.Sprint(result.PageID)
		if len(result.Invited) > 0 {
			msg += "\n" + ui.Info.Sprint("→") + " Invited:\n" + ui.Bullets(result.Invited)
		}
		spinner.FinalMSG = msg
		return nil
	},
}
