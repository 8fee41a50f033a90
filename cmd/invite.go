package cmd

import (
	"fmt"
	"strings"

	"github.com/cipherboard/cipherboard/internal/ui"
	"github.com/cipherboard/cipherboard/internal/utils"
	"github.com/cipherboard/cipherboard/internal/workflows"
	"github.com/spf13/cobra"
)

// InviteCmd groups the invitation commands.
var InviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Share pages with other users",
	Long: `Invitations carry a page's key encrypted to the invitee's public key.
Accepting one re-encrypts the key under your own password-derived key,
after which the page shows up in 'cipherboard page list'.

Examples:
  # Invite bob and carol to a page you belong to
  cipherboard invite send 3f2a9c1e-... --user bob,carol

  # See and accept your invitations
  cipherboard invite list
  cipherboard invite accept 9b1d...`,
}

var inviteUsers []string

func init() {
	addLoggingFlags(InviteCmd)

	inviteSendCmd.Flags().StringSliceVarP(&inviteUsers, "user", "u", nil, "usernames to invite, comma separated")
	if err := inviteSendCmd.MarkFlagRequired("user"); err != nil {
		Logger.Errorf("Failed to mark --user flag as required: %v", err)
	}

	InviteCmd.AddCommand(inviteSendCmd)
	InviteCmd.AddCommand(inviteListCmd)
	InviteCmd.AddCommand(inviteAcceptCmd)
	InviteCmd.AddCommand(inviteDeclineCmd)
}

func resetInviteState() {
	inviteUsers = nil
}

var inviteSendCmd = &cobra.Command{
	Use:   "send <page-id>",
	Short: "Invite users to a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		spinner, cleanup := startSpinner("Sending invitations...")
		defer cleanup()

		result, err := workflows.InviteUsers(commandContext(cmd), client, workflows.InviteUsersOptions{
			PageID:   args[0],
			Invitees: utils.SplitUsernames(inviteUsers),
		})
		if err != nil {
			spinner.FinalMSG = failure("Could not send invitations", err)
			return nil
		}

		var b strings.Builder
		for _, outcome := range result.Outcomes {
			if outcome.Err != nil {
				fmt.Fprintf(&b, "%s %s: %s\n", ui.Error.Sprint("✗"), ui.Highlight.Sprint(outcome.Username), describeError(outcome.Err))
				continue
			}
			fmt.Fprintf(&b, "%s Invited %s\n", ui.Success.Sprint("✓"), ui.Highlight.Sprint(outcome.Username))
		}
		spinner.FinalMSG = b.String()
		return nil
	},
}

var inviteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invitations addressed to you",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		spinner, cleanup := startSpinner("Opening invitations...")
		defer cleanup()

		result, err := workflows.ListInvitations(commandContext(cmd), client)
		if err != nil {
			spinner.FinalMSG = failure("Could not list invitations", err)
			return nil
		}
		if len(result.Invitations) == 0 {
			spinner.FinalMSG = ui.Muted.Sprint("no pending invitations")
			return nil
		}

		var b strings.Builder
		b.WriteString(ui.Info.Sprint("Invitations") + ":\n")
		for _, inv := range result.Invitations {
			fmt.Fprintf(&b, "  %s  %s  from %s\n",
				inv.InviteID,
				ui.Content(inv.Title.Display(), inv.Title.OK()),
				ui.Highlight.Sprint(inv.InvitedBy))
		}
		spinner.FinalMSG = b.String()
		return nil
	},
}

var inviteAcceptCmd = &cobra.Command{
	Use:   "accept <invite-id>",
	Short: "Join the page an invitation offers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		spinner, cleanup := startSpinner("Accepting invitation...")
		defer cleanup()

		result, err := workflows.AcceptInvitation(commandContext(cmd), client, workflows.AcceptInvitationOptions{InviteID: args[0]})
		if err != nil {
			spinner.FinalMSG = failure("Could not accept invitation", err)
			return nil
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Joined " + ui.Content(result.Title.Display(), result.Title.OK()) +
			" " + ui.Muted.Sprint(result.PageID)
		return nil
	},
}

var inviteDeclineCmd = &cobra.Command{
	Use:   "decline <invite-id>",
	Short: "Discard an invitation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		err = workflows.DeclineInvitation(commandContext(cmd), client, workflows.DeclineInvitationOptions{InviteID: args[0]})
		if err != nil {
			fmt.Println(failure("Could not decline invitation", err))
			return nil
		}
		fmt.Println(ui.Success.Sprint("✓") + " Declined invitation " + ui.Muted.Sprint(utils.ShortID(args[0])))
		return nil
	},
}
