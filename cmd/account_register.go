package cmd

import (
	"github.com/cipherboard/cipherboard/internal/ui"
	"github.com/cipherboard/cipherboard/internal/utils"
	"github.com/cipherboard/cipherboard/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	registerUsername string
	registerEmail    string
)

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "user", "u", "", "username for the new account (defaults to your OS username)")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "email address, optional")
	AccountCmd.AddCommand(registerCmd)
}

func resetRegisterState() {
	registerUsername = ""
	registerEmail = ""
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username := registerUsername
		if username == "" {
			username = utils.DefaultUsername()
			Logger.Debugf("No --user given, using %q", username)
		}
		if registerEmail != "" && !utils.IsValidEmail(registerEmail) {
			return Logger.ErrorfAndReturn("invalid email address: %s", registerEmail)
		}

		password, err := utils.ReadNewPassword("Choose a password: ", "Repeat password: ")
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read password: %w", err)
		}
		defer utils.Wipe(password)

		client, closeClient, err := openClient()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open cipherboard: %w", err)
		}
		defer closeClient()

		spinner, cleanup := startSpinner("Generating keys and registering...")
		defer cleanup()

		result, err := workflows.Register(commandContext(cmd), client, workflows.RegisterOptions{
			Username: username,
			Email:    registerEmail,
			Password: password,
		})
		if err != nil {
			spinner.FinalMSG = failure("Registration failed", err)
			return nil
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Registered " + ui.Highlight.Sprint(result.Username) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("cipherboard account login --user "+result.Username) + " to start a session"
		return nil
	},
}
