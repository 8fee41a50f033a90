package cmd

import (
	"fmt"

	"github.com/cipherboard/cipherboard/internal/audit"
	"github.com/cipherboard/cipherboard/internal/configs"
	"github.com/cipherboard/cipherboard/internal/ui"
	"github.com/spf13/cobra"
)

var (
	logUser      string
	logOperation string
	logFailed    bool
	logLimit     int
)

// LogCmd shows the local audit trail.
var LogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the audit log of operations run on this machine",
	Long: `Shows the audit log. Entries name users, pages and posts by ID and
never contain content or keys.

Examples:
  cipherboard log
  cipherboard log --user alice --op accept_invitation
  cipherboard log --failed -n 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := configs.LoadClientConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %w", err)
		}
		audit.SetPath(config.AuditLogPath())

		entries, err := audit.ReadEntries()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read audit log: %w", err)
		}
		entries = audit.Filter(entries, func(e audit.Entry) bool {
			if logUser != "" && e.User != logUser {
				return false
			}
			if logOperation != "" && e.Operation != logOperation {
				return false
			}
			return !logFailed || e.Outcome == audit.OutcomeFailed
		})
		if logLimit > 0 && len(entries) > logLimit {
			entries = entries[len(entries)-logLimit:]
		}

		if len(entries) == 0 {
			fmt.Println(ui.Muted.Sprint("no audit entries"))
			return nil
		}
		for _, e := range entries {
			fmt.Println(formatEntry(e))
		}
		return nil
	},
}

func init() {
	addLoggingFlags(LogCmd)
	LogCmd.Flags().StringVar(&logUser, "user", "", "only show entries for this user")
	LogCmd.Flags().StringVar(&logOperation, "op", "", "only show this operation")
	LogCmd.Flags().BoolVar(&logFailed, "failed", false, "only show failures")
	LogCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "show only the last n entries")
}

func resetLogState() {
	logUser = ""
	logOperation = ""
	logFailed = false
	logLimit = 0
}

func formatEntry(e audit.Entry) string {
	outcome := ui.Success.Sprint(e.Outcome)
	if e.Outcome == audit.OutcomeFailed {
		outcome = ui.Error.Sprint(e.Outcome)
		if e.ErrorKind != "" {
			outcome += " " + ui.Muted.Sprint(e.ErrorKind)
		}
	}

	line := fmt.Sprintf("%s  %-10s %-18s %s", e.Timestamp, e.User, e.Operation, outcome)
	if e.PageID != "" {
		line += "  page=" + e.PageID
	}
	if e.PostID != "" {
		line += "  post=" + e.PostID
	}
	if e.InviteID != "" {
		line += "  invite=" + e.InviteID
	}
	if e.TargetUser != "" {
		line += "  user=" + e.TargetUser
	}
	if e.Count > 0 {
		line += fmt.Sprintf("  count=%d", e.Count)
	}
	return line
}
