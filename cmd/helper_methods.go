package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/ui"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// failure renders err as a one or two line message for the user.
func failure(action string, err error) string {
	msg := ui.Error.Sprint("✗") + " " + action + ": " + describeError(err)
	if hint := errorHint(err); hint != "" {
		msg += "\n" + ui.Info.Sprint("→") + " " + hint
	}
	return msg
}

func describeError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrNoSession):
		return "you are not logged in or your session has expired"
	case errors.Is(err, kerrors.ErrKeyChainBroken):
		return "your keys no longer open this content, so the session was discarded"
	case errors.Is(err, kerrors.ErrAuthFailed):
		return "wrong username or password"
	case errors.Is(err, kerrors.ErrUnwrapFailure):
		return "this invitation was not encrypted for your key"
	case errors.Is(err, kerrors.ErrUserExists):
		return "that username is taken"
	case errors.Is(err, kerrors.ErrNotMember), errors.Is(err, kerrors.ErrPageNotFound):
		return "page not found or you are not a member"
	case errors.Is(err, kerrors.ErrAlreadyMember):
		return "already a member of this page"
	case errors.Is(err, kerrors.ErrSelfInvite):
		return "you cannot invite yourself"
	case errors.Is(err, kerrors.ErrInviteNotFound):
		return "invitation not found"
	case errors.Is(err, kerrors.ErrNotAuthor):
		return "only the author can delete a post"
	}
	return err.Error()
}

func errorHint(err error) string {
	if kerrors.RequiresReauth(err) || errors.Is(err, kerrors.ErrAuthFailed) {
		return "Run " + ui.Code.Sprint("cipherboard account login") + " to start a new session"
	}
	return ""
}
