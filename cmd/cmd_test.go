package cmd

import (
	"strings"
	"testing"
)

func mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	output, err := runCommand(t, stdin, args...)
	if err != nil {
		t.Fatalf("cipherboard %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	return output
}

func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("Expected output to contain %q, got:\n%s", want, output)
	}
}

func TestPageSharingEndToEnd(t *testing.T) {
	setupTestEnvironment(t)

	assertContains(t, mustRun(t, "alice-password\n", "account", "register", "--user", "alice"), "Registered")
	assertContains(t, mustRun(t, "bob-password\n", "account", "register", "--user", "bob"), "Registered")
	assertContains(t, mustRun(t, "alice-password\n", "account", "login", "--user", "alice"), "Logged in as")
	assertContains(t, mustRun(t, "", "account", "whoami"), "alice")

	output := mustRun(t, "", "page", "create", "--title", "Book club", "--description", "Monthly picks", "--invite", "bob")
	assertContains(t, output, "Created")
	assertContains(t, output, "bob")
	pageID := firstID(t, output)

	assertContains(t, mustRun(t, "", "page", "post", pageID, "Dune", "next?"), "Posted")

	output = mustRun(t, "", "page", "view", pageID)
	assertContains(t, output, "Book club")
	assertContains(t, output, "Monthly picks")
	assertContains(t, output, "Dune next?")

	assertContains(t, mustRun(t, "bob-password\n", "account", "login", "--user", "bob"), "Logged in as")
	assertContains(t, mustRun(t, "", "page", "view", pageID), "page not found or you are not a member")

	output = mustRun(t, "", "invite", "list")
	assertContains(t, output, "Book club")
	assertContains(t, output, "alice")
	inviteID := firstID(t, output)

	assertContains(t, mustRun(t, "", "invite", "accept", inviteID), "Joined")
	assertContains(t, mustRun(t, "", "page", "view", pageID), "Dune next?")
	assertContains(t, mustRun(t, "", "page", "members", pageID), "bob")

	output = mustRun(t, "", "page", "list")
	assertContains(t, output, pageID)
	assertContains(t, output, "Book club")

	assertContains(t, mustRun(t, "", "account", "logout"), "Logged out")
	assertContains(t, mustRun(t, "", "page", "list"), "not logged in")

	output = mustRun(t, "", "log", "--user", "bob", "--op", "accept_invitation")
	assertContains(t, output, "accept_invitation")
	assertContains(t, output, "page="+pageID)
	if strings.Contains(output, "create_page") {
		t.Errorf("Filter did not drop other operations:\n%s", output)
	}

	assertContains(t, mustRun(t, "", "metrics"), "cipherboard_crypto_operations_total")
}

func TestLoginWrongPassword(t *testing.T) {
	setupTestEnvironment(t)

	mustRun(t, "right-password\n", "account", "register", "--user", "alice")
	output := mustRun(t, "wrong-password\n", "account", "login", "--user", "alice")
	assertContains(t, output, "wrong username or password")

	assertContains(t, mustRun(t, "", "account", "whoami"), "not logged in")
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	setupTestEnvironment(t)

	_, err := runCommand(t, "pw\n", "account", "register", "--user", "alice", "--email", "not-an-email")
	if err == nil {
		t.Fatal("Expected an error for an invalid email")
	}
}

func TestConfigSetAndShow(t *testing.T) {
	setupTestEnvironment(t)

	assertContains(t, mustRun(t, "", "config", "set", "session_timeout", "15m"), "Set")
	assertContains(t, mustRun(t, "", "config", "show"), "15m")

	output := mustRun(t, "", "config", "set", "session_timeout", "soon")
	assertContains(t, output, "positive duration")

	output = mustRun(t, "", "config", "set", "colour", "blue")
	assertContains(t, output, "unknown config key")
	assertContains(t, output, "session_timeout")
}

func TestLogEmpty(t *testing.T) {
	setupTestEnvironment(t)

	assertContains(t, mustRun(t, "", "log"), "no audit entries")
}
