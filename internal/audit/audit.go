package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Outcome values recorded with each entry.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Entry represents a single audit log entry. It never carries key material
// or plaintext; pages and posts are named by ID only.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Username performing the action.
	Operation string `json:"op"`   // Operation name.
	Outcome   string `json:"outcome"`

	// Optional fields depending on operation.
	ErrorKind  string `json:"error_kind,omitempty"`  // Classified failure.
	PageID     string `json:"page_id,omitempty"`     // For page, post and invite operations.
	PostID     string `json:"post_id,omitempty"`     // For post operations.
	InviteID   string `json:"invite_id,omitempty"`   // For accept/decline.
	TargetUser string `json:"target_user,omitempty"` // For invite.
	Count      int    `json:"count,omitempty"`       // Invitations sent, pages listed.
}

var (
	mu      sync.Mutex
	logPath string
)

// SetPath sets the audit log file. An empty path disables logging.
func SetPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	logPath = path
}

// LogPath returns the path to the audit log file, or "" if logging is disabled.
func LogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Log appends an entry to the audit log.
// If logging fails, the entry is dropped; operations never fail because
// audit logging failed.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.Outcome == "" {
		entry.Outcome = OutcomeOK
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if logPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	path := LogPath()
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// Filter returns the entries for which keep returns true.
func Filter(entries []Entry, keep func(Entry) bool) []Entry {
	var out []Entry
	for _, entry := range entries {
		if keep(entry) {
			out = append(out, entry)
		}
	}
	return out
}
