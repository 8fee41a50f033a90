package cmd

import (
	"fmt"

	"github.com/cipherboard/cipherboard/internal/audit"
	"github.com/cipherboard/cipherboard/internal/configs"
	"github.com/cipherboard/cipherboard/internal/metrics"
	"github.com/cipherboard/cipherboard/internal/server"
	"github.com/cipherboard/cipherboard/internal/session"
	"github.com/cipherboard/cipherboard/internal/store"
	"github.com/cipherboard/cipherboard/internal/utils"
	"github.com/cipherboard/cipherboard/internal/workflows"
)

// openClient wires a workflows.Client to the local store named by the
// client configuration. The returned function persists metrics and
// releases the server; it must be called when the command is done.
func openClient() (*workflows.Client, func(), error) {
	config, err := configs.LoadClientConfig()
	if err != nil {
		return nil, nil, err
	}
	timeout, err := config.Timeout()
	if err != nil {
		return nil, nil, err
	}
	Logger.Debugf("Data directory: %s", config.DataDir)

	audit.SetPath(config.AuditLogPath())

	fs, err := utils.NewOSFileSystem(config.StorePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store directory: %w", err)
	}
	st, err := store.Open(fs)
	if err != nil {
		return nil, nil, err
	}
	srv, err := server.New(st, server.WithSessionTimeout(timeout))
	if err != nil {
		return nil, nil, err
	}

	m := metrics.New()
	if config.MetricsFile != "" {
		if err := m.LoadFile(config.MetricsFile); err != nil {
			Logger.Warnf("Ignoring unreadable metrics file: %v", err)
		}
	}

	client := &workflows.Client{
		Server:  srv,
		Slots:   session.NewFileSlots(configs.UserSettings.SessionFile()),
		Metrics: m,
		Logger:  Logger,
	}
	closeFn := func() {
		if config.MetricsFile != "" {
			if err := m.SaveFile(config.MetricsFile); err != nil {
				Logger.Warnf("Failed to save metrics: %v", err)
			}
		}
		srv.Close()
	}
	return client, closeFn, nil
}
