// Command notas is the grade-management terminal client.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/uia-acad/notas/apps/notas/tui"
	"github.com/uia-acad/notas/client"
	"github.com/uia-acad/notas/core"
	"github.com/uia-acad/notas/core/session"
	logsvc "github.com/uia-acad/notas/services/logger"
	"github.com/uia-acad/notas/storage/sessionfile"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// The terminal belongs to the TUI, so logs go to a file next to the
	// session file.
	logPath := filepath.Join(filepath.Dir(conf.SessionFile), "notas.log")
	_ = os.MkdirAll(filepath.Dir(logPath), 0o700)
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	std := log.New(logFile, "NOTAS : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		rollbar := logsvc.NewRollbarLogger(std, conf)
		rollbar.Enable(true)
		logger = rollbar
	}

	store := sessionfile.NewStore(conf.SessionFile)
	sessions := session.NewManager(store, conf, logger)
	if _, err := sessions.Restore(); err != nil {
		logger.Error("restoring session", err)
	}

	api := client.New(conf, sessions, logger)

	// =========================================================================
	// Run

	logger.Info(fmt.Sprintf("starting %s: version %q, API %s", conf.AppName, conf.Build, conf.APIBaseURL))
	defer logger.Info("stopped")

	model := tui.NewModel(tui.Deps{
		Conf:     conf,
		API:      api,
		Sessions: sessions,
		Logger:   logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Forced logouts (idle, periodic check, 401) land in the UI as a
	// message, not a callback, so the model owns all state transitions.
	sessions.OnExpire(func(reason session.EndReason) {
		program.Send(tui.SessionEndedMsg{Reason: reason})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessions.Run(ctx)

	if _, err := program.Run(); err != nil {
		logger.Fatal(fmt.Sprintf("running program: %v", err), err)
	}
}
