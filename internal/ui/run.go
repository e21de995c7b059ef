package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/stagger-tui/internal/store"
	"github.com/DaanHessen/stagger-tui/internal/util"
)

// Run boots the TUI program and blocks until it exits. A nil db runs without
// persistence.
func Run(ctx context.Context, db *store.DB, cfg util.Config, version string) error {
	var repo StateStore
	if db != nil {
		repo = store.NewStateRepo(db)
	}
	m, err := initialModel(ctx, repo, cfg, version)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	return err
}
