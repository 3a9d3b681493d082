package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/liftlog/internal/cli"
	"github.com/julianstephens/liftlog/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	// Back up before the session can touch anything
	ctx.PerformAutomaticBackup()

	editor := tui.NewEditor()
	sess, release, err := ctx.OpenSession(editor)
	if err != nil {
		return err
	}
	defer release()

	p := tea.NewProgram(tui.NewModel(ctx, sess, editor), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
