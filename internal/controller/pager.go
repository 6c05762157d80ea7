package controller

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

// pagerChrome is the number of lines taken by the title and footer.
const pagerChrome = 4

var quitKeys = key.NewBinding(
	key.WithKeys("q", "esc", "ctrl+c"),
	key.WithHelp("q", "quit"),
)

// pagerModel is a scrollable Bubble Tea view over pre-rendered text.
type pagerModel struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
}

func newPagerModel(title, content string, width, height int) pagerModel {
	pm := pagerModel{title: title, content: content}
	pm.resize(width, height)

	return pm
}

func (pm *pagerModel) resize(width, height int) {
	bodyHeight := height - pagerChrome
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	if !pm.ready {
		pm.viewport = viewport.New(width, bodyHeight)
		pm.viewport.SetContent(pm.content)
		pm.ready = true

		return
	}

	pm.viewport.Width = width
	pm.viewport.Height = bodyHeight
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, quitKeys) {
			return pm, tea.Quit
		}
	case tea.WindowSizeMsg:
		pm.resize(msg.Width, msg.Height)

		return pm, nil
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	var b strings.Builder

	b.WriteString(renderTitle(pm.title, true))
	b.WriteString("\n\n")
	b.WriteString(pm.viewport.View())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%3.f%%  ↑/↓ scroll • pgup/pgdn page • %s %s",
		pm.viewport.ScrollPercent()*100, quitKeys.Help().Key, quitKeys.Help().Desc)

	return b.String()
}

// needsPaging reports whether content is taller than the space the pager has.
func needsPaging(content string, height int) bool {
	if height <= 0 {
		return false
	}

	return strings.Count(content, "\n") > height-pagerChrome
}

// pageIfNeeded shows content in a pager when out is a terminal that is too
// short for it. It reports whether the pager was used.
func pageIfNeeded(out io.Writer, title, content string) (bool, error) {
	f, ok := out.(*os.File)
	if !ok {
		return false, nil
	}

	width, height, err := term.GetSize(f.Fd())
	if err != nil || !needsPaging(content, height) {
		return false, nil
	}

	program := tea.NewProgram(newPagerModel(title, content, width, height), tea.WithOutput(out), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return true, fmt.Errorf("run pager: %w", err)
	}

	return true, nil
}
