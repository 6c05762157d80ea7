package controller

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNeedsPaging(t *testing.T) {
	tests := []struct {
		name    string
		content string
		height  int
		want    bool
	}{
		{"unknown height", strings.Repeat("x\n", 100), 0, false},
		{"fits", "a\nb\n", 24, false},
		{"exactly fits", strings.Repeat("x\n", 20), 24, false},
		{"too tall", strings.Repeat("x\n", 21), 24, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := needsPaging(tt.content, tt.height); got != tt.want {
				t.Errorf("needsPaging() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageIfNeeded_NotAFile(t *testing.T) {
	var buf bytes.Buffer

	paged, err := pageIfNeeded(&buf, "title", strings.Repeat("line\n", 500))
	if err != nil || paged {
		t.Fatalf("pageIfNeeded() = %v, %v; want false, nil", paged, err)
	}
}

func TestPagerModel_View(t *testing.T) {
	pm := newPagerModel("Link report", "first line\nsecond line", 80, 10)

	view := pm.View()
	for _, want := range []string{"Link report", "first line", "second line", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	if pm.Init() != nil {
		t.Errorf("Init() should not return a command")
	}
}

func TestPagerModel_UpdateQuits(t *testing.T) {
	pm := newPagerModel("t", "content", 80, 10)

	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := pm.Update(msg)
		if cmd == nil {
			t.Fatalf("Update(%q) returned no command", msg.String())
		}

		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("Update(%q) did not quit", msg.String())
		}
	}
}

func TestPagerModel_UpdateResizes(t *testing.T) {
	pm := newPagerModel("t", "content", 80, 10)

	model, cmd := pm.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if cmd != nil {
		t.Errorf("resize should not return a command")
	}

	resized := model.(pagerModel)
	if resized.viewport.Width != 120 || resized.viewport.Height != 40-pagerChrome {
		t.Errorf("viewport = %dx%d, want 120x%d", resized.viewport.Width, resized.viewport.Height, 40-pagerChrome)
	}

	tiny := newPagerModel("t", "content", 10, 2)
	if tiny.viewport.Height != 1 {
		t.Errorf("viewport height = %d, want 1", tiny.viewport.Height)
	}
}

func TestPagerModel_UpdateScrolls(t *testing.T) {
	pm := newPagerModel("t", strings.Repeat("line\n", 50), 80, 10)

	model, _ := pm.Update(tea.KeyMsg{Type: tea.KeyDown})
	if model.(pagerModel).viewport.YOffset != 1 {
		t.Errorf("YOffset = %d, want 1", model.(pagerModel).viewport.YOffset)
	}
}
