package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	NextCategory key.Binding
	PrevCategory key.Binding
	NextStatus   key.Binding
	PrevStatus   key.Binding
	Select       key.Binding
	Toggle       key.Binding
	SwitchPane   key.Binding
	Report       key.Binding
	Help         key.Binding
	Back         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextCategory: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		PrevCategory: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "prev category")),
		NextStatus:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		PrevStatus:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "prev status")),
		Select:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select skill")),
		Toggle:       key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle task")),
		SwitchPane:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "pane")),
		Report:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// footer is the one-line help shown under the panes.
func (k keyMap) footer(pane pane) []key.Binding {
	out := []key.Binding{k.NextCategory, k.NextStatus, k.SwitchPane}
	if pane == paneSkills {
		out = append(out, k.Select)
	} else {
		out = append(out, k.Toggle)
	}
	return append(out, k.Report, k.Help, k.Quit)
}

func helpLine(bs []key.Binding) string {
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
