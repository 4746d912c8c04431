package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the UI reacts to. The help overlay is rendered
// from the same bindings, so changing a key here changes the docs too.
type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding

	ViewLaunches  key.Binding
	ViewFavorites key.Binding
	ViewCompare   key.Binding
	ViewStats     key.Binding

	Open         key.Binding
	Star         key.Binding
	Filter       key.Binding
	ResetFilter  key.Binding
	Retry        key.Binding
	CompareThis  key.Binding
	ClearCompare key.Binding

	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Used inside the filter form and the compare id editor.
	Confirm key.Binding
	Cycle   key.Binding
}

func bind(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit:       bind("q/ctrl+c", "Quit", "ctrl+c", "q"),
		Help:       bind("?", "Toggle help", "?"),
		CycleTheme: bind("T", "Cycle theme", "T"),
		Tab:        bind("tab", "Next view", "tab"),
		ShiftTab:   bind("shift+tab", "Previous view", "shift+tab"),
		Escape:     bind("esc", "Back to list", "esc"),

		ViewLaunches:  bind("1", "Launches", "1"),
		ViewFavorites: bind("2", "Favorites", "2"),
		ViewCompare:   bind("3", "Compare", "3"),
		ViewStats:     bind("4", "Stats", "4"),

		Open:         bind("enter", "Open detail", "enter"),
		Star:         bind("s/space", "Star or unstar", "s", " "),
		Filter:       bind("f or /", "Edit filter", "f", "/"),
		ResetFilter:  bind("F", "Reset filter", "F"),
		Retry:        bind("r", "Retry or reload", "r"),
		CompareThis:  bind("c", "Add to compare", "c"),
		ClearCompare: bind("ctrl+x", "Clear compare", "ctrl+x"),

		Up:           bind("k/up", "Move up", "k", "up"),
		Down:         bind("j/down", "Move down", "j", "down"),
		Top:          bind("g", "Go to top", "g", "home"),
		Bottom:       bind("G", "Go to bottom", "G", "end"),
		PageUp:       bind("pgup", "Page up", "pgup"),
		PageDown:     bind("pgdown", "Page down", "pgdown"),
		HalfPageUp:   bind("ctrl+u", "Half page up", "ctrl+u"),
		HalfPageDown: bind("ctrl+d", "Half page down", "ctrl+d"),

		Confirm: bind("enter", "Confirm", "enter"),
		Cycle:   bind("←/→", "Change option", "left", "right"),
	}
}

// helpGroup is one titled block of the help overlay.
type helpGroup struct {
	title    string
	bindings []key.Binding
}

func (k keyMap) helpGroups() []helpGroup {
	return []helpGroup{
		{"Views", []key.Binding{k.Tab, k.ShiftTab, k.ViewLaunches, k.ViewFavorites, k.ViewCompare, k.ViewStats, k.Escape}},
		{"Navigation", []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp, k.PageDown, k.PageUp}},
		{"Launches", []key.Binding{k.Open, k.Star, k.Filter, k.ResetFilter, k.Retry, k.CompareThis}},
		{"Compare", []key.Binding{bind("i/enter", "Edit launch ids"), bind("r", "Compare again"), k.ClearCompare}},
		{"Filter form", []key.Binding{bind("tab", "Next field"), k.Cycle, bind("ctrl+c", "Clear all"), k.Confirm}},
		{"General", []key.Binding{k.CycleTheme, k.Help, k.Quit}},
	}
}
