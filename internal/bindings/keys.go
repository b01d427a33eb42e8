package bindings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// FormatKey renders a key event as a canonical chord string: modifier
// prefixes in Ctrl, Alt, Shift order, then the key name. Space renders as
// "Space"; uppercase letters appear only for shifted input.
func FormatKey(msg tea.KeyMsg) string {
	raw := msg.String()
	if raw == "" {
		return ""
	}

	parts := strings.Split(raw, "+")
	key := parts[len(parts)-1]
	mods := parts[:len(parts)-1]

	var ctrl, alt, shift bool
	for _, mod := range mods {
		switch strings.ToLower(mod) {
		case "ctrl":
			ctrl = true
		case "alt":
			alt = true
		case "shift":
			shift = true
		}
	}

	name := canonicalKeyName(key, shift)
	if name == "" {
		return ""
	}

	var out []string
	if ctrl {
		out = append(out, "Ctrl")
	}
	if alt {
		out = append(out, "Alt")
	}
	if shift && !isLetter(name) {
		out = append(out, "Shift")
	}
	out = append(out, name)
	return strings.Join(out, "+")
}

func canonicalKeyName(key string, shifted bool) string {
	switch key {
	case " ", "space":
		return "Space"
	case "esc", "escape":
		return "Esc"
	case "enter":
		return "Enter"
	case "tab":
		return "Tab"
	case "backtab":
		return "BackTab"
	case "backspace":
		return "Backspace"
	case "delete":
		return "Delete"
	case "insert":
		return "Insert"
	case "up":
		return "Up"
	case "down":
		return "Down"
	case "left":
		return "Left"
	case "right":
		return "Right"
	case "home":
		return "Home"
	case "end":
		return "End"
	case "pgup":
		return "PageUp"
	case "pgdown":
		return "PageDown"
	}

	runes := []rune(key)
	if len(runes) == 1 {
		r := runes[0]
		if r >= 'a' && r <= 'z' {
			if shifted {
				return strings.ToUpper(key)
			}
			return key
		}
		if r >= 'A' && r <= 'Z' {
			return key
		}
		return key
	}

	if len(key) >= 2 && (key[0] == 'f' || key[0] == 'F') && isDigits(key[1:]) {
		return "F" + key[1:]
	}
	return key
}

func isLetter(name string) bool {
	if len(name) != 1 {
		return false
	}
	c := name[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
