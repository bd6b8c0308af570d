package view

import "github.com/poiesic/clipkeep/core"

// Digits handed to visible unpinned entries, in binding order.
const shortcutDigits = "1234567890"

// assignShortcuts recomputes every quick-select binding from scratch.
// Pinned entries carry their pin character. Of the unpinned, only the
// first ten currently visible entries, in rank order, get a digit;
// everything else carries no shortcut.
func assignShortcuts(all, visible []*core.Entry) {
	for _, entry := range all {
		if entry.IsPinned() {
			entry.Shortcut = string(entry.Pin)
		} else {
			entry.Shortcut = ""
		}
	}

	next := 0
	for _, entry := range visible {
		if entry.IsPinned() {
			continue
		}
		if next >= len(shortcutDigits) {
			break
		}
		entry.Shortcut = string(shortcutDigits[next])
		next++
	}
}
