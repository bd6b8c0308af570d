package history

import "github.com/poiesic/clipkeep/core"

// Modifiers is a bitmask of keyboard modifiers held during selection.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
)

// ModNone is a plain selection with no modifiers held.
const ModNone Modifiers = 0

type selectIntent int

const (
	intentDefault selectIntent = iota
	intentCopyOnly
	intentPaste
	intentPastePlain
)

// selectIntents is the fixed modifier-to-action table. Combinations not
// listed here make selection a no-op.
var selectIntents = map[Modifiers]selectIntent{
	ModNone:           intentDefault,
	ModControl:        intentCopyOnly,
	ModShift:          intentPaste,
	ModShift | ModAlt: intentPastePlain,
}

// Select copies the entry to the system clipboard and optionally pastes,
// depending on the held modifiers. The default action follows the
// paste-by-default and remove-formatting configuration. Returns false
// when the modifier combination maps to no action.
func (s *Store) Select(entry *core.Entry, mods Modifiers) bool {
	intent, ok := selectIntents[mods]
	if !ok {
		return false
	}

	s.mu.Lock()
	switch intent {
	case intentCopyOnly:
		s.clipboard.Copy(entry, false)
	case intentPaste:
		s.clipboard.Copy(entry, s.removeFormattingByDefault)
		s.clipboard.Paste()
	case intentPastePlain:
		s.clipboard.Copy(entry, true)
		s.clipboard.Paste()
	default:
		s.clipboard.Copy(entry, s.removeFormattingByDefault)
		if s.pasteByDefault {
			s.clipboard.Paste()
		}
	}
	s.mu.Unlock()

	s.emit(Event{Kind: EventSelected, Entry: entry})
	return true
}
