package history

import "github.com/poiesic/clipkeep/core"

// Clipboard is the system clipboard collaborator. The change counter
// advances monotonically whenever the clipboard content changes and is
// used to correlate self-modified rewrites in the session log.
type Clipboard interface {
	Copy(entry *core.Entry, removeFormatting bool)
	Paste()
	Clear()
	ChangeCounter() int64
}

// NotificationKind classifies notifications delivered to the user.
type NotificationKind int

const (
	// NotificationNew announces a genuinely new, non-duplicate entry.
	NotificationNew NotificationKind = iota
)

// Notifier delivers user-facing notifications. Implementations must not
// block.
type Notifier interface {
	Notify(title string, kind NotificationKind)
}
