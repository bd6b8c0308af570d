package history

import (
	"strings"

	"github.com/poiesic/clipkeep/core"
)

// findDuplicateLocked scans storage order for the first non-identical
// entry whose content equals the incoming entry's, or which the incoming
// entry supersedes under the looser trimmed-text equivalence. More than
// one candidate is not an error: the first wins, deterministically.
func (s *Store) findDuplicateLocked(incoming *core.Entry) *core.Entry {
	fingerprint := incoming.Content.Fingerprint()
	for _, existing := range s.entries {
		if existing == incoming {
			continue
		}
		if existing.Content.Fingerprint() == fingerprint || supersedes(incoming, existing) {
			return existing
		}
	}
	return nil
}

// modifiedPredecessorLocked resolves the self-modification relation: the
// incoming entry carries the change counter of the clipboard event it
// rewrote, and the session log still maps that counter to the entry
// produced for it.
func (s *Store) modifiedPredecessorLocked(incoming *core.Entry) *core.Entry {
	if incoming.Modified == nil {
		return nil
	}
	logged, ok := s.sessionLog[*incoming.Modified]
	if !ok || logged == incoming {
		return nil
	}
	return logged
}

// merge folds the predecessor's metadata into the incoming entry before
// the predecessor is removed. Content is inherited only when the
// incoming entry is not itself a self-modification; the origin
// application is inherited unless the entry was written back to the
// clipboard by this application.
func merge(incoming, predecessor *core.Entry, selfModification bool) {
	if !selfModification {
		incoming.Content = predecessor.Content
	}
	incoming.FirstCopiedAt = predecessor.FirstCopiedAt
	incoming.CopyCount += predecessor.CopyCount
	incoming.Pin = predecessor.Pin
	incoming.Title = predecessor.Title
	if !incoming.FromSelf {
		incoming.Application = predecessor.Application
	}
}

// supersedes reports whether the incoming entry is a later revision of
// the existing one under the loose equivalence: identical text after
// trimming surrounding whitespace.
func supersedes(incoming, existing *core.Entry) bool {
	trimmed := strings.TrimSpace(incoming.Content.Text)
	return trimmed != "" && trimmed == strings.TrimSpace(existing.Content.Text)
}
