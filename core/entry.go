package core

import (
	"encoding/binary"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// Maximum number of runes kept in a derived display title.
const maxTitleLength = 100

// Content holds the typed payload representations of a clipboard event.
// A single event may carry several representations at once (e.g. plain
// text plus an HTML rendering of the same selection).
type Content struct {
	Text     string
	HTML     string
	FileURLs []string
	Image    []byte
}

// IsEmpty reports whether the content carries no representation at all.
func (c Content) IsEmpty() bool {
	return c.Text == "" && c.HTML == "" && len(c.FileURLs) == 0 && len(c.Image) == 0
}

// Fingerprint generates a deterministic 64-bit digest of the content using
// BLAKE2b hashing. Identical content always produces identical fingerprints,
// which is what the dedup resolver keys on.
func (c Content) Fingerprint() uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(c.Text))
	h.Write([]byte{0})
	h.Write([]byte(c.HTML))
	h.Write([]byte{0})
	for _, u := range c.FileURLs {
		h.Write([]byte(u))
		h.Write([]byte{0})
	}
	h.Write(c.Image)
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Entry is one recorded clipboard event. Content is immutable after
// creation; metadata is updated by the history store when duplicates are
// merged or pins toggled. The transient fields are view state recomputed
// by the pipeline and never persisted.
type Entry struct {
	Id      uuid.UUID
	Content Content

	Application   string
	FromSelf      bool // written back to the clipboard by this application
	FirstCopiedAt time.Time
	LastCopiedAt  time.Time
	CopyCount     int
	Pin           rune   // 0 when unpinned
	Modified      *int64 // clipboard change counter of the event this entry rewrites
	Title         string

	// Transient view state, recomputed on every pipeline run.
	Visible         bool
	Selected        bool
	HighlightRanges []Range
	Shortcut        string

	linksOnce sync.Once
	links     []string
}

// urlPattern matches URLs embedded in plain text, including local file
// references, which the links filter later excludes.
var urlPattern = regexp.MustCompile(`(?i)\b(?:https?|ftp|file)://[^\s<>"']+`)

// NewEntry creates an entry for freshly observed clipboard content.
// Identity is assigned once here and never reused; the display title is
// derived from the richest available representation.
func NewEntry(content Content, application string) *Entry {
	now := time.Now().UTC()
	return &Entry{
		Id:            uuid.New(),
		Content:       content,
		Application:   application,
		FirstCopiedAt: now,
		LastCopiedAt:  now,
		CopyCount:     1,
		Title:         deriveTitle(content),
	}
}

// IsPinned reports whether the entry carries a pin character.
func (e *Entry) IsPinned() bool {
	return e.Pin != 0
}

// DetectedLinks returns the URLs found in the text representation.
// Extraction runs once, lazily, and the result is cached for the lifetime
// of the entry (content never changes after creation).
func (e *Entry) DetectedLinks() []string {
	e.linksOnce.Do(func() {
		e.links = urlPattern.FindAllString(e.Content.Text, -1)
	})
	return e.links
}

// ReleaseTransient drops entry-owned heavyweight transient state before the
// entry leaves the canonical set.
func (e *Entry) ReleaseTransient() {
	e.HighlightRanges = nil
	e.Shortcut = ""
	e.Visible = false
	e.Selected = false
}

// deriveTitle builds a display title from the content, preferring text,
// then file names, then an image placeholder.
func deriveTitle(content Content) string {
	switch {
	case strings.TrimSpace(content.Text) != "":
		return truncateTitle(strings.Join(strings.Fields(content.Text), " "))
	case len(content.FileURLs) > 0:
		names := make([]string, len(content.FileURLs))
		for i, u := range content.FileURLs {
			names[i] = path.Base(strings.TrimPrefix(u, "file://"))
		}
		return truncateTitle(strings.Join(names, ", "))
	case len(content.Image) > 0:
		return "Image"
	default:
		return ""
	}
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleLength {
		return title
	}
	return string(runes[:maxTitleLength]) + "…"
}
