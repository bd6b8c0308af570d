package core

import (
	"fmt"
	"strings"
)

// ContentFilter partitions entries by content category. The zero value is
// FilterAll. Filters are pure predicates: Matches never mutates the entry.
type ContentFilter int

const (
	// FilterAll admits every entry.
	FilterAll ContentFilter = iota
	// FilterText admits entries whose trimmed text representation is non-empty.
	FilterText
	// FilterLinks admits entries with at least one non-local URL in the text.
	FilterLinks
	// FilterImages admits entries carrying an image payload.
	FilterImages
	// FilterFiles admits entries carrying local file references.
	FilterFiles

	contentFilterCount
)

// Matches reports whether the entry belongs to the filter's category.
func (f ContentFilter) Matches(entry *Entry) bool {
	switch f {
	case FilterText:
		return strings.TrimSpace(entry.Content.Text) != ""
	case FilterLinks:
		for _, link := range entry.DetectedLinks() {
			if !strings.HasPrefix(strings.ToLower(link), "file://") {
				return true
			}
		}
		return false
	case FilterImages:
		return len(entry.Content.Image) > 0
	case FilterFiles:
		return len(entry.Content.FileURLs) > 0
	default:
		return true
	}
}

// Next advances to the following filter in declaration order, wrapping
// back to FilterAll after FilterFiles.
func (f ContentFilter) Next() ContentFilter {
	return (f + 1) % contentFilterCount
}

func (f ContentFilter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterText:
		return "text"
	case FilterLinks:
		return "links"
	case FilterImages:
		return "images"
	case FilterFiles:
		return "files"
	default:
		return fmt.Sprintf("ContentFilter(%d)", int(f))
	}
}

// ParseContentFilter converts a filter name to its ContentFilter value.
func ParseContentFilter(name string) (ContentFilter, error) {
	switch strings.ToLower(name) {
	case "all":
		return FilterAll, nil
	case "text":
		return FilterText, nil
	case "links":
		return FilterLinks, nil
	case "images":
		return FilterImages, nil
	case "files":
		return FilterFiles, nil
	default:
		return FilterAll, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
}
