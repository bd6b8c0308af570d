package history

import (
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/clipkeep/core"
)

// SortBy selects the ordering applied to unpinned entries.
type SortBy int

const (
	// SortByLastCopied orders by most recent copy, newest first.
	SortByLastCopied SortBy = iota
	// SortByFirstCopied orders by first appearance, newest first.
	SortByFirstCopied
	// SortByCopyCount orders by copy frequency, most copied first.
	SortByCopyCount
)

// PinPlacement selects where pinned entries appear relative to the rest.
type PinPlacement int

const (
	// PinsTop places pinned entries before unpinned ones.
	PinsTop PinPlacement = iota
	// PinsBottom places pinned entries after unpinned ones.
	PinsBottom
)

// SortCriteria bundles the ordering and pin placement configuration.
type SortCriteria struct {
	By           SortBy
	PinPlacement PinPlacement
}

// Sorter orders the full entry set. Implementations must not mutate the
// input slice.
type Sorter interface {
	Sort(entries []*core.Entry, criteria SortCriteria) []*core.Entry
}

type defaultSorter struct{}

// NewSorter returns the default sorter: unpinned entries ordered by the
// criteria, pinned entries ordered by pin character and placed at the
// configured end.
func NewSorter() Sorter {
	return defaultSorter{}
}

func (defaultSorter) Sort(entries []*core.Entry, criteria SortCriteria) []*core.Entry {
	pinned := make([]*core.Entry, 0, len(entries))
	unpinned := make([]*core.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsPinned() {
			pinned = append(pinned, entry)
		} else {
			unpinned = append(unpinned, entry)
		}
	}

	slices.SortStableFunc(pinned, func(a, b *core.Entry) int {
		return int(a.Pin) - int(b.Pin)
	})
	slices.SortStableFunc(unpinned, compareFunc(criteria.By))

	if criteria.PinPlacement == PinsBottom {
		return append(unpinned, pinned...)
	}
	return append(pinned, unpinned...)
}

func compareFunc(by SortBy) func(a, b *core.Entry) int {
	switch by {
	case SortByFirstCopied:
		return func(a, b *core.Entry) int {
			return b.FirstCopiedAt.Compare(a.FirstCopiedAt)
		}
	case SortByCopyCount:
		return func(a, b *core.Entry) int {
			if a.CopyCount != b.CopyCount {
				return b.CopyCount - a.CopyCount
			}
			return b.LastCopiedAt.Compare(a.LastCopiedAt)
		}
	default:
		return func(a, b *core.Entry) int {
			return b.LastCopiedAt.Compare(a.LastCopiedAt)
		}
	}
}

func (s SortBy) String() string {
	switch s {
	case SortByLastCopied:
		return "lastCopiedAt"
	case SortByFirstCopied:
		return "firstCopiedAt"
	case SortByCopyCount:
		return "numberOfCopies"
	default:
		return fmt.Sprintf("SortBy(%d)", int(s))
	}
}

// ParseSortBy converts a criteria name to its SortBy value.
func ParseSortBy(name string) (SortBy, error) {
	switch strings.ToLower(name) {
	case "lastcopiedat":
		return SortByLastCopied, nil
	case "firstcopiedat":
		return SortByFirstCopied, nil
	case "numberofcopies":
		return SortByCopyCount, nil
	default:
		return SortByLastCopied, fmt.Errorf("%w: %q", ErrUnknownSortBy, name)
	}
}

func (p PinPlacement) String() string {
	if p == PinsBottom {
		return "bottom"
	}
	return "top"
}

// ParsePinPlacement converts a placement name to its PinPlacement value.
func ParsePinPlacement(name string) (PinPlacement, error) {
	switch strings.ToLower(name) {
	case "top":
		return PinsTop, nil
	case "bottom":
		return PinsBottom, nil
	default:
		return PinsTop, fmt.Errorf("%w: %q", ErrUnknownPinPlacement, name)
	}
}
