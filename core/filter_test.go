package core

import (
	"errors"
	"testing"
)

func TestContentFilterMatches(t *testing.T) {
	text := NewEntry(Content{Text: "plain text"}, "")
	blank := NewEntry(Content{Text: "   \n\t ", HTML: "<p></p>"}, "")
	link := NewEntry(Content{Text: "visit https://example.com now"}, "")
	localLink := NewEntry(Content{Text: "open file:///tmp/x.txt"}, "")
	image := NewEntry(Content{Image: []byte{1, 2, 3}}, "")
	files := NewEntry(Content{FileURLs: []string{"file:///tmp/a"}}, "")

	tests := []struct {
		name   string
		filter ContentFilter
		entry  *Entry
		want   bool
	}{
		{"all matches text", FilterAll, text, true},
		{"all matches image", FilterAll, image, true},
		{"text matches text", FilterText, text, true},
		{"text rejects whitespace only", FilterText, blank, false},
		{"text rejects image", FilterText, image, false},
		{"links matches remote url", FilterLinks, link, true},
		{"links rejects local file url", FilterLinks, localLink, false},
		{"links rejects plain text", FilterLinks, text, false},
		{"images matches image", FilterImages, image, true},
		{"images rejects text", FilterImages, text, false},
		{"files matches file refs", FilterFiles, files, true},
		{"files rejects text", FilterFiles, text, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.entry); got != tt.want {
				t.Errorf("%v.Matches() = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestContentFilterNext(t *testing.T) {
	order := []ContentFilter{FilterAll, FilterText, FilterLinks, FilterImages, FilterFiles}
	for i, f := range order {
		want := order[(i+1)%len(order)]
		if got := f.Next(); got != want {
			t.Errorf("%v.Next() = %v, want %v", f, got, want)
		}
	}
}

func TestParseContentFilter(t *testing.T) {
	for _, name := range []string{"all", "text", "links", "images", "files"} {
		f, err := ParseContentFilter(name)
		if err != nil {
			t.Errorf("ParseContentFilter(%q) error: %v", name, err)
		}
		if f.String() != name {
			t.Errorf("ParseContentFilter(%q).String() = %q", name, f.String())
		}
	}

	_, err := ParseContentFilter("bogus")
	if !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("ParseContentFilter(bogus) error = %v, want ErrUnknownFilter", err)
	}
}

func TestValidateEntry(t *testing.T) {
	valid := NewEntry(Content{Text: "ok"}, "")
	if err := ValidateEntry(valid); err != nil {
		t.Errorf("ValidateEntry(valid) = %v", err)
	}

	if err := ValidateEntry(nil); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("ValidateEntry(nil) = %v, want ErrInvalidEntry", err)
	}

	empty := NewEntry(Content{}, "")
	if err := ValidateEntry(empty); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("ValidateEntry(empty content) = %v, want ErrEmptyContent", err)
	}

	stale := NewEntry(Content{Text: "x"}, "")
	stale.CopyCount = 0
	if err := ValidateEntry(stale); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("ValidateEntry(zero copy count) = %v, want ErrInvalidEntry", err)
	}
}
