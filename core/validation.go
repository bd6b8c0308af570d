// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ValidateEntry validates an Entry according to domain rules.
//
// Validation rules:
//   - Id must be assigned
//   - Content must carry at least one representation
//   - Copy timestamps must not be in the future and must be ordered
//
// NOT validated (transient view state, recomputed by the pipeline):
//   - Visible, Selected, HighlightRanges, Shortcut
func ValidateEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if entry.Id == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalidEntry)
	}

	if entry.Content.IsEmpty() {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyContent)
	}

	now := time.Now().UTC()
	if entry.FirstCopiedAt.After(now) || entry.LastCopiedAt.After(now) {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrInvalidTimestamp)
	}

	if entry.LastCopiedAt.Before(entry.FirstCopiedAt) {
		return fmt.Errorf("%w: last copy precedes first copy", ErrInvalidEntry)
	}

	if entry.CopyCount < 1 {
		return fmt.Errorf("%w: copy count must be positive", ErrInvalidEntry)
	}

	return nil
}
