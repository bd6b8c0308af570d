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


// Package search ranks clipboard entries against a free-text query.
//
// The Engine supports four strategies selected by Mode:
//
//   - Exact: case-insensitive substring match on the display title,
//     unscored, preserving input order.
//   - Regexp: the query is a case-insensitive pattern; matches are
//     ordered by the position of their first hit.
//   - Fuzzy: approximate matching with a bounded title length and a
//     similarity threshold, ordered best-first.
//   - Mixed: a priority union of the other strategies, where a
//     verbatim match beats per-token AND matching, which beats a
//     regexp hit, which beats a fuzzy hit.
//
// Every result carries highlight ranges expressed as rune indexes into
// the original title, so matching is diacritic-insensitive without
// disturbing highlighting. An empty query is an identity: all entries
// come back unscored in input order.
//
// Search is a pure function of its inputs; the Engine holds only the
// configured mode and a logger and is safe for concurrent use.
package search
