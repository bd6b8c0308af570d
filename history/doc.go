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


// Package history owns the canonical ordered collection of clipboard
// entries.
//
// The Store serializes every mutation (add, delete, clear, pin toggle,
// select) under a single lock: a mutation completes fully before the
// next one is observed. Incoming entries pass through the dedup/merge
// resolver, which recognizes both content duplicates and self-modified
// rewrites tracked in the run-scoped session log. Eviction removes the
// oldest unpinned entries once the configured capacity is exceeded;
// pinned entries are never evicted.
//
// Persistence is delegated to a storage.EntryRepository and is strictly
// best-effort: the in-memory set stays authoritative and repository
// errors are logged, never surfaced.
//
// Derived consumers subscribe to mutation events rather than polling;
// the Store emits an Event after every change to the canonical set or
// to an entry's pin or title.
package history
