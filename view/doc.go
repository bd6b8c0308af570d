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

// Package view derives the presentable entry list from the canonical
// history: content-type filtering, query ranking and quick-select
// shortcut assignment, recomputed as one unit on every trigger.
//
// The pipeline subscribes to history mutation events and recomputes the
// whole derived view rather than patching it incrementally. Each run is
// stamped with a generation number; a run that finishes after a newer
// one started publishes nothing, so the derived view never regresses to
// stale state. Query changes are debounced so ranking does not run on
// every keystroke.
package view
