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

// Package assets computes heavyweight per-entry derived data (preview
// renderings) asynchronously on a worker pool.
//
// Every entry carries a generation token. Submitting new work or
// invalidating an entry bumps the token; a finished job re-checks its
// token before publishing, so a superseded rendering is silently
// dropped and a stale preview is never visible.
package assets
