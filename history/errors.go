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


package history

import "errors"

var (
	// ErrClipboardRequired is returned when a clipboard collaborator is not provided.
	ErrClipboardRequired = errors.New("clipboard required")

	// ErrUnknownSortBy is returned when a sort criteria name is not recognized.
	ErrUnknownSortBy = errors.New("unknown sort criteria")

	// ErrUnknownPinPlacement is returned when a pin placement name is not recognized.
	ErrUnknownPinPlacement = errors.New("unknown pin placement")
)
