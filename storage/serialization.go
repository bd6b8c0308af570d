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


package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/clipkeep/core"
)

// MUS serializers for the composite entry fields. Timestamps travel as
// unix microseconds. Transient view state is never serialized.
var (
	strSliceMUS  = ord.NewSliceSer[string](ord.String)
	byteSliceMUS = ord.NewSliceSer[byte](raw.Byte)
	modifiedMUS  = ord.NewPtrSer[int64](varint.Int64)
)

// MarshalID serializes an entry ID to bytes.
func MarshalID(id uuid.UUID) []byte {
	buf := make([]byte, 16)
	copy(buf, id[:])
	return buf
}

// UnmarshalID deserializes an entry ID from bytes.
func UnmarshalID(data []byte) (uuid.UUID, error) {
	if len(data) < 16 {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrSerializationFailed, ErrTruncatedData)
	}
	id, err := uuid.FromBytes(data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalEntry serializes an Entry to bytes.
func MarshalEntry(entry *core.Entry) []byte {
	buf := make([]byte, sizeEntry(entry))
	n := ord.String.Marshal(entry.Id.String(), buf)
	n += ord.String.Marshal(entry.Content.Text, buf[n:])
	n += ord.String.Marshal(entry.Content.HTML, buf[n:])
	n += strSliceMUS.Marshal(entry.Content.FileURLs, buf[n:])
	n += byteSliceMUS.Marshal(entry.Content.Image, buf[n:])
	n += ord.String.Marshal(entry.Application, buf[n:])
	n += ord.Bool.Marshal(entry.FromSelf, buf[n:])
	n += varint.Int64.Marshal(entry.FirstCopiedAt.UnixMicro(), buf[n:])
	n += varint.Int64.Marshal(entry.LastCopiedAt.UnixMicro(), buf[n:])
	n += varint.Int.Marshal(entry.CopyCount, buf[n:])
	n += varint.Int32.Marshal(entry.Pin, buf[n:])
	n += modifiedMUS.Marshal(entry.Modified, buf[n:])
	ord.String.Marshal(entry.Title, buf[n:])
	return buf
}

func sizeEntry(entry *core.Entry) int {
	size := ord.String.Size(entry.Id.String())
	size += ord.String.Size(entry.Content.Text)
	size += ord.String.Size(entry.Content.HTML)
	size += strSliceMUS.Size(entry.Content.FileURLs)
	size += byteSliceMUS.Size(entry.Content.Image)
	size += ord.String.Size(entry.Application)
	size += ord.Bool.Size(entry.FromSelf)
	size += varint.Int64.Size(entry.FirstCopiedAt.UnixMicro())
	size += varint.Int64.Size(entry.LastCopiedAt.UnixMicro())
	size += varint.Int.Size(entry.CopyCount)
	size += varint.Int32.Size(entry.Pin)
	size += modifiedMUS.Size(entry.Modified)
	size += ord.String.Size(entry.Title)
	return size
}

// UnmarshalEntry deserializes an Entry from bytes.
func UnmarshalEntry(data []byte) (entry *core.Entry, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		}
	}()

	entry = &core.Entry{}
	idStr, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if entry.Id, err = uuid.Parse(idStr); err != nil {
		return nil, err
	}

	var m int
	if entry.Content.Text, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if entry.Content.HTML, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if entry.Content.FileURLs, m, err = strSliceMUS.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if entry.Content.Image, m, err = byteSliceMUS.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if entry.Application, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if entry.FromSelf, m, err = ord.Bool.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m

	var micros int64
	if micros, m, err = varint.Int64.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	entry.FirstCopiedAt = time.UnixMicro(micros).UTC()
	n += m
	if micros, m, err = varint.Int64.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	entry.LastCopiedAt = time.UnixMicro(micros).UTC()
	n += m

	if entry.CopyCount, m, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if entry.Pin, m, err = varint.Int32.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if entry.Modified, m, err = modifiedMUS.Unmarshal(data[n:]); err != nil {
		return nil, err
	}
	n += m
	if entry.Title, _, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, err
	}

	return entry, nil
}
