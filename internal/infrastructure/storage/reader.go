package storage

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrInvalidMagic       = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
)

func (s *PlanStore) Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(bufio.NewReader(f))
}

func readBinary(r io.Reader) (*Snapshot, error) {
	var header PlanFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, header.Version, Version1)
	}
	if header.EntryCount < 0 || header.SideCount < 0 {
		return nil, fmt.Errorf("corrupted header: %d entries, %d sides", header.EntryCount, header.SideCount)
	}

	snap := &Snapshot{
		Timestamp:   header.Timestamp,
		Turn:        int(header.Turn),
		CurrentSide: int(header.CurrentSide),
		Sides:       int(header.SideCount),
		Entries:     make([]Entry, header.EntryCount),
	}

	for i := range snap.Entries {
		var eh EntryHeader
		if err := binary.Read(r, binary.LittleEndian, &eh); err != nil {
			return nil, fmt.Errorf("entry %d header: %w", i, err)
		}

		e := Entry{Side: int(eh.Side), Kind: eh.Kind}
		if eh.PayloadLen > 0 {
			e.Payload = make([]byte, eh.PayloadLen)
			if _, err := io.ReadFull(r, e.Payload); err != nil {
				return nil, fmt.Errorf("entry %d payload: %w", i, err)
			}
		} else {
			e.Payload = json.RawMessage{}
		}
		snap.Entries[i] = e
	}

	return snap, nil
}
