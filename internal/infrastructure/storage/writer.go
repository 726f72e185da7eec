package storage

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	MagicHeader string = `WBPL` // 4 байта
	Version1    uint32 = 1
)

// Snapshot - сохраненные очереди планов всех сторон
type Snapshot struct {
	Timestamp   int64
	Turn        int
	CurrentSide int
	Sides       int
	Entries     []Entry
}

// Entry - одно действие очереди. Payload - JSON-запись действия.
type Entry struct {
	Side    int
	Kind    uint8
	Payload json.RawMessage
}

// PlanFileHeader - точное представление заголовка файла.
// binary.Write пишет его целиком: только массивы и числа.
type PlanFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Timestamp   int64   // 8 байт
	Turn        int32   // 4 байта
	CurrentSide int32   // 4 байта
	SideCount   int32   // 4 байта
	EntryCount  int32   // 4 байта
}

// EntryHeader - заголовок каждой записи.
type EntryHeader struct {
	Side       uint8  // 1
	Kind       uint8  // 1
	PayloadLen uint16 // 2
}

type PlanStore struct {
	SaveDir string
}

func NewPlanStore(dir string) (*PlanStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &PlanStore{SaveDir: dir}, nil
}

// Save пишет снимок в новый файл и возвращает его путь
func (s *PlanStore) Save(snap *Snapshot) (string, error) {
	filename := fmt.Sprintf("plans_turn%d_side%d_%d.wbpl", snap.Turn, snap.CurrentSide, snap.Timestamp)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeBinary(w, snap); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return path, nil
}

func writeBinary(w io.Writer, s *Snapshot) error {
	header := PlanFileHeader{
		Version:     Version1,
		Timestamp:   s.Timestamp,
		Turn:        int32(s.Turn),
		CurrentSide: int32(s.CurrentSide),
		SideCount:   int32(s.Sides),
		EntryCount:  int32(len(s.Entries)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, e := range s.Entries {
		if e.Side < 0 || e.Side > 255 {
			return fmt.Errorf("entry %d: side %d out of range", i, e.Side)
		}
		payloadLen := len(e.Payload)
		if payloadLen > 65535 {
			return fmt.Errorf("entry %d: payload too long: %d", i, payloadLen)
		}

		eh := EntryHeader{
			Side:       uint8(e.Side),
			Kind:       e.Kind,
			PayloadLen: uint16(payloadLen),
		}
		if err := binary.Write(w, binary.LittleEndian, &eh); err != nil {
			return err
		}
		if payloadLen > 0 {
			if _, err := w.Write(e.Payload); err != nil {
				return err
			}
		}
	}

	return nil
}
