package persist

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// maxStringLen guards against allocating absurd buffers for a corrupt length prefix.
const maxStringLen = 1 << 20

// Record is one persisted (name, value) pair.
type Record struct {
	Name  string
	Value string
}

// Encode writes records in the store format.
func Encode(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(records))); err != nil {
		return err
	}
	for _, r := range records {
		if err := writeString(bw, r.Name); err != nil {
			return err
		}
		if err := writeString(bw, r.Value); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads records in the store format. On a truncated or corrupt stream
// it returns the records read so far together with the error.
func Decode(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	var count int32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read record count: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("negative record count %d", count)
	}

	var records []Record
	for i := int32(0); i < count; i++ {
		name, err := readString(br)
		if err != nil {
			return records, fmt.Errorf("read name of record %d: %w", i, err)
		}
		value, err := readString(br)
		if err != nil {
			return records, fmt.Errorf("read value of record %d (%s): %w", i, name, err)
		}
		records = append(records, Record{Name: name, Value: value})
	}
	return records, nil
}

func writeString(w *bufio.Writer, s string) error {
	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(s)))
	if _, err := w.Write(prefix[:n]); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func readString(r *bufio.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", errors.New("string length prefix out of range")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
