package sematree

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/go-mmap/mmap"
)

// Snapshot layout, little-endian, packed:
//
//	int32 processed_lines
//	int32 item_count
//	int32 dimension
//	per item: int32 text_byte_length, text bytes, dimension float64s

/*
WriteSnapshot saves a dataset to path in the binary snapshot format.
processedLines records how many input lines produced the dataset, so an
interrupted ingest can be resumed from the original corpus.
*/
func WriteSnapshot(path string, items []DataItem, processedLines int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	dim := 0
	if len(items) > 0 {
		dim = len(items[0].Vector)
	}

	writeInt32 := func(v int) error {
		return binary.Write(w, binary.LittleEndian, int32(v))
	}

	if err := writeInt32(processedLines); err != nil {
		return err
	}
	if err := writeInt32(len(items)); err != nil {
		return err
	}
	if err := writeInt32(dim); err != nil {
		return err
	}

	for i := range items {
		item := &items[i]
		if err := writeInt32(len(item.Text)); err != nil {
			return err
		}
		if _, err := w.WriteString(item.Text); err != nil {
			return err
		}
		for _, v := range item.Vector {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return file.Sync()
}

/*
ReadSnapshot loads a dataset written by WriteSnapshot. The file is
memory-mapped read-only and decoded in one pass; a truncated or inconsistent
file is an error, never a panic.
*/
func ReadSnapshot(path string) ([]DataItem, int, error) {
	file, err := mmap.OpenFile(path, mmap.Read)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	r := &snapshotReader{file: file}

	processedLines, err := r.int32()
	if err != nil {
		return nil, 0, err
	}
	itemCount, err := r.int32()
	if err != nil {
		return nil, 0, err
	}
	dim, err := r.int32()
	if err != nil {
		return nil, 0, err
	}
	if itemCount < 0 || dim < 0 {
		return nil, 0, fmt.Errorf("snapshot %s: negative item count or dimension", path)
	}

	items := make([]DataItem, 0, itemCount)
	for i := 0; i < int(itemCount); i++ {
		textLen, err := r.int32()
		if err != nil {
			return nil, 0, err
		}
		if textLen < 0 {
			return nil, 0, fmt.Errorf("snapshot %s: item %d has negative text length", path, i)
		}
		textBytes, err := r.bytes(int(textLen))
		if err != nil {
			return nil, 0, err
		}
		vector, err := r.float64s(int(dim))
		if err != nil {
			return nil, 0, err
		}
		items = append(items, DataItem{Text: string(textBytes), Vector: vector})
	}

	return items, int(processedLines), nil
}

// snapshotReader decodes the mapped snapshot sequentially.
type snapshotReader struct {
	file   *mmap.File
	offset int64
}

func (r *snapshotReader) bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if _, err := r.file.ReadAt(buf, r.offset); err != nil {
		return nil, fmt.Errorf("snapshot truncated at offset %d: %w", r.offset, err)
	}
	r.offset += int64(n)
	return buf, nil
}

func (r *snapshotReader) int32() (int32, error) {
	buf, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf)), nil
}

func (r *snapshotReader) float64s(n int) ([]float64, error) {
	buf, err := r.bytes(8 * n)
	if err != nil {
		return nil, err
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}
	return values, nil
}
