package hcodec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
)

// snappyMagic is the stream identifier chunk
// that begins every snappy framed stream.
const snappyMagic = "\xff\x06\x00\x00sNaPpY"

// Write encodes v as indented JSON to w.
// If compress is set, the JSON is written in the snappy framing format.
func Write(w io.Writer, v any, compress bool) error {
	if !compress {
		return writeJSON(w, v)
	}

	sw := snappy.NewBufferedWriter(w)
	if err := writeJSON(sw, v); err != nil {
		_ = sw.Close()
		return err
	}
	if err := sw.Close(); err != nil {
		return fmt.Errorf("failed to flush snappy stream: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return nil
}

// Read decodes a JSON record from r into v,
// transparently decompressing a snappy framed stream.
// Unknown fields are rejected.
func Read(r io.Reader, v any) error {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if head, err := br.Peek(len(snappyMagic)); err == nil && bytes.Equal(head, []byte(snappyMagic)) {
		src = snappy.NewReader(br)
	}

	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}

// WriteFile writes v to the named file, replacing any existing content.
func WriteFile(path string, v any, compress bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return Write(f, v, compress)
}

// ReadFile reads the record in the named file into v.
func ReadFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := Read(f, v); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
