package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rickgao/crypto-etl/internal/model"
)

// ReadError reports a snapshot file that is missing or not valid JSON.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read snapshot %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Read loads one snapshot file. A missing payload key is not an error;
// the returned snapshot simply has no payload.
func Read(path string) (model.RawSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RawSnapshot{}, &ReadError{Path: path, Err: err}
	}

	var snap model.RawSnapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&snap); err != nil {
		return model.RawSnapshot{}, &ReadError{Path: path, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return model.RawSnapshot{}, &ReadError{Path: path, Err: errors.New("unexpected data after JSON value")}
	}
	return snap, nil
}

// ReadAll loads the snapshots at paths, preserving their order.
func ReadAll(paths []string) ([]model.RawSnapshot, error) {
	snaps := make([]model.RawSnapshot, 0, len(paths))
	for _, p := range paths {
		snap, err := Read(p)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// List returns the snapshot files in dir in lexical order.
func List(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}
