package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rickgao/crypto-etl/internal/model"
)

// New builds a snapshot envelope around payload.
func New(extractedAt, sourceID, currency, provenance string, payload any) (model.RawSnapshot, error) {
	data, err := encode(payload)
	if err != nil {
		return model.RawSnapshot{}, fmt.Errorf("encode payload for %s: %w", sourceID, err)
	}
	return model.RawSnapshot{
		ExtractedAt: extractedAt,
		SourceID:    sourceID,
		Currency:    currency,
		Provenance:  provenance,
		Payload:     data,
	}, nil
}

// FileName returns the file name a snapshot is stored under.
func FileName(snap model.RawSnapshot) string {
	return fmt.Sprintf("%s_%s.json", snap.SourceID, snap.ExtractedAt)
}

// Write stores snap as indented JSON under dir, creating dir if needed.
// Returns the path written.
func Write(snap model.RawSnapshot, dir string) (string, error) {
	if snap.SourceID == "" {
		return "", errors.New("snapshot has no source id")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create raw dir: %w", err)
	}

	if !snap.HasPayload() {
		snap.Payload = json.RawMessage("null")
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot %s: %w", snap.SourceID, err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, FileName(snap))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// encode marshals payload without HTML escaping so symbols and names are
// stored as the upstream sent them.
func encode(payload any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
