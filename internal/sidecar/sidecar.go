// Package sidecar is the reference tags.Sink: tag records stored as JSON
// sidecar files next to the media they describe. It exists so the
// pipeline runs end to end without owning any binary tag container;
// container-specific sinks satisfy the same interface.
package sidecar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sydlexius/tagmatch/internal/filesystem"
	"github.com/sydlexius/tagmatch/internal/tags"
)

// Extension is the sidecar file suffix.
const Extension = ".tags.json"

// Sink reads and writes JSON tag sidecars. The handle is the media file
// path; the sidecar lives alongside it.
type Sink struct{}

// New creates a sidecar sink.
func New() *Sink { return &Sink{} }

// Path returns the sidecar path for a media file handle.
func Path(handle string) string {
	ext := filepath.Ext(handle)
	if ext == "" || strings.HasSuffix(handle, Extension) {
		return handle
	}
	return strings.TrimSuffix(handle, ext) + Extension
}

// Read loads the tag record for handle. A missing sidecar yields an
// empty record, not an error.
func (s *Sink) Read(handle string) (*tags.Record, error) {
	data, err := os.ReadFile(Path(handle))
	if err != nil {
		if os.IsNotExist(err) {
			return tags.NewRecord(), nil
		}
		return nil, fmt.Errorf("reading sidecar: %w", err)
	}

	rec := tags.NewRecord()
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("parsing sidecar: %w", err)
	}
	if rec.Fields == nil {
		rec.Fields = make(map[tags.Field]string)
	}
	return rec, nil
}

// Write stores the tag record atomically, so readers never see a
// half-written sidecar.
func (s *Sink) Write(handle string, rec *tags.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sidecar: %w", err)
	}
	if err := filesystem.WriteFileAtomic(Path(handle), data, 0o644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}
	return nil
}
