package main

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

const exportStateVersion = 1

var (
	stateMarshalIndent = json.MarshalIndent
	stateWriteFile     = os.WriteFile
	stateReadFile      = os.ReadFile
	stateUnmarshal     = json.Unmarshal
)

// ExportState is the portable snapshot of the local database: the layout
// preference plus every reaction mark, so a reinstall can carry the marks
// over before the server lists are fetched again.
type ExportState struct {
	Version    int            `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	Layout     LayoutMode     `json:"layout"`
	Marks      []ReactionMark `json:"marks"`
}

func (s *Store) ExportState(path string) error {
	if path == "" {
		return errors.New("missing export path")
	}
	marks, err := s.Marks()
	if err != nil {
		return err
	}
	state := ExportState{
		Version:    exportStateVersion,
		ExportedAt: time.Now().UTC(),
		Layout:     s.Layout(),
		Marks:      marks,
	}
	blob, err := stateMarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return stateWriteFile(path, blob, 0o600)
}

func (s *Store) ImportState(path string) error {
	if path == "" {
		return errors.New("missing import path")
	}
	blob, err := stateReadFile(path)
	if err != nil {
		return err
	}
	var state ExportState
	if err := stateUnmarshal(blob, &state); err != nil {
		return err
	}
	if state.Version != exportStateVersion {
		return errors.New("unsupported export version")
	}
	if state.Layout == LayoutSwiper || state.Layout == LayoutCatalog {
		if err := s.SetLayout(state.Layout); err != nil {
			return err
		}
	}
	return s.ImportMarks(state.Marks)
}
