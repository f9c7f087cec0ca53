package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
)

// Format names a tree serialization.
type Format string

const (
	FormatText Format = formatText
	FormatJSON Format = formatJSON
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "ftree", "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q (want ftree or json)", s)
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Marshal encodes root in the given format.
func Marshal(root *family.Node, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return MarshalText(root), nil
	case FormatJSON:
		return MarshalJSON(root)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", f)
}

// WriteText encodes root as .ftree text and writes it to w.
func WriteText(root *family.Node, w io.Writer) error {
	if _, err := w.Write(MarshalText(root)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// WriteJSON encodes root as JSON and writes it to w.
func WriteJSON(root *family.Node, w io.Writer) error {
	data, err := MarshalJSON(root)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Export writes root to path, choosing the format by extension.
func Export(root *family.Node, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(root, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
