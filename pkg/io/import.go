package io

import (
	"fmt"
	"io"
	"os"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
)

// Unmarshal decodes data in the given format.
func Unmarshal(data []byte, f Format) (*family.Node, error) {
	switch f {
	case FormatText:
		return UnmarshalText(data)
	case FormatJSON:
		return UnmarshalJSON(data)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", f)
}

// ReadText decodes a .ftree document from r. ReadText does not close r.
func ReadText(r io.Reader) (*family.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return UnmarshalText(data)
}

// ReadJSON decodes a JSON tree from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*family.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return UnmarshalJSON(data)
}

// Import reads the tree at path, choosing the format by extension.
//
// A missing file is reported with [errors.ErrCodeFileNotFound]; decoding
// failures keep their [*errors.MalformedInputError] and gain the path as
// context.
func Import(path string) (*family.Node, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "tree file %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	root, err := Unmarshal(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}
