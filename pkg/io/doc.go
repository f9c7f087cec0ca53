// Package io reads and writes family trees.
//
// # Overview
//
// Two interchange formats are supported, both lossless for main nodes and
// both deliberately lossy for spouses, which keep only their name:
//
//   - .ftree: a compact delimited text format (see [MarshalText])
//   - .json: nested objects, the format the tree is persisted in
//
// # Text Format
//
//	tree  := node (":::" node)* "#"
//	node  := name (":" spouseName)? ("|" field "=" value)*
//	field := nick | birth | death | occ | loc | bio | pic
//
// Every node is closed by a '#' appended after its last descendant:
//
//	Ada:William|birth=1815:::Byron#:::Anne:::Carol###
//
// The format has no escaping. Names and values must not contain the
// delimiters; [errors.ValidatePersonName] and [errors.ValidateFieldValue]
// check this before a mutation reaches the tree.
//
// # JSON Format
//
//	{
//	  "name": "Ada",
//	  "personData": {"birthDate": "1815"},
//	  "spouse": "William",
//	  "children": [
//	    {"name": "Byron", "personData": {}, "spouse": null, "children": []}
//	  ]
//	}
//
// personData keys are nickname, birthDate, deathDate, occupation, location,
// bio, and profilePicture; empty values are omitted.
//
// # Import and Export
//
// [Import] and [Export] pick the format from the file extension. [ReadText],
// [ReadJSON], [WriteText], and [WriteJSON] work on streams.
//
// Decoding failures are reported as [*errors.MalformedInputError]:
//
//	root, err := io.Import("lovelace.ftree")
//	var bad *errors.MalformedInputError
//	if stderrors.As(err, &bad) {
//	    fmt.Println("bad token:", bad.Fragment)
//	}
//
// [errors.ValidatePersonName]: github.com/repeatyourselfpls/family-tree-v2/pkg/errors.ValidatePersonName
// [errors.ValidateFieldValue]: github.com/repeatyourselfpls/family-tree-v2/pkg/errors.ValidateFieldValue
// [*errors.MalformedInputError]: github.com/repeatyourselfpls/family-tree-v2/pkg/errors.MalformedInputError
package io
