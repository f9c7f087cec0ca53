package io

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
)

const formatJSON = "json"

type jsonNode struct {
	Name       *string     `json:"name"`
	PersonData personData  `json:"personData"`
	Spouse     *string     `json:"spouse"`
	Children   []*jsonNode `json:"children"`
}

type personData struct {
	Nickname       string `json:"nickname,omitempty"`
	BirthDate      string `json:"birthDate,omitempty"`
	DeathDate      string `json:"deathDate,omitempty"`
	Occupation     string `json:"occupation,omitempty"`
	Location       string `json:"location,omitempty"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func toJSON(n *family.Node) *jsonNode {
	name := n.Name
	out := &jsonNode{
		Name: &name,
		PersonData: personData{
			Nickname:       n.Person.Nickname,
			BirthDate:      n.Person.Birth,
			DeathDate:      n.Person.Death,
			Occupation:     n.Person.Occupation,
			Location:       n.Person.Location,
			Bio:            n.Person.Bio,
			ProfilePicture: n.Person.Picture,
		},
		Children: make([]*jsonNode, 0, len(n.Children)),
	}
	if n.Spouse != nil {
		s := n.Spouse.Name
		out.Spouse = &s
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toJSON(c))
	}
	return out
}

func fromJSON(j *jsonNode, path string) (*family.Node, error) {
	if j == nil {
		return nil, errors.Malformed(formatJSON, path, "node is null")
	}
	if j.Name == nil {
		return nil, errors.Malformed(formatJSON, path, "missing name")
	}
	p := j.PersonData
	n := family.New(*j.Name, family.WithPerson(family.Person{
		Nickname:   p.Nickname,
		Birth:      p.BirthDate,
		Death:      p.DeathDate,
		Occupation: p.Occupation,
		Location:   p.Location,
		Bio:        p.Bio,
		Picture:    p.ProfilePicture,
	}))
	if j.Spouse != nil {
		n.AddSpouse(*j.Spouse)
	}
	for i, c := range j.Children {
		child, err := fromJSON(c, childPath(path, i))
		if err != nil {
			return nil, err
		}
		child.Parent = n
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func childPath(parent string, i int) string {
	return parent + ".children[" + strconv.Itoa(i) + "]"
}

// MarshalJSON encodes the tree rooted at root as nested JSON objects:
//
//	{"name": "Ada", "personData": {...}, "spouse": "William", "children": [...]}
//
// spouse is null for a single parent. Like the text format, only the
// spouse's name is written.
func MarshalJSON(root *family.Node) ([]byte, error) {
	if root == nil {
		return []byte("null"), nil
	}
	return json.MarshalIndent(toJSON(root), "", "  ")
}

// UnmarshalJSON decodes a tree written by [MarshalJSON]. Unknown keys are
// ignored. Invalid JSON, a non-object root, or a node without a name yields
// a [*errors.MalformedInputError].
func UnmarshalJSON(data []byte) (*family.Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.Malformed(formatJSON, "", "empty input")
	}
	if trimmed[0] != '{' {
		return nil, errors.Malformed(formatJSON, excerpt(string(trimmed)), "root must be an object")
	}

	var root jsonNode
	if err := json.Unmarshal(trimmed, &root); err != nil {
		m := errors.Malformed(formatJSON, "", "invalid JSON")
		m.Cause = err
		return nil, m
	}
	return fromJSON(&root, "$")
}
