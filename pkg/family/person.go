package family

// Field names a piece of optional person metadata. The string values double
// as the field keys of the .ftree text format.
type Field string

const (
	FieldNickname   Field = "nick"
	FieldBirth      Field = "birth"
	FieldDeath      Field = "death"
	FieldOccupation Field = "occ"
	FieldLocation   Field = "loc"
	FieldBio        Field = "bio"
	FieldPicture    Field = "pic"
)

// Fields lists every metadata field in canonical serialization order.
var Fields = []Field{
	FieldNickname,
	FieldBirth,
	FieldDeath,
	FieldOccupation,
	FieldLocation,
	FieldBio,
	FieldPicture,
}

// Valid reports whether f is a known metadata field.
func (f Field) Valid() bool {
	switch f {
	case FieldNickname, FieldBirth, FieldDeath, FieldOccupation, FieldLocation, FieldBio, FieldPicture:
		return true
	}
	return false
}

// Person holds optional metadata about the person a node represents.
// An empty string means the field is absent.
type Person struct {
	Nickname   string
	Birth      string
	Death      string
	Occupation string
	Location   string
	Bio        string
	Picture    string // profile image reference (URL or data URI)
}

// Get returns the value stored for f, or "" for unknown fields.
func (p Person) Get(f Field) string {
	switch f {
	case FieldNickname:
		return p.Nickname
	case FieldBirth:
		return p.Birth
	case FieldDeath:
		return p.Death
	case FieldOccupation:
		return p.Occupation
	case FieldLocation:
		return p.Location
	case FieldBio:
		return p.Bio
	case FieldPicture:
		return p.Picture
	}
	return ""
}

// Set stores v under f. Unknown fields are ignored.
func (p *Person) Set(f Field, v string) {
	switch f {
	case FieldNickname:
		p.Nickname = v
	case FieldBirth:
		p.Birth = v
	case FieldDeath:
		p.Death = v
	case FieldOccupation:
		p.Occupation = v
	case FieldLocation:
		p.Location = v
	case FieldBio:
		p.Bio = v
	case FieldPicture:
		p.Picture = v
	}
}

// IsZero reports whether no field is set.
func (p Person) IsZero() bool { return p == Person{} }

// Patch is a shallow update to a [Person]. A key mapped to a non-empty value
// overwrites the field, a key mapped to "" clears it, and fields whose key is
// missing are left alone.
type Patch map[Field]string

// Apply merges the patch into p.
func (pt Patch) Apply(p *Person) {
	for f, v := range pt {
		p.Set(f, v)
	}
}
