package types

// SubTaskRef is one entry in a record's ordered sub-task list. A linked entry
// points at another record by ID; an unlinked entry is a plain label carried
// in Name. After an unlink, Name caches the former child's title.
type SubTaskRef struct {
	Link bool   `json:"link" yaml:"link" toml:"link"`
	ID   string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
}

// Label returns the text to show for an entry: the resolved title when the
// entry is linked and the target is known, otherwise the stored name.
func (s SubTaskRef) Label(resolve func(id string) (Todo, bool)) string {
	if s.Link && resolve != nil {
		if child, ok := resolve(s.ID); ok {
			return child.Title
		}
	}
	return s.Name
}

// LabelRef returns an unlinked entry carrying name.
func LabelRef(name string) SubTaskRef {
	return SubTaskRef{Name: name}
}

// LinkRef returns an entry linked to the record with the given ID.
func LinkRef(id string) SubTaskRef {
	return SubTaskRef{Link: true, ID: id}
}
