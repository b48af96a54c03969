package model

import "sort"

// Member is one entry of the person directory.
type Member struct {
	ID   string
	Name string
}

// Directory maps person identifiers to display names. Member order is
// fixed at construction (sorted by id) so that ranking tie-breaks are
// stable across runs regardless of snapshot encoding.
type Directory struct {
	members []Member
	byID    map[string]string
}

// NewDirectory builds a directory from an id -> display-name mapping.
func NewDirectory(names map[string]string) Directory {
	ids := make([]string, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	d := Directory{
		members: make([]Member, 0, len(ids)),
		byID:    make(map[string]string, len(ids)),
	}
	for _, id := range ids {
		d.members = append(d.members, Member{ID: id, Name: names[id]})
		d.byID[id] = names[id]
	}
	return d
}

// Members returns the directory entries in stable order.
func (d Directory) Members() []Member { return d.members }

// Name returns the display name for id.
func (d Directory) Name(id string) (string, bool) {
	name, ok := d.byID[id]
	return name, ok
}

// Has reports whether id is a known person.
func (d Directory) Has(id string) bool {
	_, ok := d.byID[id]
	return ok
}

// Len returns the number of members.
func (d Directory) Len() int { return len(d.members) }
