package store

import (
	"context"
	"slices"
	"strings"

	"semihos/internal/core"
	"semihos/internal/log"
)

// PersonInput describes a contact. Birthday is optional; Note, when set,
// becomes the first note.
type PersonInput struct {
	Name     string
	Role     core.Role
	Birthday string
	Note     string
}

func (s *Store) AddPerson(ctx context.Context, in PersonInput) (core.Person, error) {
	if in.Role == "" {
		in.Role = core.RoleFriend
	}
	person := core.Person{Name: strings.TrimSpace(in.Name), Role: in.Role, Notes: []core.Note{}}
	if strings.TrimSpace(in.Birthday) != "" {
		b, err := core.ParseDate(in.Birthday)
		if err != nil {
			return core.Person{}, core.Invalid("birthday", err)
		}
		person.Birthday = b
	}
	if err := person.Validate(); err != nil {
		return core.Person{}, err
	}
	note := strings.TrimSpace(in.Note)

	err := s.mutation(ctx, EntityPerson, log.OpCreate, func() (core.ID, error) {
		person.ID = s.nextIDLocked()
		if note != "" {
			person.Notes = append(person.Notes, core.Note{ID: s.nextIDLocked(), Text: note, Date: s.today()})
		}
		s.people = append(s.people, person)
		return person.ID, nil
	}, KeyPeople)
	return clonePerson(person), err
}

func (s *Store) RemovePerson(ctx context.Context, id core.ID) error {
	return s.mutation(ctx, EntityPerson, log.OpDelete, func() (core.ID, error) {
		var ok bool
		if s.people, ok = removeByID(s.people, id); !ok {
			return 0, notFound(EntityPerson, id)
		}
		return id, nil
	}, KeyPeople)
}

// AddPersonNote appends a dated note to a contact.
func (s *Store) AddPersonNote(ctx context.Context, personID core.ID, text string) (core.Note, error) {
	note := core.Note{Text: strings.TrimSpace(text)}
	if note.Text == "" {
		return core.Note{}, core.Invalid("text", core.ErrEmptyText)
	}
	err := s.mutation(ctx, EntityPersonNote, log.OpCreate, func() (core.ID, error) {
		i := indexOf(s.people, personID)
		if i < 0 {
			return 0, notFound(EntityPerson, personID)
		}
		note.ID = s.nextIDLocked()
		note.Date = s.today()
		s.people[i].Notes = append(s.people[i].Notes, note)
		return note.ID, nil
	}, KeyPeople)
	return note, err
}

func (s *Store) RemovePersonNote(ctx context.Context, personID, noteID core.ID) error {
	return s.mutation(ctx, EntityPersonNote, log.OpDelete, func() (core.ID, error) {
		i := indexOf(s.people, personID)
		if i < 0 {
			return 0, notFound(EntityPerson, personID)
		}
		var ok bool
		if s.people[i].Notes, ok = removeByID(s.people[i].Notes, noteID); !ok {
			return 0, notFound(EntityPersonNote, noteID)
		}
		return noteID, nil
	}, KeyPeople)
}

func clonePerson(p core.Person) core.Person {
	p.Notes = slices.Clone(p.Notes)
	if p.Notes == nil {
		p.Notes = []core.Note{}
	}
	return p
}
