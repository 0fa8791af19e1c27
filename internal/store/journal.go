package store

import (
	"context"
	"strings"

	"semihos/internal/core"
	"semihos/internal/log"
)

type DiaryInput struct {
	Title   string
	Content string
	Mood    core.Mood
}

// DiaryUpdate holds the fields to change; nil fields stay as they are.
type DiaryUpdate struct {
	Title   *string
	Content *string
	Mood    *core.Mood
}

// AddDiaryEntry records an entry dated today, newest first.
func (s *Store) AddDiaryEntry(ctx context.Context, in DiaryInput) (core.DiaryEntry, error) {
	if in.Mood == "" {
		in.Mood = core.MoodNeutral
	}
	entry := core.DiaryEntry{
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
		Mood:    in.Mood,
	}
	if err := entry.Validate(); err != nil {
		return core.DiaryEntry{}, err
	}
	err := s.mutation(ctx, EntityDiaryEntry, log.OpCreate, func() (core.ID, error) {
		entry.ID = s.nextIDLocked()
		entry.Date = s.today()
		entry.DateLabel = entry.Date.Label()
		s.diaryEntries = prepend(s.diaryEntries, entry)
		return entry.ID, nil
	}, KeyDiaryEntries)
	return entry, err
}

// UpdateDiaryEntry edits title, content or mood. The date never changes.
func (s *Store) UpdateDiaryEntry(ctx context.Context, id core.ID, up DiaryUpdate) (core.DiaryEntry, error) {
	var out core.DiaryEntry
	err := s.mutation(ctx, EntityDiaryEntry, log.OpUpdate, func() (core.ID, error) {
		i := indexOf(s.diaryEntries, id)
		if i < 0 {
			return 0, notFound(EntityDiaryEntry, id)
		}
		next := s.diaryEntries[i]
		if up.Title != nil {
			next.Title = strings.TrimSpace(*up.Title)
		}
		if up.Content != nil {
			next.Content = strings.TrimSpace(*up.Content)
		}
		if up.Mood != nil {
			next.Mood = *up.Mood
		}
		if err := next.Validate(); err != nil {
			return 0, err
		}
		s.diaryEntries[i] = next
		out = next
		return id, nil
	}, KeyDiaryEntries)
	return out, err
}

func (s *Store) RemoveDiaryEntry(ctx context.Context, id core.ID) error {
	return s.mutation(ctx, EntityDiaryEntry, log.OpDelete, func() (core.ID, error) {
		var ok bool
		if s.diaryEntries, ok = removeByID(s.diaryEntries, id); !ok {
			return 0, notFound(EntityDiaryEntry, id)
		}
		return id, nil
	}, KeyDiaryEntries)
}

type PlaceInput struct {
	Name     string
	Address  string
	Category core.PlaceCategory
}

func (s *Store) AddPlace(ctx context.Context, in PlaceInput) (core.Place, error) {
	if in.Category == "" {
		in.Category = core.PlaceFavorite
	}
	place := core.Place{
		Name:     strings.TrimSpace(in.Name),
		Address:  strings.TrimSpace(in.Address),
		Category: in.Category,
	}
	if err := place.Validate(); err != nil {
		return core.Place{}, err
	}
	err := s.mutation(ctx, EntityPlace, log.OpCreate, func() (core.ID, error) {
		place.ID = s.nextIDLocked()
		s.places = append(s.places, place)
		return place.ID, nil
	}, KeyPlaces)
	return place, err
}

func (s *Store) RemovePlace(ctx context.Context, id core.ID) error {
	return s.mutation(ctx, EntityPlace, log.OpDelete, func() (core.ID, error) {
		var ok bool
		if s.places, ok = removeByID(s.places, id); !ok {
			return 0, notFound(EntityPlace, id)
		}
		return id, nil
	}, KeyPlaces)
}
