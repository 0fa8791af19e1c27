// Package store owns every entity collection of the dashboard, applies
// mutations to them and persists the changed records.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"semihos/internal/core"
	"semihos/internal/log"
)

// Options configures a Store. Zero values fall back to the system clock,
// the local time zone and a discarding logger.
type Options struct {
	Clock     core.Clock
	Location  *time.Location
	Logger    *log.Logger
	Publisher Publisher
}

// Store is the single source of truth. All methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	kv        KV
	clock     core.Clock
	loc       *time.Location
	logger    *log.Logger
	audit     *log.StructuredLogger
	publisher Publisher

	lastID     core.ID
	dirty      map[string]struct{}
	readErrors []error

	availableFunds decimal.Decimal
	income         decimal.Decimal
	fixedCosts     decimal.Decimal
	tasks          []core.Task
	recurringTasks []core.RecurringTask
	jobSettings    core.JobSettings
	debts          []core.Debt
	workHours      []core.WorkEntry
	diaryEntries   []core.DiaryEntry
	places         []core.Place
	people         []core.Person
	shoppingList   []core.ShoppingItem
	goals          []core.Goal
	subscriptions  []core.Subscription
	transactions   []core.Transaction
}

// Open loads every record from kv. Unreadable records are replaced by their
// defaults and reported through ReadErrors; they never fail the open.
func Open(ctx context.Context, kv KV, opts Options) (*Store, error) {
	if kv == nil {
		return nil, errors.New("store: nil KV")
	}
	s := &Store{
		kv:        kv,
		clock:     opts.Clock,
		loc:       opts.Location,
		logger:    opts.Logger,
		publisher: opts.Publisher,
		dirty:     map[string]struct{}{},
	}
	if s.clock == nil {
		s.clock = core.SystemClock
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	s.logger = s.logger.WithComponent(log.ComponentStore)
	s.audit = log.NewStructuredLogger(s.logger)

	s.mu.Lock()
	s.loadLocked(ctx)
	s.mu.Unlock()
	return s, nil
}

// Reload discards in-memory state and reads every record again.
func (s *Store) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
}

// ReadErrors returns the PersistenceReadErrors of the last load.
func (s *Store) ReadErrors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.readErrors)
}

// Location is the time zone used for calendar days.
func (s *Store) Location() *time.Location { return s.loc }

func (s *Store) now() time.Time { return s.clock.Now().In(s.loc) }

// Now is the store clock's current time in the store's time zone.
func (s *Store) Now() time.Time { return s.now() }

func (s *Store) today() core.Date { return core.DateOf(s.now()) }

type record struct {
	key    string
	value  any
	reset  func()
	decode func([]byte) error
}

// field binds a key to its collection. decode unmarshals into a fresh value
// and assigns it only on success, so nothing of the default survives a load.
func field[T any](key string, dst *T, def func() T) record {
	return record{
		key:   key,
		value: dst,
		reset: func() { *dst = def() },
		decode: func(raw []byte) error {
			var fresh T
			if err := json.Unmarshal(raw, &fresh); err != nil {
				return err
			}
			*dst = fresh
			return nil
		},
	}
}

func constant[T any](v T) func() T { return func() T { return v } }

func empty[T any]() []T { return []T{} }

func (s *Store) records() []record {
	return []record{
		field(KeyAvailableFunds, &s.availableFunds, constant(defaultFunds)),
		field(KeyIncome, &s.income, constant(defaultIncome)),
		field(KeyFixedCosts, &s.fixedCosts, constant(defaultFixedCosts)),
		field(KeyTasks, &s.tasks, seedTasks),
		field(KeyRecurringTasks, &s.recurringTasks, empty[core.RecurringTask]),
		field(KeyJobSettings, &s.jobSettings, core.DefaultJobSettings),
		field(KeyDebts, &s.debts, seedDebts),
		field(KeyWorkHours, &s.workHours, empty[core.WorkEntry]),
		field(KeyDiaryEntries, &s.diaryEntries, empty[core.DiaryEntry]),
		field(KeyPlaces, &s.places, empty[core.Place]),
		field(KeyPeople, &s.people, empty[core.Person]),
		field(KeyShoppingList, &s.shoppingList, empty[core.ShoppingItem]),
		field(KeyGoals, &s.goals, empty[core.Goal]),
		field(KeySubscriptions, &s.subscriptions, seedSubscriptions),
		field(KeyTransactions, &s.transactions, seedTransactions),
	}
}

func (s *Store) loadLocked(ctx context.Context) {
	s.readErrors = nil
	s.dirty = map[string]struct{}{}
	for _, rec := range s.records() {
		rec.reset()
		raw, ok, err := s.kv.Load(ctx, rec.key)
		if err != nil {
			s.readFailedLocked(ctx, rec, err)
			continue
		}
		if !ok || strings.TrimSpace(raw) == "null" {
			continue
		}
		if err := rec.decode([]byte(raw)); err != nil {
			s.readFailedLocked(ctx, rec, err)
		}
	}
	s.normalizeLocked()
	s.lastID = s.maxIDLocked()
	s.logger.DebugContext(ctx, "Store loaded", log.FieldOperation, log.OpLoad, "read_errors", len(s.readErrors))
}

func (s *Store) readFailedLocked(ctx context.Context, rec record, err error) {
	rec.reset()
	perr := &PersistenceReadError{Key: rec.key, Err: err}
	s.readErrors = append(s.readErrors, perr)
	fields := log.NewFields().
		WithKey(rec.key).
		WithOperation(log.OpLoad).
		WithErrorType(log.ErrorTypePersistence).
		WithError(perr)
	s.logger.WarnContext(ctx, "Record unreadable, using default", fields.ToSlice()...)
}

// normalizeLocked replaces nil slices so every collection serialises as [].
func (s *Store) normalizeLocked() {
	if s.tasks == nil {
		s.tasks = []core.Task{}
	}
	if s.recurringTasks == nil {
		s.recurringTasks = []core.RecurringTask{}
	}
	if s.debts == nil {
		s.debts = []core.Debt{}
	}
	if s.workHours == nil {
		s.workHours = []core.WorkEntry{}
	}
	if s.diaryEntries == nil {
		s.diaryEntries = []core.DiaryEntry{}
	}
	if s.places == nil {
		s.places = []core.Place{}
	}
	if s.people == nil {
		s.people = []core.Person{}
	}
	for i := range s.people {
		if s.people[i].Notes == nil {
			s.people[i].Notes = []core.Note{}
		}
	}
	if s.shoppingList == nil {
		s.shoppingList = []core.ShoppingItem{}
	}
	if s.goals == nil {
		s.goals = []core.Goal{}
	}
	for i := range s.goals {
		if s.goals[i].Milestones == nil {
			s.goals[i].Milestones = []core.Milestone{}
		}
	}
	if s.subscriptions == nil {
		s.subscriptions = []core.Subscription{}
	}
	if s.transactions == nil {
		s.transactions = []core.Transaction{}
	}
}

func (s *Store) maxIDLocked() core.ID {
	var top core.ID
	bump := func(id core.ID) {
		if id > top {
			top = id
		}
	}
	for _, t := range s.tasks {
		bump(t.ID)
	}
	for _, t := range s.recurringTasks {
		bump(t.ID)
	}
	for _, d := range s.debts {
		bump(d.ID)
	}
	for _, w := range s.workHours {
		bump(w.ID)
	}
	for _, d := range s.diaryEntries {
		bump(d.ID)
	}
	for _, p := range s.places {
		bump(p.ID)
	}
	for _, p := range s.people {
		bump(p.ID)
		for _, n := range p.Notes {
			bump(n.ID)
		}
	}
	for _, it := range s.shoppingList {
		bump(it.ID)
	}
	for _, g := range s.goals {
		bump(g.ID)
		for _, m := range g.Milestones {
			bump(m.ID)
		}
	}
	for _, sub := range s.subscriptions {
		bump(sub.ID)
	}
	for _, tx := range s.transactions {
		bump(tx.ID)
	}
	return top
}

// nextIDLocked derives an id from the clock, bumped past the last one issued.
func (s *Store) nextIDLocked() core.ID {
	id := core.ID(s.clock.Now().UnixMilli())
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// persistLocked marks keys dirty and tries to save every dirty key. Keys that
// fail stay dirty and are retried by the next mutation.
func (s *Store) persistLocked(ctx context.Context, keys ...string) {
	for _, k := range keys {
		s.dirty[k] = struct{}{}
	}
	for _, rec := range s.records() {
		if _, ok := s.dirty[rec.key]; !ok {
			continue
		}
		b, err := json.Marshal(rec.value)
		if err != nil {
			s.logger.ErrorContext(ctx, "Encode record failed", log.FieldKey, rec.key, log.FieldError, err)
			continue
		}
		if err := s.kv.Save(ctx, rec.key, string(b)); err != nil {
			fields := log.NewFields().
				WithKey(rec.key).
				WithOperation(log.OpPersist).
				WithErrorType(log.ErrorTypePersistence).
				WithError(err)
			s.logger.WarnContext(ctx, "Persist failed, will retry", fields.ToSlice()...)
			continue
		}
		delete(s.dirty, rec.key)
	}
}

// Pending lists keys whose last save failed.
func (s *Store) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, k := range Keys {
		if _, ok := s.dirty[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Flush retries saving every pending key.
func (s *Store) Flush(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked(ctx)
}

// Export serialises every record the way it is persisted.
func (s *Store) Export() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(Keys))
	for _, rec := range s.records() {
		b, err := json.Marshal(rec.value)
		if err != nil {
			return nil, err
		}
		out[rec.key] = string(b)
	}
	return out, nil
}

// mutation runs fn under the lock, persists keys on success and publishes
// a change event once the lock is released.
func (s *Store) mutation(ctx context.Context, entity, op string, fn func() (core.ID, error), keys ...string) error {
	s.mu.Lock()
	id, err := fn()
	if err == nil {
		s.persistLocked(ctx, keys...)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.audit.LogMutation(ctx, entity, op, int64(id))
	if s.publisher != nil {
		ev := ChangeEvent{Entity: entity, Op: op, ID: id, Keys: keys, At: s.now()}
		if perr := s.publisher.PublishChange(ctx, ev); perr != nil {
			s.audit.LogError(ctx, "Publish change failed", perr, log.OpPublish, log.NewFields().WithEntity(entity, int64(id)))
		}
	}
	return nil
}

type identified interface{ Identity() core.ID }

func indexOf[T identified](items []T, id core.ID) int {
	return slices.IndexFunc(items, func(it T) bool { return it.Identity() == id })
}

func removeByID[T identified](items []T, id core.ID) ([]T, bool) {
	i := indexOf(items, id)
	if i < 0 {
		return items, false
	}
	return slices.Delete(items, i, i+1), true
}

func notFound(entity string, id core.ID) error {
	return fmt.Errorf("%s %d: %w", entity, id, core.ErrNotFound)
}

func prepend[T any](items []T, item T) []T {
	return append([]T{item}, items...)
}
