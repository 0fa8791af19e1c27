package store

import (
	"context"
	"strings"

	"semihos/internal/core"
	"semihos/internal/log"
)

// Entity names used in change events and logs.
const (
	EntityTask          = "task"
	EntityRecurringTask = "recurring_task"
	EntityDebt          = "debt"
	EntityWorkEntry     = "work_entry"
	EntityJobSettings   = "job_settings"
	EntityDiaryEntry    = "diary_entry"
	EntityPlace         = "place"
	EntityPerson        = "person"
	EntityPersonNote    = "person_note"
	EntityShoppingItem  = "shopping_item"
	EntityGoal          = "goal"
	EntityMilestone     = "milestone"
	EntitySubscription  = "subscription"
	EntityTransaction   = "transaction"
	EntityBudget        = "budget"
)

// AddTask puts a new open task at the top of the list. An empty priority
// means normal.
func (s *Store) AddTask(ctx context.Context, text string, priority core.Priority) (core.Task, error) {
	if priority == "" {
		priority = core.PriorityNormal
	}
	task := core.Task{Text: strings.TrimSpace(text), Priority: priority}
	if err := task.Validate(); err != nil {
		return core.Task{}, err
	}
	err := s.mutation(ctx, EntityTask, log.OpCreate, func() (core.ID, error) {
		task.ID = s.nextIDLocked()
		s.tasks = prepend(s.tasks, task)
		return task.ID, nil
	}, KeyTasks)
	return task, err
}

// ToggleTask flips the done flag.
func (s *Store) ToggleTask(ctx context.Context, id core.ID) (core.Task, error) {
	var task core.Task
	err := s.mutation(ctx, EntityTask, log.OpToggle, func() (core.ID, error) {
		i := indexOf(s.tasks, id)
		if i < 0 {
			return 0, notFound(EntityTask, id)
		}
		s.tasks[i].Done = !s.tasks[i].Done
		task = s.tasks[i]
		return id, nil
	}, KeyTasks)
	return task, err
}

func (s *Store) RemoveTask(ctx context.Context, id core.ID) error {
	return s.mutation(ctx, EntityTask, log.OpDelete, func() (core.ID, error) {
		var ok bool
		if s.tasks, ok = removeByID(s.tasks, id); !ok {
			return 0, notFound(EntityTask, id)
		}
		return id, nil
	}, KeyTasks)
}

// AddRecurringTask registers a weekly routine.
func (s *Store) AddRecurringTask(ctx context.Context, text string, day core.Weekday) (core.RecurringTask, error) {
	task := core.RecurringTask{Text: strings.TrimSpace(text), DayOfWeek: day}
	if err := task.Validate(); err != nil {
		return core.RecurringTask{}, err
	}
	err := s.mutation(ctx, EntityRecurringTask, log.OpCreate, func() (core.ID, error) {
		task.ID = s.nextIDLocked()
		s.recurringTasks = append(s.recurringTasks, task)
		return task.ID, nil
	}, KeyRecurringTasks)
	return task, err
}

func (s *Store) RemoveRecurringTask(ctx context.Context, id core.ID) error {
	return s.mutation(ctx, EntityRecurringTask, log.OpDelete, func() (core.ID, error) {
		var ok bool
		if s.recurringTasks, ok = removeByID(s.recurringTasks, id); !ok {
			return 0, notFound(EntityRecurringTask, id)
		}
		return id, nil
	}, KeyRecurringTasks)
}
