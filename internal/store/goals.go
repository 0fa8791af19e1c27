package store

import (
	"context"
	"slices"
	"strings"

	"semihos/internal/core"
	"semihos/internal/log"
)

// GoalInput describes a goal. Deadline is optional; blank milestone texts
// are dropped.
type GoalInput struct {
	Title      string
	Category   core.GoalCategory
	Deadline   string
	Milestones []string
}

func (s *Store) AddGoal(ctx context.Context, in GoalInput) (core.Goal, error) {
	if in.Category == "" {
		in.Category = core.GoalFinance
	}
	goal := core.Goal{Title: strings.TrimSpace(in.Title), Category: in.Category, Milestones: []core.Milestone{}}
	if strings.TrimSpace(in.Deadline) != "" {
		d, err := core.ParseDate(in.Deadline)
		if err != nil {
			return core.Goal{}, core.Invalid("deadline", err)
		}
		goal.Deadline = d
	}
	if err := goal.Validate(); err != nil {
		return core.Goal{}, err
	}
	var texts []string
	for _, m := range in.Milestones {
		if t := strings.TrimSpace(m); t != "" {
			texts = append(texts, t)
		}
	}

	err := s.mutation(ctx, EntityGoal, log.OpCreate, func() (core.ID, error) {
		goal.ID = s.nextIDLocked()
		for _, t := range texts {
			goal.Milestones = append(goal.Milestones, core.Milestone{ID: s.nextIDLocked(), Text: t})
		}
		s.goals = append(s.goals, goal)
		return goal.ID, nil
	}, KeyGoals)
	return cloneGoal(goal), err
}

func (s *Store) RemoveGoal(ctx context.Context, id core.ID) error {
	return s.mutation(ctx, EntityGoal, log.OpDelete, func() (core.ID, error) {
		var ok bool
		if s.goals, ok = removeByID(s.goals, id); !ok {
			return 0, notFound(EntityGoal, id)
		}
		return id, nil
	}, KeyGoals)
}

func (s *Store) AddMilestone(ctx context.Context, goalID core.ID, text string) (core.Milestone, error) {
	ms := core.Milestone{Text: strings.TrimSpace(text)}
	if ms.Text == "" {
		return core.Milestone{}, core.Invalid("text", core.ErrEmptyText)
	}
	err := s.mutation(ctx, EntityMilestone, log.OpCreate, func() (core.ID, error) {
		i := indexOf(s.goals, goalID)
		if i < 0 {
			return 0, notFound(EntityGoal, goalID)
		}
		ms.ID = s.nextIDLocked()
		s.goals[i].Milestones = append(s.goals[i].Milestones, ms)
		return ms.ID, nil
	}, KeyGoals)
	return ms, err
}

func (s *Store) ToggleMilestone(ctx context.Context, goalID, milestoneID core.ID) (core.Milestone, error) {
	var ms core.Milestone
	err := s.mutation(ctx, EntityMilestone, log.OpToggle, func() (core.ID, error) {
		i := indexOf(s.goals, goalID)
		if i < 0 {
			return 0, notFound(EntityGoal, goalID)
		}
		j := indexOf(s.goals[i].Milestones, milestoneID)
		if j < 0 {
			return 0, notFound(EntityMilestone, milestoneID)
		}
		s.goals[i].Milestones[j].Completed = !s.goals[i].Milestones[j].Completed
		ms = s.goals[i].Milestones[j]
		return milestoneID, nil
	}, KeyGoals)
	return ms, err
}

func (s *Store) RemoveMilestone(ctx context.Context, goalID, milestoneID core.ID) error {
	return s.mutation(ctx, EntityMilestone, log.OpDelete, func() (core.ID, error) {
		i := indexOf(s.goals, goalID)
		if i < 0 {
			return 0, notFound(EntityGoal, goalID)
		}
		var ok bool
		if s.goals[i].Milestones, ok = removeByID(s.goals[i].Milestones, milestoneID); !ok {
			return 0, notFound(EntityMilestone, milestoneID)
		}
		return milestoneID, nil
	}, KeyGoals)
}

func cloneGoal(g core.Goal) core.Goal {
	g.Milestones = slices.Clone(g.Milestones)
	if g.Milestones == nil {
		g.Milestones = []core.Milestone{}
	}
	return g
}
