package dashboard

import (
	"fmt"

	"actai-dashboard/internal/domain"
)

// SelectProject opens a project's milestone list and expands its first milestone.
func (s *Store) SelectProject(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.Project(id)
	if !ok {
		return fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	s.state.SelectedProject = &p
	s.state.SelectedMilestone = nil
	s.state.SelectedTask = nil
	s.state.ExpandedMilestone = 0
	if len(p.Milestones) > 0 {
		s.state.ExpandedMilestone = p.Milestones[0].ID
	}
	s.state.View = ViewMilestones
	return nil
}

// ToggleExpanded expands a milestone in the list, or collapses it when it is already expanded.
func (s *Store) ToggleExpanded(milestoneID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ExpandedMilestone == milestoneID {
		s.state.ExpandedMilestone = 0
		return
	}
	s.state.ExpandedMilestone = milestoneID
}

// OpenMilestone shows a milestone's detail view. Its project becomes the
// selected project if it was not already.
func (s *Store) OpenMilestone(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.milestoneLocked(id)
	if !ok {
		return fmt.Errorf("milestone %d: %w", id, domain.ErrNotFound)
	}
	p := s.state.Projects[s.projectPos[s.milestoneIndex[id]]]
	s.state.SelectedProject = &p
	s.state.SelectedMilestone = &m
	s.state.SelectedTask = nil
	s.state.View = ViewMilestone
	return nil
}

// OpenTask shows a task's detail view. When the task is part of the tree its
// milestone and project become the selection, so Back returns to them.
func (s *Store) OpenTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lookupTaskLocked(id)
	if !ok {
		return fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}
	if loc, ok := s.taskIndex[id]; ok {
		p := s.state.Projects[s.projectPos[loc.projectID]]
		s.state.SelectedProject = &p
		if m, ok := s.milestoneLocked(loc.milestoneID); ok {
			s.state.SelectedMilestone = &m
		}
	}
	s.state.SelectedTask = &t
	s.state.View = ViewTask
	return nil
}

// Back moves one level up: task -> milestone -> milestones -> projects.
func (s *Store) Back() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state.View {
	case ViewTask:
		s.state.SelectedTask = nil
		if s.state.SelectedMilestone != nil {
			s.state.View = ViewMilestone
		} else if s.state.SelectedProject != nil {
			s.state.View = ViewMilestones
		} else {
			s.state.View = ViewProjects
		}
	case ViewMilestone:
		s.state.SelectedMilestone = nil
		s.state.View = ViewMilestones
	case ViewMilestones:
		s.state.SelectedProject = nil
		s.state.ExpandedMilestone = 0
		s.state.View = ViewProjects
	}
	return s.state.View
}
