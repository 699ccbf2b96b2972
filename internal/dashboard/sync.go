package dashboard

import (
	"go.uber.org/zap"

	"actai-dashboard/internal/domain"
)

// ApplyTaskStatus sets the status of a task everywhere it appears: its
// milestone (whose completion flag is re-derived), its project (whose progress
// is recomputed), the selected project and milestone, the by-date views and
// the in-progress list. It reports whether the task was found in the project
// tree. A task missing from the tree is not an error: by-date views can
// reference tasks whose project has not been loaded yet, and those views are
// still updated.
func (s *Store) ApplyTaskStatus(taskID int64, status domain.TaskStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyTaskStatusLocked(taskID, status)
}

func (s *Store) applyTaskStatusLocked(taskID int64, status domain.TaskStatus) bool {
	return s.updateTaskLocked(taskID, func(t domain.Task) domain.Task { return t.WithStatus(status) })
}

// ReplaceTask folds a task returned by the API into every view that holds it.
func (s *Store) ReplaceTask(task domain.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateTaskLocked(task.ID, func(t domain.Task) domain.Task { return t.Merge(task) })
}

func (s *Store) updateTaskLocked(taskID int64, fn func(domain.Task) domain.Task) bool {
	found := false
	if loc, ok := s.taskIndex[taskID]; ok {
		p := s.state.Projects[s.projectPos[loc.projectID]]
		if next, ok := withTask(p, loc.milestoneID, taskID, fn); ok {
			s.putProjectLocked(next)
			found = true
		}
	}
	if !found {
		s.log.Debug("task not present in project tree", zap.Int64("task_id", taskID))
	}

	s.state.Buckets = s.state.Buckets.mapTask(taskID, fn)

	updated, ok := s.lookupTreeOrBucketsLocked(taskID)
	if !ok {
		listed, ok := findTask(s.state.InProgress, taskID)
		if !ok {
			// Unknown everywhere: leave every view untouched.
			return false
		}
		updated = fn(listed)
	}
	if updated.Status == domain.StatusInProgress {
		if _, listed := findTask(s.state.InProgress, taskID); listed {
			s.state.InProgress = mapTask(s.state.InProgress, taskID, func(domain.Task) domain.Task { return updated })
		} else {
			next := make([]domain.Task, len(s.state.InProgress), len(s.state.InProgress)+1)
			copy(next, s.state.InProgress)
			s.state.InProgress = append(next, updated)
		}
	} else {
		s.state.InProgress = withoutTask(s.state.InProgress, taskID)
	}

	if sel := s.state.SelectedTask; sel != nil && sel.ID == taskID {
		s.state.SelectedTask = &updated
	}
	return found
}

// withTask returns a copy of p in which the task has been transformed, the
// owning milestone's completion flag re-derived and progress recomputed.
func withTask(p domain.Project, milestoneID, taskID int64, fn func(domain.Task) domain.Task) (domain.Project, bool) {
	found := false
	ms := make([]domain.Milestone, len(p.Milestones))
	for i, m := range p.Milestones {
		if m.ID == milestoneID {
			if _, ok := findTask(m.Tasks, taskID); ok {
				m.Tasks = mapTask(m.Tasks, taskID, fn)
				m.Completed = domain.MilestoneCompleted(m)
				found = true
			}
		}
		ms[i] = m
	}
	if !found {
		return p, false
	}
	p.Milestones = ms
	p.ProgressPercentage = domain.Progress(p)
	return p, true
}

// ReplaceMilestone folds a milestone returned by the API into its project.
func (s *Store) ReplaceMilestone(m domain.Milestone) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateMilestoneLocked(m.ID, func(cur domain.Milestone) domain.Milestone { return cur.Merge(m) }, true)
}

// SetMilestoneCompleted overrides a milestone's completion flag without
// touching its tasks. The flag is re-derived by the next task update in that
// milestone.
func (s *Store) SetMilestoneCompleted(id int64, completed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateMilestoneLocked(id, func(cur domain.Milestone) domain.Milestone {
		cur.Completed = completed
		return cur
	}, false)
}

func (s *Store) updateMilestoneLocked(id int64, fn func(domain.Milestone) domain.Milestone, recompute bool) bool {
	pid, ok := s.milestoneIndex[id]
	if !ok {
		s.log.Debug("milestone not present in project tree", zap.Int64("milestone_id", id))
		return false
	}
	p := s.state.Projects[s.projectPos[pid]]
	ms := make([]domain.Milestone, len(p.Milestones))
	for i, m := range p.Milestones {
		if m.ID == id {
			m = fn(m)
		}
		ms[i] = m
	}
	p.Milestones = ms
	if recompute {
		p = p.Recompute()
	}
	s.putProjectLocked(p)
	return true
}

// ReplaceProject folds a project returned by the API into the list. When the
// response carries no milestones the cached tree is kept.
func (s *Store) ReplaceProject(p domain.Project) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.projectPos[p.ID]
	if !ok {
		return false
	}
	if p.Milestones == nil {
		p.Milestones = s.state.Projects[pos].Milestones
	}
	s.putProjectLocked(p.Recompute())
	return true
}
