package dashboard

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"actai-dashboard/internal/domain"
)

// Store is the single owner of the dashboard state. All reducers take the
// write lock and replace the state wholesale.
type Store struct {
	mu    sync.RWMutex
	log   *zap.Logger
	state State

	// task id -> owner, milestone id -> project id, project id -> position.
	taskIndex      map[int64]location
	milestoneIndex map[int64]int64
	projectPos     map[int64]int

	epoch  uint64
	fences map[int64]*fence
	// gen numbers requests across all tasks so a ticket never matches a
	// fence created after its own was released.
	gen uint64
}

type location struct {
	projectID   int64
	milestoneID int64
}

// New returns an empty store showing the projects view.
func New(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{log: log}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.state = State{View: ViewProjects}
	s.taskIndex = make(map[int64]location)
	s.milestoneIndex = make(map[int64]int64)
	s.projectPos = make(map[int64]int)
	s.fences = make(map[int64]*fence)
	s.epoch++
}

// Reset drops all state and starts a new epoch. Responses to requests begun
// before the reset are discarded when they arrive.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Snapshot returns the current state. Callers must not modify the slices it contains.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Updating = make([]int64, 0, len(s.fences))
	for id, f := range s.fences {
		if len(f.inflight) > 0 {
			st.Updating = append(st.Updating, id)
		}
	}
	sort.Slice(st.Updating, func(i, j int) bool { return st.Updating[i] < st.Updating[j] })
	return st
}

// Load installs a complete dashboard as fetched from the API.
func (s *Store) Load(projects []domain.Project, buckets Buckets, inProgress []domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setProjectsLocked(projects)
	s.state.Buckets = buckets
	s.state.InProgress = inProgress
}

// SetProjects replaces the project list. Derived values are recomputed and the
// current selection is re-pointed at the new values, or cleared when its
// project no longer exists.
func (s *Store) SetProjects(projects []domain.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setProjectsLocked(projects)
}

func (s *Store) setProjectsLocked(projects []domain.Project) {
	next := make([]domain.Project, len(projects))
	for i, p := range projects {
		next[i] = p.Recompute()
	}
	s.state.Projects = next
	s.reindexLocked()

	if sel := s.state.SelectedProject; sel != nil {
		p, ok := s.state.Project(sel.ID)
		if !ok {
			s.state.SelectedProject = nil
			s.state.SelectedMilestone = nil
			s.state.SelectedTask = nil
			s.state.View = ViewProjects
			return
		}
		s.state.SelectedProject = &p
	}
	if sel := s.state.SelectedMilestone; sel != nil {
		if m, ok := s.milestoneLocked(sel.ID); ok {
			s.state.SelectedMilestone = &m
		} else {
			s.state.SelectedMilestone = nil
		}
	}
	if sel := s.state.SelectedTask; sel != nil {
		if t, ok := s.lookupTaskLocked(sel.ID); ok {
			s.state.SelectedTask = &t
		}
	}
}

// SetBuckets replaces the by-date views.
func (s *Store) SetBuckets(b Buckets) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Buckets = b
}

// SetInProgress replaces the in-progress list.
func (s *Store) SetInProgress(tasks []domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.InProgress = tasks
}

// SetError sets the inline error banner.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = msg
}

// ClearError removes the inline error banner.
func (s *Store) ClearError() { s.SetError("") }

// TaskStatus returns the status the dashboard currently shows for a task,
// looking at the tree first, then the by-date views, then the in-progress list.
func (s *Store) TaskStatus(taskID int64) (domain.TaskStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.lookupTaskLocked(taskID)
	if !ok {
		return domain.StatusPending, false
	}
	return domain.ParseTaskStatus(string(t.Status)), true
}

// Milestone returns the milestone with the given id from the tree.
func (s *Store) Milestone(id int64) (domain.Milestone, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.milestoneLocked(id)
}

func (s *Store) milestoneLocked(id int64) (domain.Milestone, bool) {
	pid, ok := s.milestoneIndex[id]
	if !ok {
		return domain.Milestone{}, false
	}
	p := s.state.Projects[s.projectPos[pid]]
	for _, m := range p.Milestones {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Milestone{}, false
}

func (s *Store) lookupTaskLocked(taskID int64) (domain.Task, bool) {
	if t, ok := s.lookupTreeOrBucketsLocked(taskID); ok {
		return t, true
	}
	return findTask(s.state.InProgress, taskID)
}

func (s *Store) lookupTreeOrBucketsLocked(taskID int64) (domain.Task, bool) {
	if loc, ok := s.taskIndex[taskID]; ok {
		p := s.state.Projects[s.projectPos[loc.projectID]]
		if t, _, ok := p.FindTask(taskID); ok {
			return t, true
		}
	}
	return s.state.Buckets.find(taskID)
}

// reindexLocked rebuilds every index from the project list.
func (s *Store) reindexLocked() {
	s.taskIndex = make(map[int64]location)
	s.milestoneIndex = make(map[int64]int64)
	s.projectPos = make(map[int64]int, len(s.state.Projects))
	for i, p := range s.state.Projects {
		s.projectPos[p.ID] = i
		s.indexProjectLocked(p)
	}
}

func (s *Store) indexProjectLocked(p domain.Project) {
	for _, m := range p.Milestones {
		s.milestoneIndex[m.ID] = p.ID
		for _, t := range m.Tasks {
			s.taskIndex[t.ID] = location{projectID: p.ID, milestoneID: m.ID}
		}
	}
}

func (s *Store) unindexProjectLocked(p domain.Project) {
	for _, m := range p.Milestones {
		if s.milestoneIndex[m.ID] == p.ID {
			delete(s.milestoneIndex, m.ID)
		}
		for _, t := range m.Tasks {
			if s.taskIndex[t.ID].projectID == p.ID {
				delete(s.taskIndex, t.ID)
			}
		}
	}
}

// putProjectLocked replaces an existing project by id and re-points the
// selected project and milestone when they belong to it.
func (s *Store) putProjectLocked(p domain.Project) {
	pos, ok := s.projectPos[p.ID]
	if !ok {
		return
	}
	old := s.state.Projects[pos]
	next := make([]domain.Project, len(s.state.Projects))
	copy(next, s.state.Projects)
	next[pos] = p
	s.state.Projects = next

	s.unindexProjectLocked(old)
	s.indexProjectLocked(p)

	if sel := s.state.SelectedProject; sel != nil && sel.ID == p.ID {
		s.state.SelectedProject = &p
	}
	if sel := s.state.SelectedMilestone; sel != nil {
		for _, m := range p.Milestones {
			if m.ID == sel.ID {
				s.state.SelectedMilestone = &m
				break
			}
		}
	}
}
