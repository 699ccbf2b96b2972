package dashboard

import (
	"go.uber.org/zap"

	"actai-dashboard/internal/domain"
)

// fence tracks the requests issued for one task. latest is the generation
// allowed to commit, normally the newest one. When the newest request fails,
// latest falls back to the newest older request that may still have reached
// the server. inflight holds the requests that have not yet settled.
type fence struct {
	latest   uint64
	inflight map[uint64]struct{}
	// held is the newest older success that was superseded while a newer
	// request was still open. It is applied if every newer request fails.
	held *heldResult
}

type heldResult struct {
	gen   uint64
	apply func()
}

// Ticket identifies one request for a task. Only the ticket the task's fence
// currently allows, within the current epoch, may commit.
type Ticket struct {
	TaskID int64
	gen    uint64
	epoch  uint64
}

// BeginTaskUpdate marks the task as updating and returns the ticket for a new request.
func (s *Store) BeginTaskUpdate(taskID int64) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginLocked(taskID)
}

// TryBeginTaskUpdate is BeginTaskUpdate for callers that must not overlap a
// request already in flight for the task. It returns false when one is.
func (s *Store) TryBeginTaskUpdate(taskID int64) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fences[taskID]; ok && len(f.inflight) > 0 {
		return Ticket{}, false
	}
	return s.beginLocked(taskID), true
}

func (s *Store) beginLocked(taskID int64) Ticket {
	f, ok := s.fences[taskID]
	if !ok {
		f = &fence{inflight: make(map[uint64]struct{})}
		s.fences[taskID] = f
	}
	s.gen++
	f.latest = s.gen
	f.inflight[s.gen] = struct{}{}
	return Ticket{TaskID: taskID, gen: s.gen, epoch: s.epoch}
}

// CommitTaskStatus applies a confirmed status if the ticket still belongs to
// the newest request for its task. It reports whether the status was applied
// now; a false result means a later request superseded this one (its status
// is kept back and applied should every later request fail) or the store was
// reset while it was in flight.
func (s *Store) CommitTaskStatus(t Ticket, status domain.TaskStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(t, func() { s.applyTaskStatusLocked(t.TaskID, status) })
}

// CommitTask is CommitTaskStatus for a full task returned by the API.
func (s *Store) CommitTask(t Ticket, task domain.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(t, func() {
		s.updateTaskLocked(t.TaskID, func(cur domain.Task) domain.Task { return cur.Merge(task) })
	})
}

func (s *Store) commitLocked(t Ticket, apply func()) bool {
	if t.epoch != s.epoch {
		s.log.Debug("discarding response from previous session", zap.Int64("task_id", t.TaskID))
		return false
	}
	f, ok := s.fences[t.TaskID]
	if !ok {
		return false
	}
	delete(f.inflight, t.gen)
	switch {
	case t.gen == f.latest:
		apply()
		f.held = nil
		return true
	case t.gen > f.latest:
		// Unreachable: latest only moves back past generations that failed.
		return false
	}
	if _, open := f.inflight[f.latest]; !open {
		s.log.Debug("discarding stale response", zap.Int64("task_id", t.TaskID), zap.Uint64("generation", t.gen))
		return false
	}
	s.log.Debug("holding superseded response", zap.Int64("task_id", t.TaskID), zap.Uint64("generation", t.gen))
	if f.held == nil || t.gen > f.held.gen {
		f.held = &heldResult{gen: t.gen, apply: apply}
	}
	return false
}

// FailTaskUpdate records that the request behind t failed. When it was the
// newest request, the views fall back to the newest older request: a held
// success is applied at once, otherwise the newest older request still in
// flight becomes the one allowed to commit.
func (s *Store) FailTaskUpdate(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.epoch != s.epoch {
		return
	}
	f, ok := s.fences[t.TaskID]
	if !ok {
		return
	}
	delete(f.inflight, t.gen)
	if t.gen != f.latest {
		return
	}
	var open uint64
	for gen := range f.inflight {
		if gen < t.gen && gen > open {
			open = gen
		}
	}
	if f.held != nil && f.held.gen > open {
		s.log.Debug("applying held response after newer request failed",
			zap.Int64("task_id", t.TaskID), zap.Uint64("generation", f.held.gen))
		f.held.apply()
		f.latest = f.held.gen
		f.held = nil
		return
	}
	f.latest = open
}

// EndTaskUpdate releases the ticket. The task stops showing as updating once
// every request for it has settled.
func (s *Store) EndTaskUpdate(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.epoch != s.epoch {
		return
	}
	f, ok := s.fences[t.TaskID]
	if !ok {
		return
	}
	delete(f.inflight, t.gen)
	if len(f.inflight) == 0 {
		delete(s.fences, t.TaskID)
	}
}

// IsUpdating reports whether a request for the task has not yet settled.
func (s *Store) IsUpdating(taskID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fences[taskID]
	return ok && len(f.inflight) > 0
}
