package dialog

import (
	"log"
	"sync"
	"time"

	"github.com/ruslanshgd/izi-portfolio-bot/portfolio"
	"github.com/ruslanshgd/izi-portfolio-bot/store"
)

// Session accumulates one user's answers until finalization. The engine is
// its sole mutator; collaborators only ever see snapshots.
type Session struct {
	mu sync.Mutex

	GitHubToken    string
	GitHubUsername string
	RepoName       string

	// Single-value profile answers keyed by field name.
	Profile map[string]string

	CareerItems  []portfolio.CareerItem
	Universities []portfolio.University
	Courses      []portfolio.Course

	PhotoBytes []byte

	Step Step

	// Scratch records being assembled step by step. Each is appended to
	// its collection and cleared atomically on the sub-record's last step.
	PendingCareer     portfolio.CareerItem
	PendingUniversity portfolio.University
	PendingCourse     portfolio.Course

	UpdateMode  bool
	UpdateField string
	// First half of the compound name+surname update.
	PendingName string

	lastSeen time.Time
}

func newSession() *Session {
	return &Session{
		Profile: make(map[string]string),
		Step:    StepGitHubUsername,
	}
}

// resetCollected drops everything gathered during the initial flow while
// keeping token, username and repo name, so /update works without
// re-authentication. Called after a successful publish.
func (s *Session) resetCollected() {
	s.Profile = make(map[string]string)
	s.CareerItems = nil
	s.Universities = nil
	s.Courses = nil
	s.PhotoBytes = nil
	s.PendingCareer = portfolio.CareerItem{}
	s.PendingUniversity = portfolio.University{}
	s.PendingCourse = portfolio.Course{}
	s.UpdateMode = false
	s.UpdateField = ""
	s.PendingName = ""
	s.Step = StepGitHubUsername
}

// Sessions owns every live Session, keyed by chat user ID. Access to the
// map is guarded separately from the per-session lock the engine takes
// for the duration of one message, so different users never contend.
type Sessions struct {
	mu        sync.RWMutex
	m         map[int64]*Session
	repoStore store.RepoStore
	idleTTL   time.Duration
	stopOnce  sync.Once
	stop      chan struct{}
}

// NewSessions creates the session registry. idleTTL of zero disables
// eviction; sessions then live for the process lifetime, matching the
// original behavior.
func NewSessions(repoStore store.RepoStore, idleTTL time.Duration) *Sessions {
	return &Sessions{
		m:         make(map[int64]*Session),
		repoStore: repoStore,
		idleTTL:   idleTTL,
		stop:      make(chan struct{}),
	}
}

// Get returns the session for a user, creating it on first contact. A new
// session is seeded with the persisted repo record, if any, so returning
// users can go straight to /update.
func (s *Sessions) Get(userID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[userID]
	if !ok {
		sess = newSession()
		if info, found, err := s.repoStore.Get(userID); err != nil {
			log.Printf("[Sessions] Failed to read repo record for %d: %v", userID, err)
		} else if found {
			sess.GitHubUsername = info.GitHubUsername
			sess.RepoName = info.RepoName
			log.Printf("[Sessions] Restored repo info for %d: %s/%s",
				userID, info.GitHubUsername, info.RepoName)
		}
		s.m[userID] = sess
	}
	sess.lastSeen = time.Now()
	return sess
}

// StartEvictor launches the idle-session janitor. No-op when eviction is
// disabled. Stop it via StopEvictor on shutdown.
func (s *Sessions) StartEvictor(interval time.Duration) {
	if s.idleTTL <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.evictIdle()
			case <-s.stop:
				return
			}
		}
	}()
}

// StopEvictor terminates the janitor goroutine.
func (s *Sessions) StopEvictor() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Sessions) evictIdle() {
	cutoff := time.Now().Add(-s.idleTTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.m {
		if sess.lastSeen.Before(cutoff) {
			delete(s.m, id)
			log.Printf("[Sessions] Evicted idle session for %d", id)
		}
	}
}
