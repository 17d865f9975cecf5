package app

import (
	"fmt"
	"sync"
	"time"

	"live-mcq-service/internal/domain"
)

// eventBuffer bounds the per-connection outbox; sends past it drop the
// oldest pending event so a slow reader never blocks the session.
const eventBuffer = 16

// Options tune the optional session behaviors.
type Options struct {
	// MaxParticipants caps admissions; zero means unbounded.
	MaxParticipants int
	// PreserveScores keeps cumulative scores across admin restarts.
	PreserveScores bool
	// RoundDeadline force-advances a round that stays open this long;
	// zero lets a round wait indefinitely on silent players.
	RoundDeadline time.Duration
}

// Session coordinates one live quiz: it admits connections, assigns the
// single admin seat, tracks answer completion per round, and fans state
// out to every participant. All mutation is serialized on one mutex so
// completion checks never race with admissions or removals.
type Session struct {
	opts Options

	mu           sync.Mutex
	phase        domain.Phase
	questions    []domain.Question
	current      int // index into questions, -1 before the first start
	round        int // serial guarding deadline timers across advances
	deadline     *time.Timer
	nextID       int
	adminID      int // 0 when the admin seat is vacant
	participants map[int]*participant
	order        []int // admission order
	finalScores  []domain.ScoreEntry // scoreboard snapshot taken at finish
}

type participant struct {
	id       int
	name     string
	role     domain.Role
	score    int
	answered bool
	events   chan domain.Event
}

// Participant is the transport-facing handle for an admitted connection.
// The identity is stable and decoupled from the underlying socket.
type Participant struct {
	ID          int
	DisplayName string
	Role        domain.Role
	events      <-chan domain.Event
}

// Events delivers session state to this connection. The channel closes
// when the participant is removed or the session shuts down.
func (p *Participant) Events() <-chan domain.Event { return p.events }

// NewSession builds a session in the lobby phase seeded with questions.
func NewSession(questions []domain.Question, opts Options) *Session {
	return &Session{
		opts:         opts,
		phase:        domain.PhaseLobby,
		questions:    questions,
		current:      -1,
		participants: make(map[int]*participant),
	}
}

// Admit registers a connection, allocating the next identity and the
// admin seat if it is vacant. The role assignment is unicast before any
// other traffic; a mid-round joiner also receives the current question
// and a post-game joiner the final scoreboard.
func (s *Session) Admit() (*Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.MaxParticipants > 0 && len(s.participants) >= s.opts.MaxParticipants {
		return nil, domain.ErrCapacityExceeded
	}

	s.nextID++
	p := &participant{
		id:     s.nextID,
		name:   fmt.Sprintf("User%d", s.nextID),
		role:   domain.RolePlayer,
		events: make(chan domain.Event, eventBuffer),
	}
	if s.adminID == 0 {
		p.role = domain.RoleAdmin
		s.adminID = p.id
	}
	s.participants[p.id] = p
	s.order = append(s.order, p.id)

	s.sendLocked(p, domain.RoleAssigned{Role: p.role, DisplayName: p.name})
	switch s.phase {
	case domain.PhaseInProgress:
		s.sendLocked(p, s.currentQuestionLocked())
	case domain.PhaseFinished:
		// The snapshot from finish time, not the live set: the newcomer
		// was not part of the finished game.
		s.sendLocked(p, domain.ScoresFinalized{Scores: s.finalScores})
	}

	return &Participant{ID: p.id, DisplayName: p.name, Role: p.role, events: p.events}, nil
}

// Remove deregisters a connection. It is idempotent, vacates the admin
// seat when the admin leaves, and re-evaluates round completion since a
// departure can retroactively satisfy it.
func (s *Session) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[id]
	if !ok {
		return
	}
	delete(s.participants, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.adminID == id {
		s.adminID = 0
	}
	close(p.events)

	if s.phase == domain.PhaseInProgress && s.roundCompleteLocked() {
		s.advanceLocked()
	}
}

// Start begins (or restarts) the question progression. Only the admin
// seat holder may call it, and only outside an active run.
func (s *Session) Start(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.adminID {
		return domain.ErrNotAdmin
	}
	if s.phase == domain.PhaseInProgress {
		return domain.ErrSessionRunning
	}
	if len(s.questions) == 0 {
		return domain.ErrNoQuestions
	}

	s.phase = domain.PhaseInProgress
	s.current = 0
	s.finalScores = nil
	for _, p := range s.participants {
		p.answered = false
		if !s.opts.PreserveScores {
			p.score = 0
		}
	}
	s.beginRoundLocked()
	return nil
}

// SubmitAnswer scores a player's first answer to the current question.
// Stale, repeated, malformed, and admin submissions are rejected with a
// sentinel error and change no state.
func (s *Session) SubmitAnswer(id int, questionID string, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[id]
	if !ok {
		return domain.ErrParticipantGone
	}
	if s.phase != domain.PhaseInProgress {
		return domain.ErrSessionNotStarted
	}
	if p.role == domain.RoleAdmin {
		return domain.ErrAdminDoesNotPlay
	}

	current := s.questions[s.current]
	if questionID != current.ID {
		if s.questionKnownLocked(questionID) {
			return domain.ErrStaleAnswer
		}
		return domain.ErrQuestionNotFound
	}
	if option < 0 || option >= len(current.Options) {
		return domain.ErrOptionOutOfRange
	}
	if p.answered {
		return domain.ErrAlreadyAnswered
	}

	correct := option == current.CorrectOption
	if correct {
		p.score++
	}
	p.answered = true
	s.sendLocked(p, domain.AnswerScored{Correct: correct})

	if s.roundCompleteLocked() {
		s.advanceLocked()
	}
	return nil
}

// AppendQuestion makes an authored question visible to the progression
// without a restart. The current round is never disturbed.
func (s *Session) AppendQuestion(q domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append(s.questions, q)
}

// Phase reports the current lifecycle phase.
func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Scores returns the player scoreboard in admission order.
func (s *Session) Scores() []domain.ScoreEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoresLocked()
}

// QuestionCount reports how many questions the session holds.
func (s *Session) QuestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Close tears the session down, disconnecting every participant.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deadline != nil {
		s.deadline.Stop()
		s.deadline = nil
	}
	for _, p := range s.participants {
		close(p.events)
	}
	s.participants = make(map[int]*participant)
	s.order = nil
	s.adminID = 0
}

// roundCompleteLocked reports whether every live player answered.
// A session with zero players never completes a round.
func (s *Session) roundCompleteLocked() bool {
	players := 0
	for _, p := range s.participants {
		if p.role != domain.RolePlayer {
			continue
		}
		players++
		if !p.answered {
			return false
		}
	}
	return players > 0
}

func (s *Session) advanceLocked() {
	if s.current >= len(s.questions)-1 {
		s.finishLocked()
		return
	}
	s.current++
	for _, p := range s.participants {
		p.answered = false
	}
	s.beginRoundLocked()
}

func (s *Session) beginRoundLocked() {
	s.round++
	s.armDeadlineLocked()
	s.broadcastLocked(s.currentQuestionLocked())
}

func (s *Session) finishLocked() {
	s.phase = domain.PhaseFinished
	s.round++ // invalidate any pending deadline callback
	if s.deadline != nil {
		s.deadline.Stop()
		s.deadline = nil
	}
	s.finalScores = s.scoresLocked()
	s.broadcastLocked(domain.ScoresFinalized{Scores: s.finalScores})
}

func (s *Session) armDeadlineLocked() {
	if s.deadline != nil {
		s.deadline.Stop()
		s.deadline = nil
	}
	if s.opts.RoundDeadline <= 0 {
		return
	}
	round := s.round
	s.deadline = time.AfterFunc(s.opts.RoundDeadline, func() {
		s.expireRound(round)
	})
}

// expireRound force-advances a round that outlived the deadline. The
// round serial keeps a late timer from advancing a newer round.
func (s *Session) expireRound(round int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseInProgress || s.round != round {
		return
	}
	s.advanceLocked()
}

func (s *Session) currentQuestionLocked() domain.QuestionPosed {
	q := s.questions[s.current]
	return domain.QuestionPosed{QuestionID: q.ID, Text: q.Text, Options: q.Options}
}

func (s *Session) questionKnownLocked(id string) bool {
	for i := range s.questions {
		if s.questions[i].ID == id {
			return true
		}
	}
	return false
}

func (s *Session) scoresLocked() []domain.ScoreEntry {
	entries := make([]domain.ScoreEntry, 0, len(s.order))
	for _, id := range s.order {
		p := s.participants[id]
		if p.role != domain.RolePlayer {
			continue
		}
		entries = append(entries, domain.ScoreEntry{User: p.name, Score: p.score})
	}
	return entries
}

func (s *Session) broadcastLocked(ev domain.Event) {
	for _, id := range s.order {
		s.sendLocked(s.participants[id], ev)
	}
}

func (s *Session) sendLocked(p *participant, ev domain.Event) {
	select {
	case p.events <- ev:
	default:
		// Drop the oldest pending event so broadcast never blocks on a
		// slow connection.
		select {
		case <-p.events:
		default:
		}
		p.events <- ev
	}
}
