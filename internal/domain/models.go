package domain

// Role is the part a connection plays in the session. Exactly one live
// connection holds Admin at any time.
type Role string

const (
	RoleAdmin  Role = "admin"
	RolePlayer Role = "player"
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseInProgress
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseInProgress:
		return "in_progress"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// Question models an MCQ with a single correct option index.
// Questions are immutable once broadcast; the coordinator only reads them.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
}

// Valid reports whether the question satisfies the structural rules:
// non-empty text, at least two non-empty options, correct index in range.
func (q Question) Valid() bool {
	if q.Text == "" || len(q.Options) < 2 {
		return false
	}
	for _, opt := range q.Options {
		if opt == "" {
			return false
		}
	}
	return q.CorrectOption >= 0 && q.CorrectOption < len(q.Options)
}

// ScoreEntry is one row of the final scoreboard.
type ScoreEntry struct {
	User  string `json:"user"`
	Score int    `json:"score"`
}

// Event is the closed set of messages the session emits to a
// connection. Transports switch over the concrete types exhaustively.
type Event interface {
	isEvent()
}

// RoleAssigned is unicast once at admission.
type RoleAssigned struct {
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName"`
}

// QuestionPosed announces the current question. The correct option
// index is deliberately absent.
type QuestionPosed struct {
	QuestionID string   `json:"questionId"`
	Text       string   `json:"question"`
	Options    []string `json:"options"`
}

// AnswerScored is unicast to the answering participant only.
type AnswerScored struct {
	Correct bool `json:"correct"`
}

// ScoresFinalized carries the final scoreboard in admission order.
type ScoresFinalized struct {
	Scores []ScoreEntry `json:"scores"`
}

// Denied reports a rejected request (no questions, session full).
type Denied struct {
	Message string `json:"message"`
}

func (RoleAssigned) isEvent()    {}
func (QuestionPosed) isEvent()   {}
func (AnswerScored) isEvent()    {}
func (ScoresFinalized) isEvent() {}
func (Denied) isEvent()          {}
