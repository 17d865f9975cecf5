package domain

import "errors"

var (
	// ErrNotAdmin is returned when a non-admin connection tries to control the session.
	ErrNotAdmin = errors.New("connection does not hold the admin role")
	// ErrNoQuestions is returned when start is requested with an empty question list.
	ErrNoQuestions = errors.New("no questions available")
	// ErrSessionNotStarted is returned for answers arriving outside an active round.
	ErrSessionNotStarted = errors.New("session is not in progress")
	// ErrSessionRunning is returned for a start request while a session is already active.
	ErrSessionRunning = errors.New("session already in progress")
	// ErrStaleAnswer is returned for answers to a question the group advanced past.
	ErrStaleAnswer = errors.New("answer targets a question that is no longer current")
	// ErrAlreadyAnswered is returned for repeat submissions in the same round.
	ErrAlreadyAnswered = errors.New("participant already answered this round")
	// ErrAdminDoesNotPlay is returned when the admin submits an answer.
	ErrAdminDoesNotPlay = errors.New("admin does not play")
	// ErrQuestionNotFound indicates a submitted question ID is unknown.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrOptionOutOfRange indicates a chosen option index outside the question's options.
	ErrOptionOutOfRange = errors.New("option index out of range")
	// ErrCapacityExceeded is returned when admission would exceed the participant cap.
	ErrCapacityExceeded = errors.New("session is full")
	// ErrParticipantGone is returned when acting on a removed participant.
	ErrParticipantGone = errors.New("participant no longer in session")
	// ErrInvalidQuestion indicates an authored question failing structural validation.
	ErrInvalidQuestion = errors.New("invalid question format")
)
