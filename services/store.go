package services

import (
	"context"

	"icebreak_server/models"
)

// Store is the persistence facade consumed by the matchmaking core. Every
// operation is assumed atomic per call; no cross-call transactions.
type Store interface {
	GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	GetHobbyNames(ctx context.Context, userID string) ([]string, error)

	CreateSession(ctx context.Context, session *models.MatchSession) error
	GetSession(ctx context.Context, sessionID string) (*models.MatchSession, error)
	// UpdateSessionStatus is a check-then-set: moving to the current status is
	// a no-op success, and completed/cancelled sessions are never re-written.
	UpdateSessionStatus(ctx context.Context, sessionID, status, completedAt string) error
	// AdjustScores re-fetches the session and moves both scores by delta in
	// lockstep, returning the new values.
	AdjustScores(ctx context.Context, sessionID string, delta int) (scoreA, scoreB int, err error)

	UpsertMatch(ctx context.Context, userAID, userBID string, score int) error
	PutAnswer(ctx context.Context, answer *models.Answer) error

	AddMessage(ctx context.Context, message *models.Message) error
	GetMessagesByMatchID(ctx context.Context, matchID string, limit int) ([]models.Message, error)
}

// Emitter delivers outbound events, either to every live connection of a user
// or to one specific connection. Implemented by the socket gateway.
type Emitter interface {
	ToUser(userID, event string, payload interface{})
	ToConn(socketID, event string, payload interface{})
}
