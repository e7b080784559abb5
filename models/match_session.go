package models

// MatchSession is one pairing's question-and-answer lifecycle. Questions are
// fixed at creation; scores move in lockstep as answers are judged.
type MatchSession struct {
	SessionID   string   `dynamodbav:"sessionId" json:"sessionId"` // Unique sessionId
	UserAID     string   `dynamodbav:"userAId" json:"userAId"`
	UserBID     string   `dynamodbav:"userBId" json:"userBId"`
	Status      string   `dynamodbav:"status" json:"status"` // pending, active, completed, cancelled
	Questions   []string `dynamodbav:"questions" json:"questions"`
	ScoreA      int      `dynamodbav:"scoreA" json:"scoreA"`
	ScoreB      int      `dynamodbav:"scoreB" json:"scoreB"`
	CreatedAt   string   `dynamodbav:"createdAt" json:"createdAt"`
	CompletedAt string   `dynamodbav:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// HasParticipant reports whether userID is one of the two session members
func (s *MatchSession) HasParticipant(userID string) bool {
	return userID == s.UserAID || userID == s.UserBID
}

// MatchSessionsTable is the DynamoDB table name for match sessions
const MatchSessionsTable = "MatchSessions"
