package services

// Outbound event names
const (
	EventQueueMatched    = "queue:matched"
	EventQueueError      = "queue:error"
	EventSessionStarted  = "session:started"
	EventSessionQuestion = "session:question"
	EventSessionScore    = "session:score"
	EventSessionComplete = "session:complete"
	EventSessionEnded    = "session:ended"
	EventChatNew         = "chat:new"
	EventChatError       = "chat:error"
)

// OpponentCard is the public slice of a profile sent with queue:matched
type OpponentCard struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Hobbies     []string `json:"hobbies"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	FigurineURL string   `json:"figurineUrl,omitempty"`
	Location    string   `json:"location,omitempty"`
}

type MatchedPayload struct {
	SessionID string       `json:"sessionId"`
	Opponent  OpponentCard `json:"opponent"`
}

type StartedPayload struct {
	SessionID string `json:"sessionId"`
}

type QuestionPayload struct {
	SessionID string `json:"sessionId"`
	Index     int    `json:"index"`
	Text      string `json:"text"`
	Total     int    `json:"total"`
}

type ScorePayload struct {
	ScoreA int `json:"scoreA"`
	ScoreB int `json:"scoreB"`
}

type CompletePayload struct {
	Pass       bool `json:"pass"`
	FinalScore int  `json:"finalScore"`
}

type EndedPayload struct {
	Reason    string `json:"reason"`
	SessionID string `json:"sessionId"`
}
