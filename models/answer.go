package models

// Answer is one submitted answer for a session question, kept as an audit
// trail. The in-memory buffer decides pairing; these rows are never re-read
// on the hot path.
type Answer struct {
	SessionID     string `dynamodbav:"sessionId" json:"sessionId"`
	AnswerID      string `dynamodbav:"answerId" json:"answerId"`
	UserID        string `dynamodbav:"userId" json:"userId"`
	QuestionIndex int    `dynamodbav:"questionIndex" json:"questionIndex"`
	Text          string `dynamodbav:"text" json:"text"`
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"`
}

// AnswersTable is the DynamoDB table name for submitted answers
const AnswersTable = "Answers"
