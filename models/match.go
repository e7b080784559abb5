package models

import "strings"

// Match records that two users qualified, unlocking chat. Upserted keyed by
// the unordered user pair, so re-qualifying refreshes the score instead of
// creating a duplicate row.
type Match struct {
	PairID    string `dynamodbav:"pairId" json:"pairId"` // Canonical unordered pair key
	UserAID   string `dynamodbav:"userAId" json:"userAId"`
	UserBID   string `dynamodbav:"userBId" json:"userBId"`
	Score     int    `dynamodbav:"score" json:"score"`
	MatchedAt string `dynamodbav:"matchedAt" json:"matchedAt"`
}

// PairKey builds the canonical key for an unordered user pair
func PairKey(userAID, userBID string) string {
	if strings.Compare(userAID, userBID) > 0 {
		userAID, userBID = userBID, userAID
	}
	return userAID + "#" + userBID
}

// MatchesTable is the DynamoDB table name for durable matches
const MatchesTable = "Matches"
