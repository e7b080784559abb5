package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"icebreak_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	log "github.com/sirupsen/logrus"
)

// DynamoStore implements Store on top of DynamoDB
type DynamoStore struct {
	Dynamo *DynamoService
}

// GetUserProfile fetches a profile by userId. Returns (nil, nil) when absent.
func (s *DynamoStore) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.UserProfilesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// GetHobbyNames returns the hobby names joined to a user
func (s *DynamoStore) GetHobbyNames(ctx context.Context, userID string) ([]string, error) {
	keyCondition := "userId = :userId"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.UserHobbiesTable, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hobbies: %w", err)
	}

	var rows []models.UserHobby
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse hobbies: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.HobbyName)
	}
	return names, nil
}

// CreateSession persists a new match session
func (s *DynamoStore) CreateSession(ctx context.Context, session *models.MatchSession) error {
	return s.Dynamo.PutItem(ctx, models.MatchSessionsTable, session)
}

// GetSession fetches a session by id. Returns (nil, nil) when absent.
func (s *DynamoStore) GetSession(ctx context.Context, sessionID string) (*models.MatchSession, error) {
	key := map[string]types.AttributeValue{
		"sessionId": &types.AttributeValueMemberS{Value: sessionID},
	}

	item, err := s.Dynamo.GetItem(ctx, models.MatchSessionsTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var session models.MatchSession
	if err := attributevalue.UnmarshalMap(item, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// UpdateSessionStatus transitions a session's status. Re-applying the current
// status is a no-op success; completed and cancelled are terminal.
func (s *DynamoStore) UpdateSessionStatus(ctx context.Context, sessionID, status, completedAt string) error {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", sessionID)
	}
	if session.Status == status {
		return nil
	}
	if session.Status == models.SessionStatusCompleted || session.Status == models.SessionStatusCancelled {
		log.Printf("⚠️ Ignoring status change %s -> %s for session %s", session.Status, status, sessionID)
		return nil
	}

	key := map[string]types.AttributeValue{
		"sessionId": &types.AttributeValueMemberS{Value: sessionID},
	}
	updateExpression := "SET #status = :status"
	expressionValues := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: status},
	}
	expressionNames := map[string]string{
		"#status": "status", // status is a DynamoDB reserved word
	}
	if completedAt != "" {
		updateExpression += ", completedAt = :completedAt"
		expressionValues[":completedAt"] = &types.AttributeValueMemberS{Value: completedAt}
	}

	_, err = s.Dynamo.UpdateItem(ctx, models.MatchSessionsTable, updateExpression, key, expressionValues, expressionNames)
	return err
}

// AdjustScores re-fetches the session and moves both scores by delta,
// returning the persisted values. Re-reading before writing avoids lost
// updates when two answer handlers race.
func (s *DynamoStore) AdjustScores(ctx context.Context, sessionID string, delta int) (int, int, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return 0, 0, err
	}
	if session == nil {
		return 0, 0, fmt.Errorf("session %s not found", sessionID)
	}

	scoreA := session.ScoreA + delta
	scoreB := session.ScoreB + delta

	key := map[string]types.AttributeValue{
		"sessionId": &types.AttributeValueMemberS{Value: sessionID},
	}
	updateExpression := "SET scoreA = :scoreA, scoreB = :scoreB"
	expressionValues := map[string]types.AttributeValue{
		":scoreA": &types.AttributeValueMemberN{Value: strconv.Itoa(scoreA)},
		":scoreB": &types.AttributeValueMemberN{Value: strconv.Itoa(scoreB)},
	}

	if _, err := s.Dynamo.UpdateItem(ctx, models.MatchSessionsTable, updateExpression, key, expressionValues, nil); err != nil {
		return 0, 0, err
	}
	return scoreA, scoreB, nil
}

// UpsertMatch writes the durable match row for an unordered user pair
func (s *DynamoStore) UpsertMatch(ctx context.Context, userAID, userBID string, score int) error {
	match := models.Match{
		PairID:    models.PairKey(userAID, userBID),
		UserAID:   userAID,
		UserBID:   userBID,
		Score:     score,
		MatchedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return s.Dynamo.PutItem(ctx, models.MatchesTable, match)
}

// PutAnswer stores one submitted answer row
func (s *DynamoStore) PutAnswer(ctx context.Context, answer *models.Answer) error {
	return s.Dynamo.PutItem(ctx, models.AnswersTable, answer)
}

// AddMessage stores a chat message
func (s *DynamoStore) AddMessage(ctx context.Context, message *models.Message) error {
	return s.Dynamo.PutItem(ctx, models.MessagesTable, message)
}

// GetMessagesByMatchID fetches the latest messages for a match, newest first
func (s *DynamoStore) GetMessagesByMatchID(ctx context.Context, matchID string, limit int) ([]models.Message, error) {
	keyCondition := "matchId = :matchId"
	expressionValues := map[string]types.AttributeValue{
		":matchId": &types.AttributeValueMemberS{Value: matchID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(limit), true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}
	return messages, nil
}
