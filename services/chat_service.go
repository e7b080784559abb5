package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"icebreak_server/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ChatService handles messages between matched users
type ChatService struct {
	Store Store
}

// SendMessage stores a new message and returns the persisted record
func (s *ChatService) SendMessage(ctx context.Context, matchID, senderID, content string) (*models.Message, error) {
	if matchID == "" || strings.TrimSpace(content) == "" {
		return nil, errors.New("matchId and content are required")
	}

	message := &models.Message{
		MatchID:   matchID,
		MessageID: uuid.NewString(),
		SenderID:  senderID,
		Content:   content,
		IsUnread:  true, // New messages default to unread
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err := s.Store.AddMessage(ctx, message); err != nil {
		log.Printf("❌ Failed to store message for match %s: %v", matchID, err)
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	return message, nil
}

// GetMessagesByMatchID fetches the latest messages for a match, returned
// oldest first so the newest lands at the bottom of a chat view.
func (s *ChatService) GetMessagesByMatchID(ctx context.Context, matchID string, limit int) ([]models.Message, error) {
	messages, err := s.Store.GetMessagesByMatchID(ctx, matchID, limit)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
