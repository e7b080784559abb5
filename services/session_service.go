package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"icebreak_server/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Fallback prompts used when a stored question cannot be resolved; a broken
// question must never block the session.
const (
	fallbackFirstQuestion = "Coffee or tea?"
	fallbackNextQuestion  = "Surprise me: pick one thing you love!"
)

// QuestionSupplier produces the ordered question sequence for a new session.
// It must not fail; suppliers degrade to a static pool internally.
type QuestionSupplier interface {
	GenerateQuestions(ctx context.Context, userA, userB *models.UserProfile, hobbiesA, hobbiesB []string, count int) []string
}

// SimilarityFunc judges whether two short answers agree
type SimilarityFunc func(ctx context.Context, a, b string) bool

// readyState is the in-memory shadow of one live session: who is in it,
// where to reach them, who pressed ready, and which question is expected next.
type readyState struct {
	UserAID   string
	UserBID   string
	SocketA   string
	SocketB   string
	ReadyA    bool
	ReadyB    bool
	NextIndex int
}

func (st *readyState) has(userID string) bool {
	return userID == st.UserAID || userID == st.UserBID
}

// SessionService owns the session state machine: pairing, the ready-up
// handshake, answer collection and scoring, and promotion to a durable match.
type SessionService struct {
	Store     Store
	Questions QuestionSupplier
	Similar   SimilarityFunc
	Emitter   Emitter

	QuestionCount int
	PassThreshold int

	mu sync.Mutex
	// ready tracks live session shadows by sessionID; answers buffers
	// submitted texts by sessionID -> index -> userID.
	ready   map[string]*readyState
	answers map[string]map[int]map[string]string
}

func NewSessionService(store Store, questions QuestionSupplier, similar SimilarityFunc, questionCount, passThreshold int) *SessionService {
	return &SessionService{
		Store:         store,
		Questions:     questions,
		Similar:       similar,
		QuestionCount: questionCount,
		PassThreshold: passThreshold,
		ready:         make(map[string]*readyState),
		answers:       make(map[string]map[int]map[string]string),
	}
}

// CreatePair turns a queue pairing into a pending session and sends both
// sides their opponent card.
func (s *SessionService) CreatePair(ctx context.Context, a, b QueueEntry) error {
	profileA := s.lookupProfile(ctx, a.UserID)
	profileB := s.lookupProfile(ctx, b.UserID)
	hobbiesA := s.lookupHobbies(ctx, a.UserID)
	hobbiesB := s.lookupHobbies(ctx, b.UserID)

	questions := s.Questions.GenerateQuestions(ctx, profileA, profileB, hobbiesA, hobbiesB, s.QuestionCount)

	session := &models.MatchSession{
		SessionID: uuid.NewString(),
		UserAID:   a.UserID,
		UserBID:   b.UserID,
		Status:    models.SessionStatusPending,
		Questions: questions,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Store.CreateSession(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	s.mu.Lock()
	s.ready[session.SessionID] = &readyState{
		UserAID: a.UserID,
		UserBID: b.UserID,
		SocketA: a.SocketID,
		SocketB: b.SocketID,
	}
	s.mu.Unlock()

	log.Printf("✅ Paired %s with %s in session %s", a.UserID, b.UserID, session.SessionID)

	s.Emitter.ToConn(a.SocketID, EventQueueMatched, MatchedPayload{
		SessionID: session.SessionID,
		Opponent:  opponentCard(b.UserID, profileB, hobbiesB),
	})
	s.Emitter.ToConn(b.SocketID, EventQueueMatched, MatchedPayload{
		SessionID: session.SessionID,
		Opponent:  opponentCard(a.UserID, profileA, hobbiesA),
	})
	return nil
}

// Ready records one side of the ready-up handshake. When both sides are in,
// the session goes active and question 0 is delivered.
func (s *SessionService) Ready(ctx context.Context, sessionID, userID, socketID string) error {
	session, err := s.Store.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.Status != models.SessionStatusPending {
		// Unknown session, or the handshake is already over; a straggling
		// ready signal must not revive a finished session
		return nil
	}

	s.mu.Lock()
	st, ok := s.ready[sessionID]
	if !ok {
		// Shadow lost (or never created here); rebuild it from the stored session
		st = &readyState{UserAID: session.UserAID, UserBID: session.UserBID}
		s.ready[sessionID] = st
	}
	switch userID {
	case st.UserAID:
		st.ReadyA = true
		st.SocketA = socketID
	case st.UserBID:
		st.ReadyB = true
		st.SocketB = socketID
	default:
		// Not a participant; don't leak that the session exists
		s.mu.Unlock()
		return nil
	}
	bothReady := st.ReadyA && st.ReadyB
	s.mu.Unlock()

	if !bothReady {
		return nil
	}

	if err := s.Store.UpdateSessionStatus(ctx, sessionID, models.SessionStatusActive, ""); err != nil {
		return fmt.Errorf("failed to activate session: %w", err)
	}
	log.Printf("🚀 Session %s active", sessionID)

	s.emitToBoth(st, EventSessionStarted, StartedPayload{SessionID: sessionID})
	s.emitToBoth(st, EventSessionQuestion, QuestionPayload{
		SessionID: sessionID,
		Index:     0,
		Text:      questionAt(session.Questions, 0, fallbackFirstQuestion),
		Total:     len(session.Questions),
	})
	return nil
}

// Answer buffers one participant's answer for the expected question index.
// Once both sides have answered, the round is judged and the session advances
// or finalizes. Anything malformed, stale, or unauthorized is silently ignored.
func (s *SessionService) Answer(ctx context.Context, sessionID, userID string, index int, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	session, err := s.Store.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || session.Status != models.SessionStatusActive {
		return nil
	}
	if !session.HasParticipant(userID) {
		return nil
	}
	if index < 0 || index >= len(session.Questions) {
		return nil
	}

	s.mu.Lock()
	st, ok := s.ready[sessionID]
	if !ok || index != st.NextIndex {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	answer := &models.Answer{
		SessionID:     sessionID,
		AnswerID:      uuid.NewString(),
		UserID:        userID,
		QuestionIndex: index,
		Text:          text,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Store.PutAnswer(ctx, answer); err != nil {
		// Shadow state untouched, so re-sending the same command is safe
		return fmt.Errorf("failed to store answer: %w", err)
	}

	s.mu.Lock()
	st, ok = s.ready[sessionID]
	if !ok || index != st.NextIndex {
		// Session ended or the round was judged while we were persisting
		s.mu.Unlock()
		return nil
	}
	buf := s.answers[sessionID]
	if buf == nil {
		buf = make(map[int]map[string]string)
		s.answers[sessionID] = buf
	}
	byUser := buf[index]
	if byUser == nil {
		byUser = make(map[string]string)
		buf[index] = byUser
	}
	byUser[userID] = text

	other := st.UserAID
	if userID == st.UserAID {
		other = st.UserBID
	}
	otherText, bothPresent := byUser[other]
	if bothPresent {
		// Claim the round before judging; a racing duplicate now sees a stale
		// index and becomes a no-op.
		st.NextIndex = index + 1
	}
	s.mu.Unlock()

	if !bothPresent {
		return nil
	}
	return s.judgeRound(ctx, session, st, index, text, otherText)
}

// judgeRound scores one completed question round, then advances the session
// or finalizes it.
func (s *SessionService) judgeRound(ctx context.Context, session *models.MatchSession, st *readyState, index int, textA, textB string) error {
	delta := -1
	if s.Similar(ctx, textA, textB) {
		delta = 1
	}

	scoreA, scoreB, err := s.Store.AdjustScores(ctx, session.SessionID, delta)
	if err != nil {
		// Put the round back: the buffered answers are still there, so
		// re-sending the same answer retries the whole round.
		s.mu.Lock()
		if cur, ok := s.ready[session.SessionID]; ok && cur.NextIndex == index+1 {
			cur.NextIndex = index
		}
		s.mu.Unlock()
		return fmt.Errorf("failed to update scores: %w", err)
	}
	s.emitToBoth(st, EventSessionScore, ScorePayload{ScoreA: scoreA, ScoreB: scoreB})

	next := index + 1
	if next < len(session.Questions) && scoreA < s.PassThreshold {
		s.emitToBoth(st, EventSessionQuestion, QuestionPayload{
			SessionID: session.SessionID,
			Index:     next,
			Text:      questionAt(session.Questions, next, fallbackNextQuestion),
			Total:     len(session.Questions),
		})
		return nil
	}

	// Out of questions, or the pair qualified early
	final := scoreA
	if scoreB < final {
		final = scoreB
	}
	pass := final >= s.PassThreshold

	if pass {
		if err := s.Store.UpsertMatch(ctx, session.UserAID, session.UserBID, final); err != nil {
			return fmt.Errorf("failed to record match: %w", err)
		}
		log.Printf("💘 %s and %s matched with score %d", session.UserAID, session.UserBID, final)
	}
	if err := s.Store.UpdateSessionStatus(ctx, session.SessionID, models.SessionStatusCompleted, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}

	s.emitToBoth(st, EventSessionComplete, CompletePayload{Pass: pass, FinalScore: final})
	s.dropShadow(session.SessionID)
	return nil
}

// LeaveSession ends a session at a participant's request. Requests from
// users outside the session are ignored, same as an unknown session.
func (s *SessionService) LeaveSession(ctx context.Context, sessionID, userID string) error {
	s.mu.Lock()
	st, tracked := s.ready[sessionID]
	s.mu.Unlock()

	if tracked {
		if !st.has(userID) {
			return nil
		}
		return s.EndSession(ctx, sessionID, models.EndReasonOpponentLeft)
	}

	session, err := s.Store.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil || !session.HasParticipant(userID) {
		return nil
	}
	return s.EndSession(ctx, sessionID, models.EndReasonOpponentLeft)
}

// EndSession cancels a session that has not completed and tells both sides.
// Safe to call for unknown or already-finished sessions.
func (s *SessionService) EndSession(ctx context.Context, sessionID, reason string) error {
	s.mu.Lock()
	st, tracked := s.ready[sessionID]
	s.mu.Unlock()

	session, err := s.Store.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		s.dropShadow(sessionID)
		return nil
	}

	if session.Status != models.SessionStatusCompleted && session.Status != models.SessionStatusCancelled {
		if err := s.Store.UpdateSessionStatus(ctx, sessionID, models.SessionStatusCancelled, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("failed to cancel session: %w", err)
		}
		log.Printf("🛑 Session %s cancelled (%s)", sessionID, reason)
	}

	if !tracked {
		st = &readyState{UserAID: session.UserAID, UserBID: session.UserBID}
	}
	s.emitToBoth(st, EventSessionEnded, EndedPayload{Reason: reason, SessionID: sessionID})
	s.dropShadow(sessionID)
	return nil
}

// LeaveUser ends every tracked session the user is part of; called on
// explicit queue:leave and on disconnect.
func (s *SessionService) LeaveUser(ctx context.Context, userID string) {
	s.mu.Lock()
	var sessionIDs []string
	for sid, st := range s.ready {
		if st.has(userID) {
			sessionIDs = append(sessionIDs, sid)
		}
	}
	s.mu.Unlock()

	for _, sid := range sessionIDs {
		if err := s.EndSession(ctx, sid, models.EndReasonOpponentLeft); err != nil {
			log.Printf("❌ Failed to end session %s for %s: %v", sid, userID, err)
		}
	}
}

func (s *SessionService) dropShadow(sessionID string) {
	s.mu.Lock()
	delete(s.ready, sessionID)
	delete(s.answers, sessionID)
	s.mu.Unlock()
}

// emitToBoth addresses the known socket references plus each participant's
// user room, so every device sees the event.
func (s *SessionService) emitToBoth(st *readyState, event string, payload interface{}) {
	if st.SocketA != "" {
		s.Emitter.ToConn(st.SocketA, event, payload)
	}
	if st.SocketB != "" {
		s.Emitter.ToConn(st.SocketB, event, payload)
	}
	s.Emitter.ToUser(st.UserAID, event, payload)
	s.Emitter.ToUser(st.UserBID, event, payload)
}

func (s *SessionService) lookupProfile(ctx context.Context, userID string) *models.UserProfile {
	profile, err := s.Store.GetUserProfile(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Failed to fetch profile for %s: %v", userID, err)
		return nil
	}
	return profile
}

func (s *SessionService) lookupHobbies(ctx context.Context, userID string) []string {
	hobbies, err := s.Store.GetHobbyNames(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Failed to fetch hobbies for %s: %v", userID, err)
		return nil
	}
	return hobbies
}

// questionAt resolves a stored question defensively, substituting a fallback
// prompt for anything missing or blank.
func questionAt(questions []string, index int, fallback string) string {
	if index < 0 || index >= len(questions) {
		return fallback
	}
	if strings.TrimSpace(questions[index]) == "" {
		return fallback
	}
	return questions[index]
}

func opponentCard(userID string, profile *models.UserProfile, hobbies []string) OpponentCard {
	card := OpponentCard{
		ID:      userID,
		Name:    profile.DisplayName(),
		Hobbies: hobbies,
	}
	if profile != nil {
		card.AvatarURL = profile.AvatarURL
		card.FigurineURL = profile.FigurineURL
		card.Location = profile.Location
	}
	return card
}
