package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"icebreak_server/models"
	"icebreak_server/utils"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// fallbackPool serves question generation whenever the AI path is
// unavailable. Padded with fillerQuestion when more are needed.
var fallbackPool = []string{
	"Coffee or tea?",
	"Beach vacation or mountain cabin?",
	"What's your comfort movie?",
	"What hobby helps you unwind?",
	"Early bird or night owl?",
	"Cats or dogs?",
	"Sweet or savory?",
	"Books or movies?",
	"Plan ahead or go with the flow?",
	"Art museum or live concert?",
}

const fillerQuestion = "Pick one thing you love—what is it?"

// quickAcceptThreshold short-circuits obviously similar answers before any
// network call.
const quickAcceptThreshold = 0.45

// AIService generates icebreaker questions and judges answer similarity
// through an OpenAI-compatible API. Every path degrades deterministically:
// question generation falls back to the static pool, similarity to the
// Jaccard baseline.
type AIService struct {
	Client              *resty.Client
	APIKey              string
	BaseURL             string
	Model               string
	SimilarityThreshold float64
}

func NewAIService(apiKey, baseURL string, similarityThreshold float64) *AIService {
	return &AIService{
		Client:              resty.New(),
		APIKey:              apiKey,
		BaseURL:             strings.TrimRight(baseURL, "/"),
		Model:               "gpt-4o-mini",
		SimilarityThreshold: similarityThreshold,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateQuestions returns exactly count icebreaker prompts for the pair,
// personalized by shared hobbies when possible. Never fails.
func (ai *AIService) GenerateQuestions(ctx context.Context, userA, userB *models.UserProfile, hobbiesA, hobbiesB []string, count int) []string {
	if ai.APIKey == "" {
		return fallbackQuestions(count)
	}

	prompt := buildQuestionPrompt(hobbiesA, hobbiesB, count)
	content, err := ai.complete(ctx, prompt, 0.8)
	if err != nil {
		log.Printf("⚠️ Question generation failed, using fallback: %v", err)
		return fallbackQuestions(count)
	}

	var questions []string
	for _, line := range strings.Split(content, "\n") {
		if q := cleanQuestionLine(line); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return fallbackQuestions(count)
	}
	for len(questions) < count {
		questions = append(questions, fillerQuestion)
	}
	return questions[:count]
}

// IsSemanticallySimilar asks the model whether two short answers mean the
// same thing. Any failure or ambiguous verdict falls back to the Jaccard
// baseline, which is the contract of record.
func (ai *AIService) IsSemanticallySimilar(ctx context.Context, a, b string) bool {
	if utils.IsSimilar(a, b, quickAcceptThreshold) {
		return true
	}
	if ai.APIKey == "" {
		return utils.IsSimilar(a, b, ai.SimilarityThreshold)
	}

	prompt := fmt.Sprintf("Decide if these two short answers mean the same thing.\nAnswer ONLY \"YES\" or \"NO\".\n\nA: %s\nB: %s", a, b)
	content, err := ai.complete(ctx, prompt, 0)
	if err != nil {
		log.Printf("⚠️ Similarity judgment failed, using baseline: %v", err)
		return utils.IsSimilar(a, b, ai.SimilarityThreshold)
	}

	verdict := strings.ToUpper(strings.TrimSpace(content))
	if strings.Contains(verdict, "YES") {
		return true
	}
	if strings.Contains(verdict, "NO") {
		return false
	}
	return utils.IsSimilar(a, b, ai.SimilarityThreshold)
}

// complete runs one chat completion and returns the first choice's content
func (ai *AIService) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	var result chatCompletionResponse
	resp, err := ai.Client.R().
		SetContext(ctx).
		SetAuthToken(ai.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(chatCompletionRequest{
			Model:       ai.Model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: temperature,
		}).
		SetResult(&result).
		Post(ai.BaseURL + "/chat/completions")
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("completion request returned %s", resp.Status())
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completion response had no choices")
	}
	return result.Choices[0].Message.Content, nil
}

func buildQuestionPrompt(hobbiesA, hobbiesB []string, count int) string {
	shared := intersectFold(hobbiesA, hobbiesB)
	var angle string
	if len(shared) > 0 {
		angle = fmt.Sprintf("based on your shared interest in %s", strings.Join(shared, ", "))
	} else {
		angle = fmt.Sprintf(
			"that helps two people who like different things — like %s and %s — discover if they vibe",
			orVarious(hobbiesA), orVarious(hobbiesB))
	}
	return fmt.Sprintf(`Generate %d fun, open-ended, very short icebreaker questions %s.
Each question:
- must be a single line of text
- no numbering, no JSON, no id, no quotes
- friendly and playful (first-date style)
Return them as plain lines separated by newlines (no bullets, no numbering).`, count, angle)
}

func orVarious(hobbies []string) string {
	if len(hobbies) == 0 {
		return "various things"
	}
	return strings.Join(hobbies, ", ")
}

func intersectFold(a, b []string) []string {
	setB := make(map[string]struct{}, len(b))
	for _, h := range b {
		setB[strings.ToLower(h)] = struct{}{}
	}
	var shared []string
	for _, h := range a {
		if _, ok := setB[strings.ToLower(h)]; ok {
			shared = append(shared, h)
		}
	}
	return shared
}

// cleanQuestionLine reduces one generated line to plain text: JSON-ish
// artifacts are unwrapped to their text/question field and a leading
// "Question:" label is stripped. Returns "" when nothing usable remains.
func cleanQuestionLine(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}

	jsonish := (strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}")) ||
		(strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]"))
	if jsonish {
		var parsed interface{}
		if err := json.Unmarshal([]byte(t), &parsed); err == nil {
			return strings.TrimSpace(unwrapQuestion(parsed))
		}
	}

	lower := strings.ToLower(t)
	if strings.HasPrefix(lower, "question:") {
		t = strings.TrimSpace(t[len("question:"):])
	}
	return t
}

func unwrapQuestion(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]interface{}:
		if s, ok := val["text"].(string); ok {
			return s
		}
		if s, ok := val["question"].(string); ok {
			return s
		}
	case []interface{}:
		for _, item := range val {
			if s := unwrapQuestion(item); s != "" {
				return s
			}
		}
	}
	return ""
}

func fallbackQuestions(count int) []string {
	questions := make([]string, 0, count)
	questions = append(questions, fallbackPool...)
	if count <= len(questions) {
		return questions[:count]
	}
	for len(questions) < count {
		questions = append(questions, fillerQuestion)
	}
	return questions
}
