package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
}

func TestGenerateQuestionsWithoutKeyUsesFallback(t *testing.T) {
	ai := NewAIService("", "https://unused.example", 0.5)
	questions := ai.GenerateQuestions(context.Background(), nil, nil, nil, nil, 10)
	require.Len(t, questions, 10)
	assert.Equal(t, "Coffee or tea?", questions[0])
}

func TestGenerateQuestionsFallbackPadsToCount(t *testing.T) {
	ai := NewAIService("", "https://unused.example", 0.5)
	questions := ai.GenerateQuestions(context.Background(), nil, nil, nil, nil, 14)
	require.Len(t, questions, 14)
	assert.Equal(t, fillerQuestion, questions[13])

	short := ai.GenerateQuestions(context.Background(), nil, nil, nil, nil, 3)
	assert.Len(t, short, 3)
}

func TestGenerateQuestionsSanitizesResponse(t *testing.T) {
	content := "What's your go-to karaoke song?\n" +
		"{\"text\": \"Mountains or beaches?\"}\n" +
		"Question: Sweet or savory?\n" +
		"\n" +
		"[{\"question\": \"Cats or dogs?\"}]\n"
	srv := completionServer(t, content, http.StatusOK)
	defer srv.Close()

	ai := NewAIService("test-key", srv.URL, 0.5)
	questions := ai.GenerateQuestions(context.Background(), nil, nil, []string{"music"}, []string{"music"}, 4)
	require.Len(t, questions, 4)
	assert.Equal(t, "What's your go-to karaoke song?", questions[0])
	assert.Equal(t, "Mountains or beaches?", questions[1])
	assert.Equal(t, "Sweet or savory?", questions[2])
	assert.Equal(t, "Cats or dogs?", questions[3])
}

func TestGenerateQuestionsServerErrorFallsBack(t *testing.T) {
	srv := completionServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	ai := NewAIService("test-key", srv.URL, 0.5)
	questions := ai.GenerateQuestions(context.Background(), nil, nil, nil, nil, 10)
	require.Len(t, questions, 10)
	assert.Equal(t, "Coffee or tea?", questions[0])
}

func TestGenerateQuestionsPadsShortResponse(t *testing.T) {
	srv := completionServer(t, "Only one question?", http.StatusOK)
	defer srv.Close()

	ai := NewAIService("test-key", srv.URL, 0.5)
	questions := ai.GenerateQuestions(context.Background(), nil, nil, nil, nil, 5)
	require.Len(t, questions, 5)
	assert.Equal(t, "Only one question?", questions[0])
	assert.Equal(t, fillerQuestion, questions[4])
}

func TestIsSemanticallySimilarQuickAccept(t *testing.T) {
	// Identical answers never reach the network
	ai := NewAIService("test-key", "http://127.0.0.1:0", 0.5)
	assert.True(t, ai.IsSemanticallySimilar(context.Background(), "Coffee", "Coffee"))
}

func TestIsSemanticallySimilarWithoutKeyUsesBaseline(t *testing.T) {
	ai := NewAIService("", "https://unused.example", 0.5)
	assert.False(t, ai.IsSemanticallySimilar(context.Background(), "quiet mountain cabin", "crowded beach party"))
}

func TestIsSemanticallySimilarVerdicts(t *testing.T) {
	srvYes := completionServer(t, "YES", http.StatusOK)
	defer srvYes.Close()
	ai := NewAIService("test-key", srvYes.URL, 0.5)
	assert.True(t, ai.IsSemanticallySimilar(context.Background(), "quiet mountain cabin", "peaceful alpine hideaway"))

	srvNo := completionServer(t, "No.", http.StatusOK)
	defer srvNo.Close()
	ai = NewAIService("test-key", srvNo.URL, 0.5)
	assert.False(t, ai.IsSemanticallySimilar(context.Background(), "quiet mountain cabin", "crowded beach party"))
}

func TestIsSemanticallySimilarAmbiguousFallsBack(t *testing.T) {
	srv := completionServer(t, "It depends", http.StatusOK)
	defer srv.Close()

	ai := NewAIService("test-key", srv.URL, 0.5)
	assert.False(t, ai.IsSemanticallySimilar(context.Background(), "quiet mountain cabin", "crowded beach party"))
}

func TestCleanQuestionLine(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Plan ahead or go with the flow?  ", "Plan ahead or go with the flow?"},
		{"{\"text\": \"Cats or dogs?\"}", "Cats or dogs?"},
		{"{\"question\": \"Sweet or savory?\"}", "Sweet or savory?"},
		{"[\"Books or movies?\"]", "Books or movies?"},
		{"[{\"text\": \"Early bird or night owl?\"}]", "Early bird or night owl?"},
		{"question: Beach or mountains?", "Beach or mountains?"},
		{"", ""},
		{"{\"id\": 7}", ""},
		{"{not valid json}", "{not valid json}"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cleanQuestionLine(tc.in), "input %q", tc.in)
	}
}
