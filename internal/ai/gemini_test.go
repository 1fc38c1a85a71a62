package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/nikhilv/ai-chat-relay/internal/models"
)

func TestBuildContentsOrder(t *testing.T) {
	// History arrives newest first and is laid out in that order, each
	// exchange as a user turn followed by a model turn.
	history := []models.Chat{
		{Message: "second question", Reply: "second answer"},
		{Message: "first question", Reply: "first answer"},
	}

	contents := buildContents(history, "new question")
	require.Len(t, contents, 5)

	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, "second question", contents[0].Parts[0].Text)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
	assert.Equal(t, "second answer", contents[1].Parts[0].Text)
	assert.Equal(t, "first question", contents[2].Parts[0].Text)
	assert.Equal(t, "first answer", contents[3].Parts[0].Text)

	last := contents[4]
	assert.Equal(t, genai.RoleUser, last.Role)
	assert.Equal(t, "new question", last.Parts[0].Text)
}

func TestBuildContentsEmptyHistory(t *testing.T) {
	contents := buildContents(nil, "hello")
	require.Len(t, contents, 1)
	assert.Equal(t, "hello", contents[0].Parts[0].Text)
}

func TestExtractTextConcatenatesParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "Hello, "},
				{Text: "world."},
			}},
		}},
	}
	assert.Equal(t, "Hello, world.", extractText(resp))
}

func TestExtractTextFallbacks(t *testing.T) {
	assert.Equal(t, fallbackReply, extractText(&genai.GenerateContentResponse{}))

	assert.Equal(t, fallbackReply, extractText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: nil}},
	}))

	assert.Equal(t, fallbackReply, extractText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: ""}}}}},
	}))
}

func TestExtractTextUsesFirstCandidateOnly(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "first"}}}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "second"}}}},
		},
	}
	assert.Equal(t, "first", extractText(resp))
}
