package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nikhilv/ai-chat-relay/internal/models"
)

// systemInstruction grounds every generation.
const systemInstruction = "You are a helpful assistant. Keep replies brief and use the previous conversation as context."

// fallbackReply is returned when the model produces no text parts.
const fallbackReply = "No reply from AI"

// Gemini generates chat replies via the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Reply generates a reply to message, grounded on the given prior exchanges.
func (g *Gemini) Reply(ctx context.Context, history []models.Chat, message string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, buildContents(history, message),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return extractText(resp), nil
}

// buildContents lays out one user/model turn pair per exchange, in the order
// the rows were retrieved (newest first), then the new message as the final
// user turn. The newest-first order is deliberate; tests pin it.
func buildContents(history []models.Chat, message string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)*2+1)
	for _, chat := range history {
		contents = append(contents,
			genai.NewContentFromText(chat.Message, genai.RoleUser),
			genai.NewContentFromText(chat.Reply, genai.RoleModel),
		)
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return fallbackReply
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return fallbackReply
	}
	return b.String()
}
