package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the narrow slice of the OpenAI client the drafting
// and correction flows need. Tests substitute a stub.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}
