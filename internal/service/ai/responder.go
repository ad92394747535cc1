package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zenstudent/backend/internal/config"
	"github.com/zenstudent/backend/internal/model/chat"
)

// Responder wraps the chat model chain behind the collaborator contract the
// session coordinator relies on: GenerateReply always yields a usable string
// and never surfaces an error to the caller.
type Responder struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewResponder compiles the reply chain from the configured chat model.
func NewResponder(ctx context.Context, cfg config.AIConfig) (*Responder, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return newResponderWithModel(ctx, chatModel)
}

func newResponderWithModel(ctx context.Context, chatModel model.ChatModel) (*Responder, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile reply chain: %w", err)
	}

	return &Responder{chain: runnable}, nil
}

// GenerateReply asks the model for the next companion message. Any failure
// degrades to the language-appropriate fallback text; the conversation must
// never hang or crash on a model error.
func (r *Responder) GenerateReply(ctx context.Context, history []chat.Message, userMessage, lang string) string {
	input := map[string]any{
		"system":  systemPrompt(lang),
		"history": historyMessages(history),
		"query":   userMessage,
	}

	response, err := r.chain.Invoke(ctx, input)
	if err != nil {
		log.Printf("[ai] reply chain failed, using fallback: %v", err)
		return FallbackReply(lang)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		log.Printf("[ai] reply chain returned empty content, using fallback")
		return FallbackReply(lang)
	}

	log.Printf("[ai] generated reply, length=%d", len(response.Content))
	return response.Content
}

// FallbackResponder stands in when no chat model is configured. Every reply
// is the static fallback text so the rest of the app behaves the same with or
// without model credentials.
type FallbackResponder struct{}

func (FallbackResponder) GenerateReply(_ context.Context, _ []chat.Message, _, lang string) string {
	return FallbackReply(lang)
}

// FallbackReply is the user-safe message shown when the model is unavailable.
func FallbackReply(lang string) string {
	if strings.EqualFold(strings.TrimSpace(lang), "ru") {
		return "Мне сейчас сложно ответить, но я рядом. Попробуй написать ещё раз чуть позже."
	}
	return "I'm having trouble answering right now, but I'm still here. Please try again in a moment."
}

func systemPrompt(lang string) string {
	base := "You are ZenStudent, a supportive companion for students. " +
		"Listen with warmth, validate feelings, keep answers short and gentle, " +
		"and never present yourself as a substitute for professional help. " +
		"If the user mentions self-harm, calmly encourage them to contact a " +
		"crisis line or a trusted person."
	if strings.EqualFold(strings.TrimSpace(lang), "ru") {
		return base + " Reply in Russian."
	}
	return base
}

func historyMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Text))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}
	return history
}
