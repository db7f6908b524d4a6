// Package ai hosts the two model-backed operations: character sheet analysis
// and the guided trope conversation.
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

	"github.com/inkwell-labs/tropelens/backend/internal/config"
	"github.com/inkwell-labs/tropelens/backend/internal/model/chat"
	"github.com/inkwell-labs/tropelens/backend/internal/model/sheet"
	"github.com/inkwell-labs/tropelens/backend/internal/model/trope"
)

// Service drives both model-backed operations over a single compiled chain.
type Service struct {
	chatModel model.ChatModel
	invoke    func(ctx context.Context, input map[string]any) (*schema.Message, error)
}

// NewService creates the chat model from configuration and compiles the
// shared prompt chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		invoke: func(ctx context.Context, input map[string]any) (*schema.Message, error) {
			return runnable.Invoke(ctx, input)
		},
	}, nil
}

// GetChatModel exposes the underlying model instance.
func (s *Service) GetChatModel() model.ChatModel {
	return s.chatModel
}

// Analyze identifies the prominent tropes in a completed character sheet.
// One model round trip, no retry. A malformed or unparseable response yields
// an empty list, never an error; only transport failures surface.
func (s *Service) Analyze(ctx context.Context, cs sheet.CharacterSheet) ([]trope.Trope, error) {
	msg, err := s.invoke(ctx, map[string]any{
		"system": analystSystemPrompt,
		"query":  buildAnalystQuery(cs),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run analyzer chain: %w", err)
	}

	result := decodePayload(messageContent(msg))
	if result.kind != kindTropes {
		log.Printf("[ai] analyzer returned unusable output, treating as no tropes")
		return []trope.Trope{}, nil
	}

	log.Printf("[ai] analyzer identified %d tropes", len(result.tropes))
	return result.tropes, nil
}

// SendTurn produces the next AI question for a trope conversation. The
// transcript passed in should already include the new user message. A
// malformed response degrades to FallbackTurn so the conversation always
// advances; only transport failures surface.
func (s *Service) SendTurn(ctx context.Context, cs sheet.CharacterSheet, tropeName string, transcript []chat.Message) (Turn, error) {
	msg, err := s.invoke(ctx, map[string]any{
		"system": coachSystemPrompt,
		"query":  buildCoachQuery(cs, tropeName, transcript),
	})
	if err != nil {
		return Turn{}, fmt.Errorf("failed to run coach chain: %w", err)
	}

	result := decodePayload(messageContent(msg))
	if result.kind != kindChatTurn {
		log.Printf("[ai] coach returned unusable output, using fallback turn")
		return FallbackTurn(), nil
	}
	return result.turn, nil
}

// Greeting synthesizes the opening AI message for a trope conversation
// locally, without a model call.
func Greeting(tropeName string) string {
	return fmt.Sprintf("Let's talk about the trope: **%s**. What's on your mind about it? Or, where should we start?", tropeName)
}

// FallbackTurn is the fixed reply used whenever the model output cannot be
// parsed.
func FallbackTurn() Turn {
	return Turn{
		Question: "I'm not sure what to say. Could you tell me more about your day?",
		Choices:  []string{"✨ Sure, let me share", "🤔 Not really", "🔄 Let's change the topic"},
	}
}

func messageContent(msg *schema.Message) string {
	if msg == nil {
		return ""
	}
	return strings.TrimSpace(msg.Content)
}
