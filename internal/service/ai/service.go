package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/hearthlabs/hearth/backend/internal/config"
	personamodel "github.com/hearthlabs/hearth/backend/internal/model/persona"
	"github.com/hearthlabs/hearth/backend/internal/service/responder"
)

// Service is the model-backed persona capability.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the prompt->model chain for persona replies.
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

	return &Service{chatModel: chatModel, cfg: cfg, chain: runnable}, nil
}

// StreamingEnabled reports whether SSE streaming output is configured.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// Respond generates one persona reply. Implements responder.Capability.
func (s *Service) Respond(ctx context.Context, p personamodel.Persona, req responder.Request) (string, error) {
	response, err := s.chain.Invoke(ctx, s.buildChainInput(p, req))
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}

	log.Printf("[ai] generated reply thread=%s persona=%s length=%d", req.ThreadID, p.ID, len(response.Content))
	return response.Content, nil
}

// Stream yields reply chunks for the SSE endpoint.
func (s *Service) Stream(ctx context.Context, p personamodel.Persona, req responder.Request) (*schema.StreamReader[*schema.Message], error) {
	if !s.StreamingEnabled() {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	stream, err := s.chain.Stream(ctx, s.buildChainInput(p, req))
	if err != nil {
		return nil, fmt.Errorf("failed to stream chat chain output: %w", err)
	}

	return stream, nil
}

func (s *Service) buildChainInput(p personamodel.Persona, req responder.Request) map[string]any {
	return map[string]any{
		"system": BuildSystemPrompt(p, req),
		"query":  req.Message,
	}
}
