// Package chatassistant answers cost and insurance questions through the LLM
// and serves the canned quick-option replies.
package chatassistant

import (
	"context"
	goerrors "errors"
	"strings"

	"medcost-service/internal/common/errors"
	httpclient "medcost-service/internal/common/http"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/common/metrics"
)

const unavailableMessage = "Chat service not available. Please set GROQ_API_KEY environment variable."

type Service struct {
	config *Config
	logger logger.Logger
	llm    Completer
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{config: config, logger: deps.Logger, llm: deps.LLM}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	kind := input.Type
	if kind == "" {
		kind = TypeText
	}

	s.logger.Info("Executing chat assistant", map[string]interface{}{
		"type":          kind,
		"messageLength": len(input.Message),
	})

	// Options are canned, but the endpoint reports unavailable without an
	// LLM regardless of type.
	if s.llm == nil {
		return nil, errors.NewServiceUnavailableError(unavailableMessage)
	}

	if kind == TypeOption {
		return &Output{Success: true, Response: OptionResponse(input.Message), Type: TypeOption}, nil
	}

	if strings.TrimSpace(input.Message) == "" {
		return nil, errors.NewValidationError("Message is required", "")
	}

	reply, err := s.llm.Complete(ctx, httpclient.ChatRequest{
		Model: s.config.Model,
		Messages: []httpclient.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: input.Message},
		},
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		metrics.LLMRequests.WithLabelValues("chat", "failure").Inc()
		s.logger.Error("Chat completion failed", map[string]interface{}{"error": err.Error()})
		if goerrors.Is(err, httpclient.ErrLLMTimeout) {
			return nil, errors.NewLLMTimeoutError(s.config.Timeout)
		}
		return nil, errors.NewLLMRequestFailedError(err)
	}
	metrics.LLMRequests.WithLabelValues("chat", "success").Inc()

	return &Output{Success: true, Response: reply, Type: TypeText}, nil
}
