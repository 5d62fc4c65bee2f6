package chatassistant

import (
	"context"

	httpclient "medcost-service/internal/common/http"
	"medcost-service/internal/common/logger"
)

const (
	TypeText   = "text"
	TypeOption = "option"
)

type Input struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type Output struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Type     string `json:"type"`
}

// Completer is the chat completion client. A nil Completer means no LLM is
// configured.
type Completer interface {
	Complete(ctx context.Context, req httpclient.ChatRequest) (string, error)
}

type ServiceDependencies struct {
	LLM    Completer
	Logger logger.Logger
}
