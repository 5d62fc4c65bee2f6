// Package profiledisease turns a free-text condition into a categorical
// disease profile through the LLM and estimates its treatment cost range.
package profiledisease

import (
	"context"
	goerrors "errors"
	"strings"

	"medcost-service/internal/common/errors"
	httpclient "medcost-service/internal/common/http"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/common/metrics"
	estimateprofilecost "medcost-service/internal/handlers/estimation/estimate-profile-cost"
)

type Service struct {
	config *Config
	logger logger.Logger
	llm    Completer
	cache  *profileCache
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	s := &Service{config: config, logger: deps.Logger, llm: deps.LLM}
	if deps.Cache != nil {
		s.cache = &profileCache{client: deps.Cache, ttl: config.CacheTTL}
	}
	return s
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	description := strings.TrimSpace(input.DiseaseDescription)
	if description == "" {
		return nil, errors.NewValidationError("Disease description is required", "")
	}
	if s.llm == nil {
		return nil, errors.NewServiceUnavailableError("Disease profiling service not available")
	}

	s.logger.Info("Profiling disease", map[string]interface{}{
		"descriptionLength":  len(description),
		"existingConditions": len(input.ExistingConditions),
	})

	key := CacheKey(description, input.ExistingConditions)
	raw := s.cached(ctx, key)

	var profile estimateprofilecost.DiseaseProfile
	if raw != nil {
		profile = estimateprofilecost.ProfileFromMap(raw)
	} else {
		text, err := s.complete(ctx, description, input.ExistingConditions)
		if err != nil {
			return nil, err
		}

		var ok bool
		profile, raw, ok = estimateprofilecost.ParseProfile(text)
		if ok {
			s.store(ctx, key, raw)
		} else {
			metrics.DiseaseProfileFallbacks.Inc()
			s.logger.Warn("Unparsable disease profile, using fallback", map[string]interface{}{
				"responseLength": len(text),
			})
			profile = estimateprofilecost.FallbackProfile()
		}
	}

	costRange := estimateprofilecost.Estimate(profile, len(input.ExistingConditions))

	out := &Output{
		Success:        true,
		PredictionType: PredictionType,
		CostRange:      costRange,
		DiseaseProfile: profile,
		Confidence:     costRange.Confidence,
		Basis:          costRange.Basis,
		Disclaimer:     Disclaimer,
	}
	// The model's own object is echoed back when there is one.
	if raw != nil {
		out.DiseaseProfile = raw
	}
	return out, nil
}

func (s *Service) complete(ctx context.Context, description string, conditions []string) (string, error) {
	text, err := s.llm.Complete(ctx, httpclient.ChatRequest{
		Model: s.config.Model,
		Messages: []httpclient.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(description, conditions)},
		},
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		metrics.LLMRequests.WithLabelValues("profile", "failure").Inc()
		s.logger.Error("Disease profiling completion failed", map[string]interface{}{"error": err.Error()})
		if goerrors.Is(err, httpclient.ErrLLMTimeout) {
			return "", errors.NewLLMTimeoutError(s.config.Timeout)
		}
		return "", errors.NewLLMRequestFailedError(err)
	}
	metrics.LLMRequests.WithLabelValues("profile", "success").Inc()
	return text, nil
}

func (s *Service) cached(ctx context.Context, key string) map[string]interface{} {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.get(ctx, key)
	switch {
	case err != nil:
		metrics.ProfileCacheHits.WithLabelValues("error").Inc()
		s.logger.Warn("Profile cache read failed", map[string]interface{}{"error": err.Error()})
		return nil
	case raw == nil:
		metrics.ProfileCacheHits.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.ProfileCacheHits.WithLabelValues("hit").Inc()
	return raw
}

func (s *Service) store(ctx context.Context, key string, raw map[string]interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.set(ctx, key, raw); err != nil {
		s.logger.Warn("Profile cache write failed", map[string]interface{}{"error": err.Error()})
	}
}
