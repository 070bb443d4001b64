// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"

	"github.com/tomtom215/jandi/internal/breaker"
	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/logging"
	"github.com/tomtom215/jandi/internal/metrics"
	"github.com/tomtom215/jandi/internal/models"
)

// ErrEmptyInput is returned when there is no text to classify.
var ErrEmptyInput = errors.New("nothing to classify")

// ErrMissingAPIKey is returned by NewLLMClassifier without credentials.
var ErrMissingAPIKey = errors.New("classifier api key is required")

// Classifier ranks the topics of an article.
type Classifier interface {
	Classify(ctx context.Context, title, content string) ([]models.Topic, error)
}

// promptFunc sends one system/user prompt pair and returns the reply text.
type promptFunc func(system, user string) (string, error)

// LLMClassifier asks a hosted model for labels.
type LLMClassifier struct {
	prompt  promptFunc
	breaker *breaker.Breaker
}

var _ Classifier = (*LLMClassifier)(nil)

// NewLLMClassifier creates a classifier backed by the Anthropic API.
func NewLLMClassifier(cfg config.ClassifierConfig) (*LLMClassifier, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	settings := types.RequestSettings{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
	apiKey := cfg.APIKey

	return newLLMClassifier(func(system, user string) (string, error) {
		response, err := anthropic.PromptWithSettings(system, user, "", apiKey, settings)
		if err != nil {
			return "", err
		}
		if len(response.Content) == 0 {
			return "", fmt.Errorf("empty model response")
		}
		return response.Content[0].Text, nil
	}), nil
}

func newLLMClassifier(prompt promptFunc) *LLMClassifier {
	return &LLMClassifier{
		prompt:  prompt,
		breaker: breaker.New(breaker.DefaultConfig("classifier")),
	}
}

// Classify returns one or two topics, most relevant first.
func (c *LLMClassifier) Classify(ctx context.Context, title, content string) ([]models.Topic, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(content) == "" {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reply, err := breaker.Do(c.breaker, func() (string, error) {
		return c.prompt(systemPrompt, Input(title, content))
	})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	labels := ParseLabels(reply)
	for _, l := range labels {
		metrics.RecordClassification(string(l))
	}
	logging.Ctx(ctx).Debug().
		Str("reply", reply).
		Str("category", string(labels[0])).
		Msg("article classified")
	return labels, nil
}

// Input formats an article the way the prompt expects it.
func Input(title, content string) string {
	return "제목: " + title + "\n본문: " + content
}

var systemPrompt = buildSystemPrompt()

func buildSystemPrompt() string {
	var b strings.Builder
	b.WriteString("다음 블로그 글의 주제를 아래 목록에서 가장 관련 있는 순서로 2개 골라 ")
	b.WriteString("쉼표로 구분해 라벨만 출력하세요.\n\n")
	for i, t := range models.Topics {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	return b.String()
}
