// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package classifier

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/models"
)

func TestParseLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []models.Topic
	}{
		{"two labels", "기술 / 프로그래밍, AI / 머신러닝", []models.Topic{models.TopicTech, models.TopicAI}},
		{"spacing normalized", "기술/프로그래밍 ,  여행  /  일상", []models.Topic{models.TopicTech, models.TopicTravel}},
		{"keeps first two", "기타, 여행 / 일상, AI / 머신러닝", []models.Topic{models.TopicOther, models.TopicTravel}},
		{"drops unknown", "요리, AI / 머신러닝", []models.Topic{models.TopicAI}},
		{"deduplicates", "AI / 머신러닝, AI/머신러닝, 기타", []models.Topic{models.TopicAI, models.TopicOther}},
		{"quoted", `"블로그·콘텐츠 제작", "앱·웹 서비스 리뷰"`, []models.Topic{models.TopicContent, models.TopicReview}},
		{"nothing usable", "잘 모르겠습니다", []models.Topic{models.TopicOther}},
		{"empty", "", []models.Topic{models.TopicOther}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLabels(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLabels(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLLMClassifier_Classify(t *testing.T) {
	t.Parallel()

	var gotSystem, gotUser string
	c := newLLMClassifier(func(system, user string) (string, error) {
		gotSystem, gotUser = system, user
		return "커리어 / 자기계발, 공부 / 학습법", nil
	})

	labels, err := c.Classify(context.Background(), "회고", "올해 배운 것")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if labels[0] != models.TopicCareer || len(labels) != 2 {
		t.Errorf("labels = %v", labels)
	}
	if gotUser != "제목: 회고\n본문: 올해 배운 것" {
		t.Errorf("user prompt = %q", gotUser)
	}
	for _, topic := range models.Topics {
		if !strings.Contains(gotSystem, string(topic)) {
			t.Errorf("system prompt missing %q", topic)
		}
	}
}

func TestLLMClassifier_Errors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	failing := newLLMClassifier(func(_, _ string) (string, error) {
		calls.Add(1)
		return "", errors.New("overloaded")
	})

	if _, err := failing.Classify(context.Background(), " ", ""); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty input error = %v", err)
	}
	if calls.Load() != 0 {
		t.Error("empty input must not reach the model")
	}

	if _, err := failing.Classify(context.Background(), "t", "c"); err == nil {
		t.Error("expected model error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := failing.Classify(ctx, "t", "c"); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled error = %v", err)
	}
}

func TestNewLLMClassifier_RequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewLLMClassifier(config.ClassifierConfig{Model: "m"}); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("error = %v, want ErrMissingAPIKey", err)
	}
	if _, err := NewLLMClassifier(config.ClassifierConfig{APIKey: "k", Model: "m", MaxTokens: 50}); err != nil {
		t.Errorf("NewLLMClassifier() error = %v", err)
	}
}
