// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package classifier

import (
	"strings"

	"github.com/tomtom215/jandi/internal/models"
)

// MaxLabels is the number of ranked labels kept per article.
const MaxLabels = 2

// compactTopics maps a vocabulary entry with all whitespace removed to the
// canonical entry, so "기술/프로그래밍" and "기술 / 프로그래밍" match.
var compactTopics = func() map[string]models.Topic {
	m := make(map[string]models.Topic, len(models.Topics))
	for _, t := range models.Topics {
		m[compact(string(t))] = t
	}
	return m
}()

// ParseLabels turns raw model output into at most MaxLabels ranked topics.
func ParseLabels(raw string) []models.Topic {
	var labels []models.Topic
	seen := make(map[models.Topic]bool, MaxLabels)

	for _, part := range strings.FieldsFunc(raw, isSeparator) {
		topic, ok := lookup(part)
		if !ok || seen[topic] {
			continue
		}
		seen[topic] = true
		labels = append(labels, topic)
		if len(labels) == MaxLabels {
			break
		}
	}

	if len(labels) == 0 {
		return []models.Topic{models.TopicOther}
	}
	return labels
}

func isSeparator(r rune) bool {
	return r == ',' || r == '\n' || r == '，'
}

func lookup(label string) (models.Topic, bool) {
	label = strings.Trim(strings.TrimSpace(label), `"'[]().`)
	label = strings.Join(strings.Fields(label), " ")
	if models.IsTopic(label) {
		return models.Topic(label), true
	}
	t, ok := compactTopics[compact(label)]
	return t, ok
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
