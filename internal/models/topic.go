// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package models

// Topic is a classification label from the closed vocabulary.
type Topic string

const (
	TopicTech     Topic = "기술 / 프로그래밍"
	TopicAI       Topic = "AI / 머신러닝"
	TopicStudy    Topic = "공부 / 학습법"
	TopicCareer   Topic = "커리어 / 자기계발"
	TopicBusiness Topic = "비즈니스 / 사이드 프로젝트"
	TopicContent  Topic = "블로그·콘텐츠 제작"
	TopicReview   Topic = "앱·웹 서비스 리뷰"
	TopicTravel   Topic = "여행 / 일상"
	TopicHobby    Topic = "취미 / 라이프스타일"
	TopicSociety  Topic = "사회 / 생각 / 철학"
	TopicOther    Topic = "기타"
)

// Topics is the vocabulary in prompt order.
var Topics = []Topic{
	TopicTech,
	TopicAI,
	TopicStudy,
	TopicCareer,
	TopicBusiness,
	TopicContent,
	TopicReview,
	TopicTravel,
	TopicHobby,
	TopicSociety,
	TopicOther,
}

var topicSet = func() map[Topic]struct{} {
	m := make(map[Topic]struct{}, len(Topics))
	for _, t := range Topics {
		m[t] = struct{}{}
	}
	return m
}()

// IsTopic reports whether s is exactly one of the vocabulary labels.
func IsTopic(s string) bool {
	_, ok := topicSet[Topic(s)]
	return ok
}
