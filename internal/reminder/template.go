// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

// Package reminder delivers inactivity reminder mail from the
// mail_reminders queue.
package reminder

import (
	"fmt"

	"github.com/tomtom215/jandi/internal/models"
)

// DefaultName addresses users who never gave a name.
const DefaultName = "사용자"

// Mail is one rendered message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Render fills the reminder template for event.
func Render(event *models.ReminderEvent) Mail {
	name := event.Name
	if name == "" {
		name = DefaultName
	}
	return Mail{
		To:      event.Email,
		Subject: fmt.Sprintf("[jandi] %s님, 잔디밭이 비고 있어요! ", name),
		Body: fmt.Sprintf("안녕하세요, %s님. \n 마지막 활동 이후 벌써 %d일이 지났습니다. "+
			"새 글을 써서 잔디밭을 채우러 가 볼까요?", name, event.DaysInactive),
	}
}
