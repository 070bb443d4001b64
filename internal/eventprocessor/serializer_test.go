// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package eventprocessor

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/jandi/internal/models"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	msg, err := NewJSONMessage(models.ProgressPlatformRegisterSignal("u1", models.PlatformVelog))
	if err != nil {
		t.Fatalf("NewJSONMessage() error = %v", err)
	}
	if msg.UUID == "" {
		t.Error("message UUID should be set")
	}

	sig, err := Decode[models.RefreshSignal](msg)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if sig.Type != models.RefreshProgressPlatformRegister || sig.UserID != "u1" || sig.Platform != models.PlatformVelog {
		t.Errorf("decoded %+v", sig)
	}
}

func TestDecode_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{"},
		{"wrong shape", `{"type": 5}`},
		{"unknown type", `{"type":"finish"}`},
		{"platform register without user", `{"type":"progress_platform_register","platform":"velog"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode[models.RefreshSignal](message.NewMessage("m", []byte(tt.payload)))
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsPermanentError(err) {
				t.Errorf("error %v should be permanent", err)
			}
		})
	}
}
