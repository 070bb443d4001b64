// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type bindingRequest struct {
	UserID    string `json:"user_id" validate:"required,max=128"`
	Email     string `json:"email" validate:"omitempty,email"`
	Platform  string `json:"platform" validate:"required,platform"`
	AccountID string `json:"account_id" validate:"required,account_id"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []bindingRequest{
		{UserID: "u1", Platform: "naver", AccountID: "dev_kim"},
		{UserID: "u2", Email: "kim@example.com", Platform: "tistory", AccountID: "kim-blog"},
		{UserID: "u3", Platform: "velog", AccountID: "kim.dev"},
		{UserID: "u4", Platform: "VELOG", AccountID: "k"},
	}
	for _, req := range tests {
		if err := ValidateStruct(&req); err != nil {
			t.Errorf("ValidateStruct(%+v) unexpected error: %v", req, err)
		}
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     bindingRequest
		wantField string
		wantTag   string
	}{
		{
			name:      "missing user",
			input:     bindingRequest{Platform: "naver", AccountID: "a"},
			wantField: "user_id",
			wantTag:   "required",
		},
		{
			name:      "unknown platform",
			input:     bindingRequest{UserID: "u", Platform: "medium", AccountID: "a"},
			wantField: "platform",
			wantTag:   "platform",
		},
		{
			name:      "account with path separator",
			input:     bindingRequest{UserID: "u", Platform: "naver", AccountID: "a/../b"},
			wantField: "account_id",
			wantTag:   "account_id",
		},
		{
			name:      "account with scheme",
			input:     bindingRequest{UserID: "u", Platform: "tistory", AccountID: "https://x"},
			wantField: "account_id",
			wantTag:   "account_id",
		},
		{
			name:      "bad email",
			input:     bindingRequest{UserID: "u", Email: "nope", Platform: "velog", AccountID: "a"},
			wantField: "email",
			wantTag:   "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&bindingRequest{UserID: "u", Platform: "blogspot", AccountID: "a"})
	apiErr := single.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "platform must be one of: naver, tistory, velog" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "platform" {
		t.Errorf("Details[field] = %v, want platform", apiErr.Details["field"])
	}

	multi := ValidateStruct(&bindingRequest{})
	apiErr = multi.ToAPIError()
	if !strings.Contains(apiErr.Message, "user_id: user_id is required") {
		t.Errorf("Message = %q, want user_id entry", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Errorf("Details[fields] = %v, want 3 entries", apiErr.Details["fields"])
	}
}

func TestTranslateMinMax(t *testing.T) {
	t.Parallel()

	type limits struct {
		Name  string `json:"name" validate:"max=3"`
		Count int    `json:"count" validate:"min=1"`
	}
	err := ValidateStruct(&limits{Name: "toolong", Count: 0})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"name must be at most 3 characters", "count must be at least 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want %q", msg, want)
		}
	}
}
