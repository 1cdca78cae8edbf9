package validation

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type taskPayload struct {
	Title       string `json:"title" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"required,min=10,max=1000"`
	Priority    string `json:"priority" binding:"required,oneof=low medium high"`
	Status      string `json:"status" binding:"required,oneof=pending completed"`
}

type registrationPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strongpwd"`
}

func TestToDetails_FieldErrors(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(taskPayload{
		Title:       "ab",
		Description: "short",
		Priority:    "urgent",
		Status:      "",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	details := ToDetails(err)

	// Field names come from JSON tags, not Go field names.
	if got := details["title"]; got != "must be at least 3 characters long" {
		t.Errorf("title = %q", got)
	}
	if got := details["description"]; got != "must be at least 10 characters long" {
		t.Errorf("description = %q", got)
	}
	if got := details["priority"]; !strings.Contains(got, "must be one of") {
		t.Errorf("priority = %q", got)
	}
	if got := details["status"]; got != "is required" {
		t.Errorf("status = %q", got)
	}
}

func TestToDetails_ValidPayload(t *testing.T) {
	Init()

	err := binding.Validator.ValidateStruct(taskPayload{
		Title:       "Fix bug",
		Description: "Resolve 500 error on prod",
		Priority:    "high",
		Status:      "pending",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d := ToDetails(nil); d != nil {
		t.Errorf("ToDetails(nil) = %v, want nil", d)
	}
}

func TestToDetails_PasswordPolicy(t *testing.T) {
	Init()

	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Sup3r#Secret", false},
		{"too short", "S3cr#t", true},
		{"no uppercase", "sup3r#secret", true},
		{"no digit", "Super#Secret", true},
		{"no special", "Sup3rSecret1", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(registrationPayload{
				Email:    "ada@example.com",
				Password: tc.password,
			})
			if tc.wantErr && err == nil {
				t.Errorf("password %q accepted, want rejection", tc.password)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("password %q rejected: %v", tc.password, err)
			}
		})
	}
}

func TestToDetails_NonValidatorError(t *testing.T) {
	Init()

	details := ToDetails(errTest{})
	if details["payload"] != "invalid payload" {
		t.Errorf("details = %v", details)
	}
}

type errTest struct{}

func (errTest) Error() string { return "boom" }
