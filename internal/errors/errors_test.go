package errors

import (
	"errors"
	"testing"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		wantMsg string
	}{
		{
			name:    "validation error without cause",
			err:     NewValidationError("invalid input", nil),
			wantMsg: "[validation] invalid input",
		},
		{
			name: "conflict error with details",
			err: NewConflictError("sync already running", map[string]interface{}{
				"operationId": "op-1",
			}),
			wantMsg: "[conflict] sync already running",
		},
		{
			name: "policy denied error",
			err: NewPolicyDeniedError("blocked by sync window", map[string]interface{}{
				"window": "freeze",
			}),
			wantMsg: "[policy_denied] blocked by sync window",
		},
		{
			name:    "not found error",
			err:     NewNotFoundError("application missing", nil),
			wantMsg: "[not_found] application missing",
		},
		{
			name:    "runtime error with cause",
			err:     NewRuntimeError("hook failed", errors.New("exit code 1")),
			wantMsg: "[runtime] hook failed: exit code 1",
		},
		{
			name:    "internal error with cause",
			err:     NewInternalError("state corrupt", errors.New("nil entry")),
			wantMsg: "[internal] state corrupt: nil entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.wantMsg)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewRuntimeError("wrapper", cause)

	if got := err.Unwrap(); got != cause {
		t.Errorf("AppError.Unwrap() = %v, want %v", got, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through AppError to the cause")
	}
}

func TestAppError_Is(t *testing.T) {
	err1 := NewValidationError("error1", nil)
	err2 := NewValidationError("error2", nil)
	err3 := NewConflictError("error3", nil)

	if !err1.Is(err2) {
		t.Error("Two validation errors should match")
	}

	if err1.Is(err3) {
		t.Error("Validation error should not match conflict error")
	}
}

func TestErrorTypeHelpers(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		checkFunc func(error) bool
		want      bool
	}{
		{
			name:      "IsValidationError with validation error",
			err:       NewValidationError("test", nil),
			checkFunc: IsValidationError,
			want:      true,
		},
		{
			name:      "IsValidationError with conflict error",
			err:       NewConflictError("test", nil),
			checkFunc: IsValidationError,
			want:      false,
		},
		{
			name:      "IsConflictError with conflict error",
			err:       NewConflictError("test", nil),
			checkFunc: IsConflictError,
			want:      true,
		},
		{
			name:      "IsPolicyDeniedError with policy denied error",
			err:       NewPolicyDeniedError("test", nil),
			checkFunc: IsPolicyDeniedError,
			want:      true,
		},
		{
			name:      "IsPolicyDeniedError with validation error",
			err:       NewValidationError("test", nil),
			checkFunc: IsPolicyDeniedError,
			want:      false,
		},
		{
			name:      "IsNotFoundError with not found error",
			err:       NewNotFoundError("test", nil),
			checkFunc: IsNotFoundError,
			want:      true,
		},
		{
			name:      "IsRuntimeError with runtime error",
			err:       NewRuntimeError("test", nil),
			checkFunc: IsRuntimeError,
			want:      true,
		},
		{
			name:      "IsRuntimeError with plain error",
			err:       errors.New("plain"),
			checkFunc: IsRuntimeError,
			want:      false,
		},
		{
			name:      "IsNotFoundError with nil",
			err:       nil,
			checkFunc: IsNotFoundError,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.checkFunc(tt.err); got != tt.want {
				t.Errorf("checkFunc() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetErrorDetails(t *testing.T) {
	details := map[string]interface{}{"application": "shop", "window": "freeze"}
	err := NewPolicyDeniedError("blocked", details)

	got := GetErrorDetails(err)
	if got == nil {
		t.Fatal("GetErrorDetails() = nil, want details map")
	}
	if got["application"] != "shop" || got["window"] != "freeze" {
		t.Errorf("GetErrorDetails() = %v, want %v", got, details)
	}

	if GetErrorDetails(errors.New("plain")) != nil {
		t.Error("GetErrorDetails() on a plain error should return nil")
	}
}

func TestValidationResult(t *testing.T) {
	res := OK()
	if !res.Valid {
		t.Error("OK() should start valid")
	}
	if res.Err() != nil {
		t.Error("Err() on a valid result should return nil")
	}

	res.AddWarning("application %s has no destination", "shop")
	if !res.Valid {
		t.Error("a warning should not invalidate the result")
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != "application shop has no destination" {
		t.Errorf("Warnings = %v, want formatted warning", res.Warnings)
	}

	res.AddError("generator %d must set exactly one source", 2)
	if res.Valid {
		t.Error("an error should invalidate the result")
	}
	if len(res.Errors) != 1 || res.Errors[0] != "generator 2 must set exactly one source" {
		t.Errorf("Errors = %v, want formatted error", res.Errors)
	}

	err := res.Err()
	if err == nil {
		t.Fatal("Err() on an invalid result should not be nil")
	}
	if !IsValidationError(err) {
		t.Error("Err() should produce a validation error")
	}
	if err.Error() != "[validation] generator 2 must set exactly one source" {
		t.Errorf("Err().Error() = %v", err.Error())
	}
	got := GetErrorDetails(err)
	if got == nil || len(got["errors"].([]string)) != 1 {
		t.Errorf("Err() details = %v, want errors slice", got)
	}
}
