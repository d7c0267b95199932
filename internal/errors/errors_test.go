package errors

import (
	"errors"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "message only",
			err:  &AppError{Code: ErrCodeNotFound, Message: "application not found"},
			want: "application not found",
		},
		{
			name: "message with cause",
			err:  &AppError{Code: ErrCodeInternal, Message: "query failed", Cause: errors.New("connection reset")},
			want: "query failed: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(cause, ErrCodeInternal, "wrapped")
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should find the cause through Unwrap")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{name: "NotFound", err: NotFound("missing"), wantCode: ErrCodeNotFound},
		{name: "NotFoundf", err: NotFoundf("application %s not found", "abc"), wantCode: ErrCodeNotFound},
		{name: "Conflict", err: Conflict("duplicate"), wantCode: ErrCodeConflict},
		{name: "Validation", err: Validation("bad input"), wantCode: ErrCodeValidation},
		{name: "Unauthorized", err: Unauthorized("invalid credentials"), wantCode: ErrCodeUnauthorized},
		{name: "Forbidden", err: Forbidden("insufficient role"), wantCode: ErrCodeForbidden},
		{name: "ForeignKey", err: ForeignKey("in use"), wantCode: ErrCodeForeignKey},
		{name: "Internal", err: Internal("boom"), wantCode: ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("email", "email is required")
	if !IsValidation(err) {
		t.Errorf("ValidationField should produce a Validation error")
	}
	if got := GetField(err); got != "email" {
		t.Errorf("GetField() = %q, want %q", got, "email")
	}
}

func TestWrap_NilError(t *testing.T) {
	if err := Wrap(nil, ErrCodeInternal, "ignored"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
	if err := Wrapf(nil, ErrCodeInternal, "ignored %d", 1); err != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", err)
	}
}

func TestPredicates_NonAppError(t *testing.T) {
	err := errors.New("plain")
	if IsNotFound(err) || IsConflict(err) || IsValidation(err) ||
		IsUnauthorized(err) || IsForbidden(err) || IsForeignKey(err) || IsInternal(err) {
		t.Errorf("predicates should be false for plain errors")
	}
	if got := GetCode(err); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}
