package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeNotFound, "no such sample"),
			want: "NOT_FOUND: no such sample",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInternal, "store append", stderrors.New("disk full")),
			want: "INTERNAL_ERROR: store append: disk full",
		},
		{
			name: "formatted",
			err:  Newf(ErrCodeInvalidRequest, "bad port %d", 70000),
			want: "INVALID_REQUEST: bad port 70000",
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

func TestWrapNil(t *testing.T) {
	if err := Wrap(ErrCodeInternal, "noop", nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeUnavailable, "kubectl top", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause through the wrap chain")
	}
}

func TestWrapWithContext(t *testing.T) {
	if err := WrapWithContext(ErrCodeInternal, "noop", nil, nil); err != nil {
		t.Fatalf("WrapWithContext(nil) = %v, want nil", err)
	}

	cause := stderrors.New("db is down")
	err := WrapWithContext(ErrCodeUnavailable, "store unavailable", cause, map[string]any{"backend": "sqlite"})

	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Details["backend"] != "sqlite" {
		t.Errorf("Details = %#v, want backend=sqlite", err.Details)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"typed error", New(ErrCodeTimeout, "deadline"), ErrCodeTimeout},
		{"wrapped deeper", fmt.Errorf("outer: %w", New(ErrCodeProvisionFailed, "download")), ErrCodeProvisionFailed},
		{"plain error defaults to internal", stderrors.New("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
