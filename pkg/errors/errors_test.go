package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"
)

func TestIsType_UnwrapsWrappedErrors(t *testing.T) {
	base := NewEmptyContentError("no text extracted")
	wrapped := fmt.Errorf("extract report: %w", base)

	if !IsType(wrapped, ErrorTypeEmptyContent) {
		t.Fatalf("expected wrapped error to be %s", ErrorTypeEmptyContent)
	}
	if IsType(wrapped, ErrorTypeReadError) {
		t.Fatalf("did not expect wrapped error to be %s", ErrorTypeReadError)
	}
	if IsType(io.EOF, ErrorTypeNotFound) {
		t.Fatalf("plain errors must not match any AppError type")
	}
}

func TestGetStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewNotFoundError("missing"), http.StatusNotFound},
		{NewUnsupportedFormatError("bad extension", ".docx"), http.StatusUnsupportedMediaType},
		{NewEmptyContentError("blank"), http.StatusUnprocessableEntity},
		{NewReadError("corrupt", io.ErrUnexpectedEOF), http.StatusUnprocessableEntity},
		{NewValidationError("file is required"), http.StatusBadRequest},
		{io.EOF, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := GetStatusCode(tc.err); got != tc.want {
			t.Fatalf("GetStatusCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestAppError_Message(t *testing.T) {
	err := NewReadError("failed to open document", io.ErrUnexpectedEOF)
	if got := err.Error(); got != "read_error: failed to open document: unexpected EOF" {
		t.Fatalf("unexpected message: %s", got)
	}

	err = NewUnsupportedFormatError("unsupported file format", ".docx")
	if got := err.Error(); got != "unsupported_format: unsupported file format (.docx)" {
		t.Fatalf("unexpected message: %s", got)
	}
}
