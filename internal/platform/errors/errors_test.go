package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeCreatureNotFound, "creature not found")
	err := fmt.Errorf("resolve: %w", Wrap(CodeCreatureNotFound, "lookup failed", stderrors.New("io")))

	if !stderrors.Is(err, sentinel) {
		t.Fatal("expected wrapped error to match sentinel by code")
	}
	if stderrors.Is(err, New(CodeBattleTeamsUnequalSize, "x")) {
		t.Fatal("expected different code not to match")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf(plain) = %s, want %s", got, CodeUnknown)
	}
	err := fmt.Errorf("outer: %w", New(CodeFilterInvalid, "bad"))
	if got := CodeOf(err); got != CodeFilterInvalid {
		t.Fatalf("CodeOf = %s, want %s", got, CodeFilterInvalid)
	}
}

func TestCodeMappings(t *testing.T) {
	tests := []struct {
		code     Code
		grpcCode codes.Code
		http     int
	}{
		{CodeBattleTeamsShareCreature, codes.InvalidArgument, http.StatusBadRequest},
		{CodeBattleTeamsUnequalSize, codes.InvalidArgument, http.StatusBadRequest},
		{CodeInvalidArgument, codes.InvalidArgument, http.StatusBadRequest},
		{CodeFilterInvalid, codes.InvalidArgument, http.StatusBadRequest},
		{CodeCreatureNotFound, codes.NotFound, http.StatusNotFound},
		{CodeCreatureAttributeMalformed, codes.FailedPrecondition, http.StatusUnprocessableEntity},
		{CodeUnknown, codes.Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.GRPCCode(); got != tt.grpcCode {
				t.Fatalf("GRPCCode() = %v, want %v", got, tt.grpcCode)
			}
			if got := tt.code.HTTPStatus(); got != tt.http {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tt.http)
			}
		})
	}
}

func TestToGRPCStatusDetails(t *testing.T) {
	err := WithMetadata(CodeCreatureAttributeMalformed, "bad weight", map[string]string{"Field": "weight"})

	st := status.Convert(err.ToGRPCStatus("pt-BR", "peso malformado"))
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("code = %v, want %v", st.Code(), codes.FailedPrecondition)
	}
	if st.Message() != "bad weight" {
		t.Fatalf("message = %q, want bad weight", st.Message())
	}

	var sawInfo, sawLocalized bool
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			sawInfo = true
			if d.GetReason() != string(CodeCreatureAttributeMalformed) {
				t.Fatalf("reason = %q", d.GetReason())
			}
			if d.GetMetadata()["Field"] != "weight" {
				t.Fatalf("metadata = %v", d.GetMetadata())
			}
		case *errdetails.LocalizedMessage:
			sawLocalized = true
			if d.GetLocale() != "pt-BR" || d.GetMessage() != "peso malformado" {
				t.Fatalf("localized = %v", d)
			}
		}
	}
	if !sawInfo || !sawLocalized {
		t.Fatalf("details missing: info=%v localized=%v", sawInfo, sawLocalized)
	}
}
