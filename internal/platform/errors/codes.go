// Package errors provides structured error handling with i18n support.
package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidArgument represents a malformed request at a transport boundary.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Battle errors
	CodeBattleTeamsShareCreature Code = "BATTLE_TEAMS_SHARE_CREATURE"
	CodeBattleTeamsUnequalSize   Code = "BATTLE_TEAMS_UNEQUAL_SIZE"

	// Creature errors
	CodeCreatureNotFound           Code = "CREATURE_NOT_FOUND"
	CodeCreatureAttributeMalformed Code = "CREATURE_ATTRIBUTE_MALFORMED"

	// Filter errors
	CodeFilterInvalid Code = "FILTER_INVALID"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidArgument,
		CodeBattleTeamsShareCreature,
		CodeBattleTeamsUnequalSize,
		CodeFilterInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - catalog data cannot serve the request
	case CodeCreatureAttributeMalformed:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeCreatureNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c.GRPCCode() {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.FailedPrecondition:
		return http.StatusUnprocessableEntity
	case codes.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
