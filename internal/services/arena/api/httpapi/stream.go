package httpapi

import (
	"log"

	apperrors "github.com/louisbranch/creature-arena/internal/platform/errors"
	"golang.org/x/net/websocket"
)

// Frame types written by the battle stream.
const (
	frameLog    = "log"
	frameResult = "result"
	frameError  = "error"
)

type streamFrame struct {
	Type    string          `json:"type"`
	Line    string          `json:"line,omitempty"`
	Outcome *battleResponse `json:"outcome,omitempty"`
	Error   *streamError    `json:"error,omitempty"`
}

type streamError struct {
	Code       string `json:"code"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// handleBattleStream reads one battle request frame, then writes a log frame
// per battle line followed by a result frame. Failures end the stream with
// an error frame.
func (s *Server) handleBattleStream(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()
	r := conn.Request()

	var data []byte
	if err := websocket.Message.Receive(conn, &data); err != nil {
		log.Printf("battle stream: read request: %v", err)
		return
	}
	teamA, teamB, err := parseBattleRequest(data)
	if err != nil {
		s.sendStreamError(conn, err)
		return
	}

	outcome, err := s.simulator.SimulateFunc(r.Context(), teamA, teamB, func(line string) error {
		return websocket.JSON.Send(conn, streamFrame{Type: frameLog, Line: line})
	})
	if err != nil {
		s.sendStreamError(conn, err)
		return
	}
	resp := newBattleResponse(outcome)
	if err := websocket.JSON.Send(conn, streamFrame{Type: frameResult, Outcome: &resp}); err != nil {
		log.Printf("battle stream: write result: %v", err)
	}
}

func (s *Server) sendStreamError(conn *websocket.Conn, err error) {
	r := conn.Request()
	status, message, _ := describeError(r, err)
	if status >= 500 {
		log.Printf("battle stream: %v", err)
	}
	frame := streamFrame{
		Type: frameError,
		Error: &streamError{
			Code:       string(apperrors.CodeOf(err)),
			StatusCode: status,
			Message:    message,
		},
	}
	if sendErr := websocket.JSON.Send(conn, frame); sendErr != nil {
		log.Printf("battle stream: write error: %v", sendErr)
	}
}
