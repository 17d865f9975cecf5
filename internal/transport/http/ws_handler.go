package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"live-mcq-service/internal/app"
	"live-mcq-service/internal/domain"
)

type WSHandler struct {
	session  *app.Session
	upgrader websocket.Upgrader
}

func NewWSHandler(session *app.Session) *WSHandler {
	return &WSHandler{
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outboundMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type submitAnswerPayload struct {
	QuestionID string `json:"questionId"`
	// pointer so a missing index is distinguishable from option 0
	ChosenOption *int `json:"chosenOptionIndex"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the connection against the
// session: admission, the outbound event pump, and the inbound command
// loop. Malformed, unauthorized, and stale messages are dropped without
// terminating the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	participant, err := h.session.Admit()
	if err != nil {
		// Capacity denial is sent before the connection is registered.
		_ = conn.WriteJSON(outboundMessage{Type: "error", Data: errorPayload{Message: err.Error()}})
		return
	}
	defer h.session.Remove(participant.ID)
	log.Printf("%s connected as %s", participant.DisplayName, participant.Role)

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	pumpDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(pumpDone)
		for {
			select {
			case ev, ok := <-participant.Events():
				if !ok {
					return
				}
				select {
				case send <- envelopeFor(ev):
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			// Close and network errors end the connection; decode
			// errors below do not.
			break
		}
		var inbound inboundMessage
		if err := json.Unmarshal(raw, &inbound); err != nil {
			log.Printf("undecodable frame from %s dropped", participant.DisplayName)
			continue
		}
		switch inbound.Type {
		case "startSession":
			err := h.session.Start(participant.ID)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrNoQuestions):
				send <- outboundMessage{Type: "error", Data: errorPayload{Message: err.Error()}}
			default:
				// Unauthorized and mid-run start requests change nothing.
				log.Printf("start rejected for %s: %v", participant.DisplayName, err)
			}
		case "submitAnswer":
			var payload submitAnswerPayload
			if err := json.Unmarshal(inbound.Data, &payload); err != nil || payload.QuestionID == "" || payload.ChosenOption == nil {
				log.Printf("malformed submitAnswer from %s", participant.DisplayName)
				continue
			}
			if err := h.session.SubmitAnswer(participant.ID, payload.QuestionID, *payload.ChosenOption); err != nil {
				log.Printf("answer from %s dropped: %v", participant.DisplayName, err)
			}
		default:
			log.Printf("unknown message type %q from %s", inbound.Type, participant.DisplayName)
		}
	}
	log.Printf("%s disconnected", participant.DisplayName)

	close(closeSignals)
	<-pumpDone
	close(send)
	<-writerDone
}

// envelopeFor maps every session event kind onto its wire tag.
func envelopeFor(ev domain.Event) outboundMessage {
	switch ev := ev.(type) {
	case domain.RoleAssigned:
		return outboundMessage{Type: "roleAssignment", Data: ev}
	case domain.QuestionPosed:
		return outboundMessage{Type: "currentQuestion", Data: ev}
	case domain.AnswerScored:
		return outboundMessage{Type: "answerResult", Data: ev}
	case domain.ScoresFinalized:
		return outboundMessage{Type: "finalScores", Data: ev.Scores}
	case domain.Denied:
		return outboundMessage{Type: "error", Data: errorPayload{Message: ev.Message}}
	}
	return outboundMessage{Type: "error", Data: errorPayload{Message: "unknown event"}}
}
