package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"proxiverse/internal/protocol"
	"proxiverse/internal/sim/world"
)

const (
	outboundQueue = 16
	writeTimeout  = 5 * time.Second
	readTimeout   = 60 * time.Second
)

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	return &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		out := make(chan []byte, outboundQueue)
		resp := make(chan world.JoinResponse, 1)
		s.world.Join() <- world.JoinRequest{
			Name: r.URL.Query().Get("name"),
			Out:  out,
			Resp: resp,
		}

		var welcome protocol.WelcomeMsg
		select {
		case jr := <-resp:
			welcome = jr.Welcome
		case <-time.After(10 * time.Second):
			s.log.Printf("join timed out for %s", r.RemoteAddr)
			return
		}
		welcome.SessionID = uuid.NewString()
		agentID := welcome.AgentID
		s.log.Printf("session %s connected as %s (%s)", welcome.SessionID, agentID, welcome.AgentName)

		b, err := json.Marshal(welcome)
		if err != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			s.world.Leave() <- agentID
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			cmd, err := protocol.DecodeCommand(msg)
			if err != nil {
				s.sendError(out, protocol.ErrBadRequest, "malformed command")
				continue
			}
			if cmd.Action == "" {
				s.sendError(out, protocol.ErrBadRequest, "missing action")
				continue
			}
			if err := s.world.Submit(agentID, cmd.Action, cmd.Params); err != nil {
				s.sendError(out, protocol.ErrInternal, err.Error())
			}
		}

		s.log.Printf("session %s disconnected (%s)", welcome.SessionID, agentID)
		s.world.Leave() <- agentID
	}
}

func (s *Server) sendError(out chan []byte, code, msg string) {
	b, err := json.Marshal(protocol.ErrorMsg{
		Type:    protocol.TypeError,
		Code:    code,
		Message: msg,
	})
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}
