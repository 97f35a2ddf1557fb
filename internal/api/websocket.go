package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/katalvlaran/gridpath/playback"
	"github.com/katalvlaran/gridpath/report"
	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/session"
	"github.com/katalvlaran/gridpath/topology"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	outBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Playback stream message types.
const (
	MsgSession = "session"
	MsgResult  = "result"
	MsgFrame   = "frame"
	MsgAck     = "ack"
	MsgError   = "error"
)

// Command is a client message on /ws/playback. An empty Op or "search" runs
// the embedded search and plays it. The other ops act on the last result:
// "play" replays it, "backtrack" walks its path back, "alt" toggles the
// alternative layer and "cancel" stops the run in flight. Mode "freeze"
// makes cancel keep the overlay. Runs answer with frames; "alt" and
// "cancel" also answer with an ack.
type Command struct {
	Op   string `json:"op"`
	Mode string `json:"mode,omitempty"`
	SearchRequest
}

// Message is a server message on /ws/playback.
type Message struct {
	Type    string          `json:"type"`
	Session string          `json:"session,omitempty"`
	Op      string          `json:"op,omitempty"`
	Alt     *bool           `json:"alt,omitempty"`
	Result  *SearchResponse `json:"result,omitempty"`
	Frame   *playback.Frame `json:"frame,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// playbackConn owns one websocket, one session and its scheduler.
type playbackConn struct {
	srv   *Server
	conn  *websocket.Conn
	id    string
	sess  *session.Session
	sched *playback.Scheduler
	alg   search.Algorithm

	out        chan Message
	done       chan struct{}
	writerDone chan struct{}
}

func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws.upgrade_failed", "err", err)
		return
	}

	c := &playbackConn{
		srv:        s,
		conn:       conn,
		id:         uuid.NewString(),
		out:        make(chan Message, outBuffer),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	var sinks []playback.Sink
	if s.sinks != nil {
		if extra := s.sinks(c.id); extra != nil {
			sinks = append(sinks, extra)
		}
	}
	sinks = append(sinks, playback.SinkFunc(c.emitFrame))
	c.sched = playback.New(s.cfg.PlaybackConfig(), fanOut(sinks))
	c.sess, err = session.New(topology.Square, 1, c.sched)
	if err != nil {
		s.log.Error("ws.session_failed", "err", err)
		conn.Close()
		return
	}

	s.log.Info("ws.connected", "session", c.id, "remote", r.RemoteAddr)
	go c.writeLoop()
	c.send(Message{Type: MsgSession, Session: c.id})
	c.readLoop()

	close(c.done)
	c.sched.Reset()
	<-c.writerDone
	conn.Close()
	s.log.Info("ws.closed", "session", c.id)
}

func fanOut(sinks []playback.Sink) playback.Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return playback.SinkFunc(func(f playback.Frame) {
		for _, s := range sinks {
			s.Emit(f)
		}
	})
}

func (c *playbackConn) emitFrame(f playback.Frame) {
	c.send(Message{Type: MsgFrame, Frame: &f})
}

// send queues m unless the connection is shutting down.
func (c *playbackConn) send(m Message) {
	select {
	case c.out <- m:
	case <-c.done:
	}
}

func (c *playbackConn) readLoop() {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.sendError(badRequest(err))
			continue
		}
		if err := c.handle(&cmd); err != nil {
			c.sendError(err)
		}
	}
}

func (c *playbackConn) writeLoop() {
	defer close(c.writerDone)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case m := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(m); err != nil {
				c.srv.log.Warn("ws.write_failed", "session", c.id, "err", err)
				c.conn.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}

func (c *playbackConn) handle(cmd *Command) error {
	switch cmd.Op {
	case "", "search":
		return c.search(&cmd.SearchRequest)
	case "play":
		return c.sess.Play(c.alg)
	case "alt":
		on := c.sched.ToggleAlternate()
		c.send(Message{Type: MsgAck, Op: cmd.Op, Alt: &on})
	case "backtrack":
		return c.sched.Backtrack()
	case "cancel":
		mode := playback.CancelRevert
		if cmd.Mode == "freeze" {
			mode = playback.CancelFreeze
		}
		c.sched.Cancel(mode)
		c.send(Message{Type: MsgAck, Op: cmd.Op})
	default:
		return badRequest(fmt.Errorf("unknown op %q", cmd.Op))
	}
	return nil
}

// search replaces the session grid, runs, reports, and starts the playback.
func (c *playbackConn) search(req *SearchRequest) error {
	g, err := req.buildGrid()
	if err != nil {
		return err
	}
	table, opts, err := req.options(c.srv.cfg)
	if err != nil {
		return err
	}
	if err := c.sess.Replace(g); err != nil {
		return err
	}
	alg := *req.Algorithm
	res, err := c.sess.Run(alg, opts...)
	if err != nil {
		return err
	}
	c.alg = alg

	resp := SearchResponse{
		Annotated: report.Assemble(res, table),
		GridType:  g.Shape(),
		GridSize:  g.Size(),
		Rows:      g.Rows(),
	}
	c.send(Message{Type: MsgResult, Session: c.id, Result: &resp})
	return c.sess.Play(alg)
}

func (c *playbackConn) sendError(err error) {
	msg := err.Error()
	if statusFor(err) == http.StatusInternalServerError {
		c.srv.log.Error("ws.internal_error", "session", c.id, "err", err)
		msg = "internal error"
	}
	c.send(Message{Type: MsgError, Error: msg})
}
