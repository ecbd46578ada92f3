// Package transport wires external byte sources into a jsonstream.Parser.
package transport

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"

	"github.com/jsonstream/jsonstream"
)

// WebSocketOption configures a WebSocketSource: the dial, buffer, and
// reconnect knobs.
type WebSocketOption struct {
	URL       string
	Protocols []string

	ReadBufferSize  int
	WriteBufferSize int
	HandshakeTimeout time.Duration

	// Attempts is the number of reconnect attempts after a failed dial or a
	// dropped connection; AttemptAfter is the base backoff, multiplied by
	// the attempt number.
	Attempts     int
	AttemptAfter time.Duration

	// Ping is the keepalive ping interval. Zero disables pinging.
	Ping time.Duration
}

func (o *WebSocketOption) setDefaults() {
	if o.ReadBufferSize == 0 {
		o.ReadBufferSize = 1024
	}
	if o.WriteBufferSize == 0 {
		o.WriteBufferSize = 1024
	}
	if o.HandshakeTimeout == 0 {
		o.HandshakeTimeout = 5 * time.Second
	}
	if o.Attempts > 0 && o.AttemptAfter == 0 {
		o.AttemptAfter = 50 * time.Millisecond
	}
}

// WebSocketSource reads binary frames off a websocket connection and
// absorbs each frame's payload directly into a Parser, so a server
// streaming array- or line-delimited JSON events over a live socket has a
// resumable parser sitting behind the wire.
type WebSocketSource[V any] struct {
	option WebSocketOption
	parser *jsonstream.Parser[V]
	logger hclog.Logger

	conn         *websocket.Conn
	attemptTimes int
}

// NewWebSocketSource builds a source that feeds parser from messages read
// off the connection described by option. logger may be nil.
func NewWebSocketSource[V any](option WebSocketOption, parser *jsonstream.Parser[V], logger hclog.Logger) *WebSocketSource[V] {
	option.setDefaults()
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &WebSocketSource[V]{
		option: option,
		parser: parser,
		logger: logger.Named("transport.websocket"),
	}
}

// Open dials the connection and runs the read loop until the connection
// closes normally, the parser's Finish decides the stream is complete, or
// the reconnect budget (option.Attempts) is exhausted. It returns every
// value absorbed across the whole session.
func (s *WebSocketSource[V]) Open() ([]V, error) {
	var all []V
	for {
		values, err := s.openOnce()
		all = append(all, values...)
		if err == nil {
			return all, nil
		}
		if _, ok := err.(*jsonstream.ParseError); ok {
			return all, err
		}
		if s.attemptTimes >= s.option.Attempts {
			return all, err
		}
		s.attemptTimes++
		after := time.Duration(int(s.option.AttemptAfter) * s.attemptTimes)
		s.logger.Trace("reconnecting after read error", "url", s.option.URL, "attempt", s.attemptTimes, "after", after, "err", err)
		if after > 0 {
			time.Sleep(after)
		}
	}
}

func (s *WebSocketSource[V]) openOnce() ([]V, error) {
	dialer := websocket.Dialer{
		Subprotocols:     s.option.Protocols,
		ReadBufferSize:   s.option.ReadBufferSize,
		WriteBufferSize:  s.option.WriteBufferSize,
		HandshakeTimeout: s.option.HandshakeTimeout,
	}

	s.logger.Trace("dialing", "url", s.option.URL)
	conn, _, err := dialer.Dial(s.option.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", s.option.URL, err)
	}
	s.conn = conn
	defer conn.Close()
	s.attemptTimes = 0
	s.logger.Trace("connected", "url", s.option.URL)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	if s.option.Ping > 0 {
		ticker = time.NewTicker(s.option.Ping)
		defer ticker.Stop()
		tickC = ticker.C
	}

	type readResult struct {
		payload []byte
		err     error
	}
	reads := make(chan readResult)
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			reads <- readResult{msg, err}
			if err != nil {
				return
			}
		}
	}()

	var all []V
	for {
		select {
		case r := <-reads:
			if r.err != nil {
				if websocket.IsCloseError(r.err, websocket.CloseNormalClosure) {
					s.logger.Trace("closed normally", "url", s.option.URL)
					values, err := s.parser.Finish()
					return append(all, values...), err
				}
				return all, fmt.Errorf("websocket read %s: %w", s.option.URL, r.err)
			}
			values, err := s.parser.Absorb(r.payload)
			all = append(all, values...)
			if err != nil {
				return all, err
			}
		case <-tickC:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return all, fmt.Errorf("websocket ping %s: %w", s.option.URL, err)
			}
		}
	}
}
