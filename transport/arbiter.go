// Package transport carries GameState across the wire: ArbiterClient reads
// the inbound 152-byte frame feed (and, in simulation mode, loops emitted
// actions back over the same socket), while Dispatcher drains the outbound
// action queue toward the robot link.
package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"

	"pacbot/game"
)

// Timing constants mirror the teacher's websocket server: a short write
// deadline, a generous pong wait, and a ping period at 90% of that wait so
// at least one ping lands before the peer would time out.
const (
	writeWait        = 1 * time.Second
	maxMessageSize   = game.FrameSize + 64
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	closeGracePeriod = 10 * time.Second
)

// ErrArbiterClosed is returned from Run when the arbiter connection closes,
// whether cleanly or not; Run marks the state disconnected either way.
var ErrArbiterClosed = errors.New("transport: arbiter connection closed")

// ArbiterClient owns one websocket connection to the arbiter and feeds
// every inbound frame into a shared GameState.
type ArbiterClient struct {
	conn *websocket.Conn

	// SimulationMode, when set, writes emitted outbound actions back over
	// this same connection instead of leaving them for a UDP Dispatcher.
	SimulationMode bool
}

// Dial opens a websocket connection to url and wraps it as an ArbiterClient.
func Dial(url string, simulationMode bool) (*ArbiterClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial arbiter: %w", err)
	}
	conn.SetReadLimit(maxMessageSize)
	return &ArbiterClient{conn: conn, SimulationMode: simulationMode}, nil
}

// Run reads frames off the connection until it closes or done fires. Every
// well-formed 152-byte frame is fed to s.Update under lock arbitration
// handled by GameState itself (Update no-ops while locked, matching the
// cooperative-scheduling contract in spec.md §5). Malformed frames are
// dropped, not fatal.
func (c *ArbiterClient) Run(done <-chan struct{}, s *game.GameState) error {
	s.SetConnected(true)
	defer s.SetConnected(false)

	lastPong := time.Now()
	c.conn.SetPongHandler(func(string) error {
		lastPong = time.Now()
		return nil
	})

	reads := make(chan []byte)
	readErrs := make(chan error, 1)
	go func() {
		for {
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				readErrs <- err
				return
			}
			reads <- data
		}
	}()

	pinger := channerics.NewTicker(done, pingPeriod)
	for {
		select {
		case <-done:
			c.closeWebsocket()
			return ErrArbiterClosed
		case err := <-readErrs:
			if isClosure(err) {
				return ErrArbiterClosed
			}
			return fmt.Errorf("transport: arbiter read: %w", err)
		case data := <-reads:
			if len(data) != game.FrameSize {
				continue
			}
			_ = s.Update(data, false)
		case <-pinger:
			if time.Since(lastPong) > pingPeriod*2 {
				c.closeWebsocket()
				return ErrArbiterClosed
			}
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				if isError(err) {
					return fmt.Errorf("transport: ping: %w", err)
				}
				return ErrArbiterClosed
			}
		}
	}
}

// WriteLoopback writes a frame back over the arbiter connection; used only
// in simulation mode, where there is no separate robot link to answer the
// emitted action.
func (c *ArbiterClient) WriteLoopback(frame []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, frame)
}

func (c *ArbiterClient) closeWebsocket() {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	c.conn.Close()
}

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
