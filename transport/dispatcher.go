package transport

import (
	"fmt"
	"log"
	"net"
	"time"

	channerics "github.com/niceyeti/channerics/channels"

	"pacbot/game"
	"pacbot/maze"
)

// actionRecordSize is the wire size of one outbound action, per
// original_source/bot_client/robotSocket.py: direction byte, distance,
// targetRow, targetCol, waitTicks.
const actionRecordSize = 5

// dispatchPeriod is how often the dispatcher checks the outbound queue for
// new work; it does not need to be as tight as the decision loop's own
// tick, since actions accumulate in the bounded queue between drains.
const dispatchPeriod = 10 * time.Millisecond

var directionByte = [5]byte{
	maze.Up:    'w',
	maze.Left:  'a',
	maze.Down:  's',
	maze.Right: 'd',
	maze.None:  '.',
}

// EncodeAction packs a into the fixed 5-byte record the robot link expects.
func EncodeAction(a game.Action) [actionRecordSize]byte {
	var buf [actionRecordSize]byte
	buf[0] = directionByte[a.Direction]
	buf[1] = a.Distance
	buf[2] = byte(a.TargetRow)
	buf[3] = byte(a.TargetCol)
	buf[4] = a.WaitTicks
	return buf
}

// Dispatcher drains GameState's bounded outbound action queue and forwards
// each action to the robot link, or loops it back over the arbiter
// connection when running in simulation mode.
type Dispatcher struct {
	arbiter *ArbiterClient
	udp     *net.UDPConn

	simulationMode     bool
	reliabilityEnabled bool

	logger *log.Logger
}

// NewSimulationDispatcher builds a Dispatcher that writes emitted actions
// back over the arbiter's own websocket connection.
func NewSimulationDispatcher(arbiter *ArbiterClient, logger *log.Logger) *Dispatcher {
	return &Dispatcher{arbiter: arbiter, simulationMode: true, logger: logger}
}

// NewRobotDispatcher builds a Dispatcher that sends actions as UDP
// datagrams to the robot at addr. net.DialUDP is stdlib: no third-party UDP
// client appears anywhere in the corpus, so there is nothing to wire here.
func NewRobotDispatcher(addr string, reliabilityEnabled bool, logger *log.Logger) (*Dispatcher, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve robot address: %w", err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial robot: %w", err)
	}
	return &Dispatcher{udp: conn, reliabilityEnabled: reliabilityEnabled, logger: logger}, nil
}

// Run drains s's outbound queue until done fires, forwarding every action
// it finds queued on each tick. Retransmission and sequence-numbering of the robot
// link are out of scope; when ReliabilityEnabled was requested this only
// logs that the core does not implement it.
func (d *Dispatcher) Run(done <-chan struct{}, s *game.GameState) error {
	if d.reliabilityEnabled {
		d.log("reliability requested but not implemented by the core; sending best-effort only")
	}

	ticks := channerics.NewTicker(done, dispatchPeriod)
	for {
		select {
		case <-done:
			return nil
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			for {
				action, ok := s.Dequeue()
				if !ok {
					break
				}
				if err := d.send(action); err != nil {
					d.log(fmt.Sprintf("dispatch failed: %v", err))
				}
			}
		}
	}
}

func (d *Dispatcher) send(a game.Action) error {
	record := EncodeAction(a)
	if d.simulationMode {
		return d.arbiter.WriteLoopback(record[:])
	}
	_, err := d.udp.Write(record[:])
	return err
}

func (d *Dispatcher) log(msg string) {
	if d.logger != nil {
		d.logger.Println("dispatcher:", msg)
	}
}

// Close releases the dispatcher's transport-level resources, if any.
func (d *Dispatcher) Close() error {
	if d.udp != nil {
		return d.udp.Close()
	}
	return nil
}
