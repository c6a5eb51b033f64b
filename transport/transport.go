// Package transport drives the two physical connections a session uses — a
// reliable (TCP) stream and a best-effort (UDP) datagram socket — as a
// handful of goroutines exchanging netcode.Frame values over channels, in
// the spirit of the teacher's accept-loop-plus-writer-goroutine shape
// (handler.go's startMuxTunnel: one goroutine draining the connection, one
// ticker-driven goroutine writing back).
package transport

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"

	"github.com/sirupsen/logrus"

	"mindustry-netclient/netcode"
)

var log = logrus.WithField("component", "transport")

// Outbound is one queued write: already-framed bytes (outer u16 length
// included), written to TCP when Reliable or sent as one UDP datagram
// otherwise.
type Outbound struct {
	Data     []byte
	Reliable bool
}

// Transport owns the TCP and UDP connections for one session and the
// channels its reader/writer goroutines communicate over.
type Transport struct {
	tcp net.Conn
	udp net.PacketConn

	udpAddr net.Addr

	Frames chan netcode.Frame
	Errors chan error

	outbound chan Outbound
}

// Dial opens the reliable TCP connection and the best-effort UDP socket to
// addr, and starts the reader/writer goroutines. Callers stop the session by
// cancelling ctx.
func Dial(ctx context.Context, addr string) (*Transport, error) {
	tcp, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}

	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		tcp.Close()
		return nil, err
	}
	udp, err := net.ListenUDP("udp", nil)
	if err != nil {
		tcp.Close()
		return nil, err
	}

	t := &Transport{
		tcp:      tcp,
		udp:      udp,
		udpAddr:  udpAddr,
		Frames:   make(chan netcode.Frame, 64),
		Errors:   make(chan error, 4),
		outbound: make(chan Outbound, 64),
	}

	go t.readTCP(ctx)
	go t.readUDP(ctx)
	go t.writeLoop(ctx)

	return t, nil
}

// Send queues an outbound write. Reliable writes go out over TCP in order;
// unreliable ones are fire-and-forget UDP datagrams.
func (t *Transport) Send(data []byte, reliable bool) {
	select {
	case t.outbound <- Outbound{Data: data, Reliable: reliable}:
	default:
		log.Warn("outbound queue full, dropping frame")
	}
}

// Close tears down both connections.
func (t *Transport) Close() error {
	err1 := t.tcp.Close()
	err2 := t.udp.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func (t *Transport) readTCP(ctx context.Context) {
	br := bufio.NewReader(t.tcp)
	lengthBuf := make([]byte, 2)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, err := io.ReadFull(br, lengthBuf); err != nil {
			t.sendError(err)
			return
		}
		length := binary.BigEndian.Uint16(lengthBuf)

		body := make([]byte, length)
		if _, err := io.ReadFull(br, body); err != nil {
			t.sendError(err)
			return
		}

		frame, err := netcode.ReadFrame(body)
		if err != nil {
			log.WithError(err).Warn("dropping malformed frame")
			continue
		}

		select {
		case t.Frames <- frame:
		case <-ctx.Done():
			return
		}
	}
}

func (t *Transport) readUDP(ctx context.Context) {
	buf := make([]byte, 65536)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, _, err := t.udp.ReadFrom(buf)
		if err != nil {
			t.sendError(err)
			return
		}

		frame, err := netcode.ReadFrame(buf[:n])
		if err != nil {
			log.WithError(err).Warn("dropping malformed datagram")
			continue
		}

		select {
		case t.Frames <- frame:
		case <-ctx.Done():
			return
		}
	}
}

func (t *Transport) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case out := <-t.outbound:
			var err error
			if out.Reliable {
				_, err = t.tcp.Write(out.Data)
			} else {
				_, err = t.udp.WriteTo(out.Data, t.udpAddr)
			}
			if err != nil {
				log.WithError(err).Error("write failed")
				t.sendError(err)
			}
		}
	}
}

func (t *Transport) sendError(err error) {
	select {
	case t.Errors <- err:
	default:
	}
}
