package main

import (
    "bytes"
    "errors"
    "fmt"
    "net"
    "os"
    "strings"
    "time"
)

// pollSlice bounds every socket operation in a tick.  Reads, writes and
// accepts use a deadline this far in the future, so a not-ready socket costs
// at most one slice and is retried on a later tick instead of blocking the
// loop.
const pollSlice = time.Millisecond

const (
    maxRequestBytes  = 1024      // a GET request line plus headers fits easily
    maxStreamBacklog = 16 * 1024 // pending SSE bytes before a slow consumer is dropped
    readChunk        = 512
)

// Connection state machine positions.
type connState int

const (
    connReading   connState = iota // accumulating the request head
    connWriting                    // draining a fixed response, then close
    connStreaming                  // draining SSE frames, stays open
    connClosed
)

// ConnectionState carries everything needed to resume one client exchange
// across ticks: received bytes, the state machine position, pending output
// and the bytes-written offset into it.
type ConnectionState struct {
    conn    net.Conn
    state   connState
    in      []byte
    out     []byte
    written int
    last    time.Time // last byte moved in either direction, for the timeout
}

// Server owns the listening socket and all open connections.  Every method is
// called from the scheduler loop only; nothing here blocks longer than one
// poll slice.
type Server struct {
    ln       *net.TCPListener
    conns    []*ConnectionState
    maxConns int
    timeout  time.Duration
    renderer *Renderer
    store    *SnapshotStore
    diag     *DiagnosticsCollector
    logger   *EventLogger
}

func NewServer(cfg Config, renderer *Renderer, store *SnapshotStore, diag *DiagnosticsCollector, logger *EventLogger) (*Server, error) {
    ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.ListenPort))
    if err != nil {
        return nil, err
    }
    tl, ok := ln.(*net.TCPListener)
    if !ok {
        ln.Close()
        return nil, fmt.Errorf("unexpected listener type %T", ln)
    }
    return &Server{
        ln:       tl,
        maxConns: cfg.MaxConnections,
        timeout:  time.Duration(cfg.ConnTimeoutMs) * time.Millisecond,
        renderer: renderer,
        store:    store,
        diag:     diag,
        logger:   logger,
    }, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

func (s *Server) Close() error {
    for _, cs := range s.conns {
        cs.conn.Close()
    }
    s.conns = nil
    return s.ln.Close()
}

// AcceptOne admits at most one pending connection.  Beyond the connection
// cap the client is answered with a 503 and closed once it drains; the loop
// itself never refuses to run.
func (s *Server) AcceptOne(now time.Time) {
    // The deadline must sit in the future at the time of the call: an
    // already-expired deadline fails the operation without attempting it.
    s.ln.SetDeadline(time.Now().Add(pollSlice))
    conn, err := s.ln.Accept()
    if err != nil {
        return // nothing pending, or the listener is closing
    }
    cs := &ConnectionState{conn: conn, state: connReading, last: now}
    if len(s.conns) >= s.maxConns {
        s.logger.Log("connection limit reached, rejecting %s", conn.RemoteAddr())
        cs.out = responseBytes(503, ctText, []byte("busy\n"))
        cs.state = connWriting
    }
    s.conns = append(s.conns, cs)
}

// AdvanceAll gives every connection one bounded step and reaps closed ones.
func (s *Server) AdvanceAll(now time.Time) {
    kept := s.conns[:0]
    for _, cs := range s.conns {
        s.advance(cs, now)
        if cs.state == connClosed {
            cs.conn.Close()
        } else {
            kept = append(kept, cs)
        }
    }
    // Let reaped entries be collected.
    for i := len(kept); i < len(s.conns); i++ {
        s.conns[i] = nil
    }
    s.conns = kept
}

func (s *Server) advance(cs *ConnectionState, now time.Time) {
    if s.timeout > 0 && cs.state != connStreaming && now.Sub(cs.last) > s.timeout {
        s.logger.Log("connection %s timed out", cs.conn.RemoteAddr())
        cs.state = connClosed
        return
    }
    switch cs.state {
    case connReading:
        s.advanceRead(cs, now)
    case connWriting, connStreaming:
        s.advanceWrite(cs, now)
    }
}

// advanceRead pulls whatever bytes are available and dispatches once the
// request head is complete.
func (s *Server) advanceRead(cs *ConnectionState, now time.Time) {
    buf := make([]byte, readChunk)
    // Fresh deadline per operation: advancing earlier connections may have
    // consumed the tick's original now.
    cs.conn.SetReadDeadline(time.Now().Add(pollSlice))
    n, err := cs.conn.Read(buf)
    if n > 0 {
        cs.in = append(cs.in, buf[:n]...)
        cs.last = now
    }
    if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
        cs.state = connClosed // peer went away mid-request
        return
    }
    if bytes.Contains(cs.in, []byte("\r\n\r\n")) {
        s.dispatch(cs)
        return
    }
    if len(cs.in) > maxRequestBytes {
        cs.out = responseBytes(400, ctText, []byte("request too large\n"))
        cs.state = connWriting
    }
}

// dispatch parses the request line, routes on the path and queues the
// response.  Headers beyond the request line are ignored; only bare GETs are
// served.  A malformed request line tears the connection down.
func (s *Server) dispatch(cs *ConnectionState) {
    line, _, _ := strings.Cut(string(cs.in), "\r\n")
    parts := strings.SplitN(line, " ", 3)
    if len(parts) < 3 {
        s.logger.Log("malformed request from %s: %q", cs.conn.RemoteAddr(), line)
        cs.state = connClosed
        return
    }
    method, path := parts[0], parts[1]
    cs.in = nil
    cs.written = 0
    if method != "GET" {
        cs.out = responseBytes(405, ctText, []byte("read-only telemetry\n"))
        cs.state = connWriting
        return
    }
    snap := s.store.Current()
    switch path {
    case "/", "/index.html":
        body, err := s.renderer.Dashboard(snap)
        if err != nil {
            s.logger.Log("dashboard render failed: %v", err)
            cs.out = responseBytes(500, ctText, []byte("render error\n"))
        } else {
            cs.out = responseBytes(200, ctHTML, body)
        }
        cs.state = connWriting
    case "/data", "/status":
        cs.out = responseBytes(200, ctJSON, s.renderer.Status(snap))
        cs.state = connWriting
    case "/info":
        cs.out = responseBytes(200, ctJSON, s.renderer.Info(s.diag.Collect()))
        cs.state = connWriting
    case "/events":
        cs.out = append(sseHeader(), s.renderer.Event(snap)...)
        cs.state = connStreaming
    default:
        cs.out = responseBytes(404, ctText, nil)
        cs.state = connWriting
    }
}

// advanceWrite pushes pending output, tracking the written offset so a
// partial write resumes on the next tick.  Fixed responses close when fully
// drained; streams stay open waiting for the next broadcast.
func (s *Server) advanceWrite(cs *ConnectionState, now time.Time) {
    if cs.written >= len(cs.out) {
        if cs.state == connWriting {
            cs.state = connClosed
        }
        return
    }
    cs.conn.SetWriteDeadline(time.Now().Add(pollSlice))
    n, err := cs.conn.Write(cs.out[cs.written:])
    cs.written += n
    if n > 0 {
        cs.last = now
    }
    if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
        cs.state = connClosed
        return
    }
    if cs.written >= len(cs.out) && cs.state == connWriting {
        cs.state = connClosed
    }
}

// Broadcast queues an SSE frame on every streaming connection.  Consumers
// that cannot drain their backlog are dropped rather than allowed to grow it
// without bound.
func (s *Server) Broadcast(frame []byte) {
    for _, cs := range s.conns {
        if cs.state != connStreaming {
            continue
        }
        if cs.written > 0 {
            cs.out = cs.out[cs.written:]
            cs.written = 0
        }
        if len(cs.out)+len(frame) > maxStreamBacklog {
            s.logger.Log("dropping slow event stream %s", cs.conn.RemoteAddr())
            cs.state = connClosed
            continue
        }
        cs.out = append(cs.out, frame...)
    }
}

const (
    ctHTML = "text/html; charset=utf-8"
    ctJSON = "application/json"
    ctText = "text/plain; charset=utf-8"
)

var statusText = map[int]string{
    200: "OK",
    400: "Bad Request",
    404: "Not Found",
    405: "Method Not Allowed",
    500: "Internal Server Error",
    503: "Service Unavailable",
}

// responseBytes builds a complete HTTP/1.1 response.  Every fixed response
// carries Content-Length and Connection: close.
func responseBytes(code int, ctype string, body []byte) []byte {
    var b bytes.Buffer
    fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", code, statusText[code])
    fmt.Fprintf(&b, "Content-Type: %s\r\n", ctype)
    fmt.Fprintf(&b, "Content-Length: %d\r\n", len(body))
    b.WriteString("Cache-Control: no-cache\r\nConnection: close\r\n\r\n")
    b.Write(body)
    return b.Bytes()
}

func sseHeader() []byte {
    return []byte("HTTP/1.1 200 OK\r\nContent-Type: text/event-stream\r\nCache-Control: no-cache\r\nConnection: keep-alive\r\n\r\n")
}
