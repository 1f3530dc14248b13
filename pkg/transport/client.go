package transport

import (
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/echost-protocol/echost-go/pkg/host"
	"github.com/echost-protocol/echost-go/pkg/log"
	"github.com/echost-protocol/echost-go/pkg/wire"
)

// Client errors.
var (
	ErrClientClosed = errors.New("client is closed")
)

// Config configures a bridge client.
type Config struct {
	// DialTimeout bounds connection establishment (default: 5s).
	DialTimeout time.Duration

	// IOTimeout bounds one full transaction, write plus read
	// (default: 3s; 0 = no deadline).
	IOTimeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		DialTimeout: 5 * time.Second,
		IOTimeout:   3 * time.Second,
	}
}

// Client is a connection to an EC bridge. It implements host.Channel:
// transactions are serialized by a mutex, so at most one exchange is in
// flight regardless of how many goroutines share the client.
type Client struct {
	mu        sync.Mutex
	conn      net.Conn
	cfg       Config
	channelID string
	closed    bool

	logger log.Logger
	device string
}

// Dial connects to an EC bridge at addr on the given network
// ("tcp" or "unix").
func Dial(network, addr string, cfg Config) (*Client, error) {
	conn, err := net.DialTimeout(network, addr, cfg.DialTimeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:      conn,
		cfg:       cfg,
		channelID: uuid.New().String(),
		logger:    log.NoopLogger{},
	}, nil
}

// SetLogger configures protocol capture. Pass nil to disable.
func (c *Client) SetLogger(logger log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if logger == nil {
		logger = log.NoopLogger{}
	}
	c.logger = logger
}

// SetDeviceName tags captured events with a device name.
func (c *Client) SetDeviceName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.device = name
}

// ChannelID returns the unique identifier of this channel.
func (c *Client) ChannelID() string {
	return c.channelID
}

// RemoteAddr returns the bridge address.
func (c *Client) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Transfer performs one complete host-command transaction. It blocks
// until the bridge answers, the deadline passes, or the link fails.
func (c *Client) Transfer(req *wire.Request) (*wire.Response, error) {
	reqPkt, err := wire.EncodeRequestPacket(req)
	if err != nil {
		return nil, &host.TransferError{Code: host.CodeLinkError, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, &host.TransferError{Code: host.CodeClosed, Err: ErrClientClosed}
	}

	start := time.Now()
	if c.cfg.IOTimeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.cfg.IOTimeout)); err != nil {
			return nil, &host.TransferError{Code: host.CodeLinkError, Err: err}
		}
	}

	if err := WritePacket(c.conn, reqPkt); err != nil {
		return nil, c.transferFailed(err)
	}
	c.logFrame(reqPkt, log.DirectionOut)

	respPkt, err := ReadResponsePacket(c.conn)
	if err != nil {
		return nil, c.transferFailed(err)
	}
	c.logFrame(respPkt, log.DirectionIn)

	resp, err := wire.DecodeResponsePacket(respPkt)
	if err != nil {
		return nil, c.transferFailed(err)
	}

	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		ChannelID: c.channelID,
		Direction: log.DirectionOut,
		Device:    c.device,
		Exchange: &log.ExchangeEvent{
			Command:  uint16(req.Command),
			Version:  req.Version,
			OutSize:  len(req.Params),
			InSize:   len(resp.Data),
			Result:   uint16(resp.Result),
			Duration: time.Since(start),
		},
	})
	return resp, nil
}

// transferFailed wraps a link failure, logs it, and classifies timeouts.
func (c *Client) transferFailed(err error) error {
	code := host.CodeLinkError
	var netErr net.Error
	if errors.Is(err, os.ErrDeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		code = host.CodeTimeout
	}

	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		ChannelID: c.channelID,
		Direction: log.DirectionOut,
		Device:    c.device,
		Error: &log.ErrorEvent{
			Code:    code,
			Message: err.Error(),
		},
	})
	return &host.TransferError{Code: code, Err: err}
}

// logFrame records one raw packet.
func (c *Client) logFrame(pkt []byte, dir log.Direction) {
	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		ChannelID: c.channelID,
		Direction: dir,
		Device:    c.device,
		Frame:     log.NewFrameEvent(pkt),
	})
}

// Close closes the connection. Subsequent transfers fail with
// ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// Compile-time interface satisfaction check.
var _ host.Channel = (*Client)(nil)
