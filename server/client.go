package server

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandel_zoom"
	"github.com/marben/mandel_zoom/config"
)

// maxFrameBytes bounds a single encoded frame received from a server.
const maxFrameBytes = 256 << 20

// Client receives the frames of one zoom from a server.
type Client struct {
	conn *websocket.Conn
	last FrameHeader
}

var _ mandel.FrameProvider = (*Client)(nil)

// Dial connects to a /ws endpoint and submits req.
func Dial(ctx context.Context, url string, req config.Config) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial %s: %w", url, err)
	}
	conn.SetReadLimit(maxFrameBytes)

	if err := wsjson.Write(ctx, conn, req); err != nil {
		conn.CloseNow()
		return nil, fmt.Errorf("send request: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Next returns the next encoded frame, or io.EOF after the last one.
func (c *Client) Next(ctx context.Context) (index int, label string, encoded []byte, err error) {
	var hdr FrameHeader
	if err := wsjson.Read(ctx, c.conn, &hdr); err != nil {
		return 0, "", nil, fmt.Errorf("read frame header: %w", err)
	}
	c.last = hdr

	switch {
	case hdr.Error != "":
		return 0, "", nil, fmt.Errorf("server: %s", hdr.Error)
	case hdr.Done:
		return 0, "", nil, io.EOF
	}

	typ, data, err := c.conn.Read(ctx)
	if err != nil {
		return 0, "", nil, fmt.Errorf("read frame %d: %w", hdr.Index, err)
	}
	if typ != websocket.MessageBinary {
		return 0, "", nil, fmt.Errorf("frame %d: expected binary message, got %v", hdr.Index, typ)
	}
	if hdr.Bytes != 0 && hdr.Bytes != len(data) {
		return 0, "", nil, fmt.Errorf("frame %d: announced %d bytes, got %d", hdr.Index, hdr.Bytes, len(data))
	}
	return hdr.Index, hdr.Label, data, nil
}

// Header returns the header of the frame last returned by Next.
func (c *Client) Header() FrameHeader {
	return c.last
}

// Close ends the stream. Closing before the last frame stops the server
// from rendering further frames.
func (c *Client) Close() error {
	err := c.conn.Close(websocket.StatusNormalClosure, "")
	var ce websocket.CloseError
	if err == nil || errors.As(err, &ce) {
		return nil
	}
	return err
}
