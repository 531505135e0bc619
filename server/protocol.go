// Package server streams zoom sequences to websocket clients and renders
// single frames over plain HTTP.
//
// A client opens /ws and sends one JSON config.Config. For every frame the
// server answers with a JSON FrameHeader followed by one binary message
// holding the encoded image. A final header with Done set ends the stream;
// a header with Error set reports a rejected request or a failed render.
package server

// FrameHeader announces the next binary message or ends the stream.
type FrameHeader struct {
	Index  int     `json:"index"`
	Label  string  `json:"label,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Format string  `json:"format,omitempty"`
	Bytes  int     `json:"bytes,omitempty"`

	Done  bool   `json:"done,omitempty"`
	Error string `json:"error,omitempty"`
}
