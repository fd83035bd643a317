// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Figure holds a rendered chart as an opaque byte stream. The recording
// engine never interprets Data; it only relays the figure, in insertion
// order, to whatever lays out the final document.
type Figure struct {
	// Name is an optional label for the figure (e.g. a caption stem).
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// MIME is the media type of Data (e.g. "image/png").
	MIME string `json:"mime,omitempty" yaml:"mime,omitempty"`

	// Data is the encoded image.
	Data []byte `json:"data" yaml:"data"`
}
