package internal

import (
	"time"

	"github.com/valpere/prosemark/internal/parse"
)

// Paper is one content field submitted for analysis.
type Paper struct {
	ID        string        `json:"id"`
	Markup    string        `json:"markup"`
	Locale    string        `json:"locale"`
	Keyphrase string        `json:"keyphrase"`
	Blocks    []parse.Block `json:"blocks,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
