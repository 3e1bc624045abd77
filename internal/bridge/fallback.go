package bridge

import (
	"context"
	"encoding/json"
	"fmt"
)

// FallbackPrefix labels every text result produced without a host.
const FallbackPrefix = "Web fallback: "

// FallbackClient answers commands deterministically when no native bridge exists.
// Text is transformed locally; enumeration commands resolve to empty collections.
type FallbackClient struct{}

func NewFallbackClient() *FallbackClient { return &FallbackClient{} }

func (c *FallbackClient) Invoke(ctx context.Context, name string, args Args) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch name {
	case CmdProcessText:
		return json.Marshal(FallbackText(args.String("text")))
	case CmdListDevices, CmdListPrinters, CmdListAllPrinters:
		return json.RawMessage("[]"), nil
	default:
		return nil, unknownCommand(name)
	}
}

func (c *FallbackClient) Close() error { return nil }

// FallbackText is the local rendition of process_text. Empty input stays empty,
// matching what host bridges return.
func FallbackText(text string) string {
	if text == "" {
		return ""
	}
	return fmt.Sprintf("%sHello, %s!", FallbackPrefix, text)
}
