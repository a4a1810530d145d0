package chunker

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

var loaderOnce sync.Once

// TokenLen returns a LenFunc counting tokens of the encoding used by model.
// BPE tables are loaded from the embedded offline loader, never the network.
func TokenLen(model string) (LenFunc, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("tokenizer for %s: %w", model, err)
	}
	return func(s string) int {
		return len(enc.Encode(s, nil, nil))
	}, nil
}
