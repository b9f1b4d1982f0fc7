package conversation

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

var (
	codec     tokenizer.Codec
	codecOnce sync.Once
	codecErr  error
)

// getCodec returns the cl100k_base tokenizer shared by all estimators.
func getCodec() (tokenizer.Codec, error) {
	codecOnce.Do(func() {
		codec, codecErr = tokenizer.Get(tokenizer.Cl100kBase)
	})
	return codec, codecErr
}

// TiktokenEstimator estimates tokens with the cl100k_base encoding, a
// reasonable approximation for current chat models. If the codec cannot be
// loaded it falls back to four bytes per token.
type TiktokenEstimator struct{}

// EstimateTokens implements TokenEstimator.
func (TiktokenEstimator) EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	c, err := getCodec()
	if err != nil {
		return (len(text) + 3) / 4
	}

	ids, _, err := c.Encode(text)
	if err != nil {
		return (len(text) + 3) / 4
	}

	return len(ids)
}
