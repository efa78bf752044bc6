package rag

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"
	"github.com/sandevgo/ctxengine/pkg/log"
)

// charsPerToken is the estimate used when no BPE encoding is available.
const charsPerToken = 4

// Tokenizer counts tokens with a tiktoken encoding, loaded on first use.
// When the encoding cannot be loaded it falls back to a character estimate.
type Tokenizer struct {
	encoding string
	logger   *zerolog.Logger

	once sync.Once
	enc  *tiktoken.Tiktoken
}

func NewTokenizer(ctx context.Context, encoding string) *Tokenizer {
	return &Tokenizer{
		encoding: encoding,
		logger:   log.FromCtx(ctx),
	}
}

func (t *Tokenizer) getEncoder() *tiktoken.Tiktoken {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.logger.Warn().Err(err).Str("encoding", t.encoding).Msg("tokenizer unavailable, estimating tokens from length")
			return
		}
		t.enc = enc
	})
	return t.enc
}

func (t *Tokenizer) Count(text string) int {
	if text == "" {
		return 0
	}
	if enc := t.getEncoder(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return (utf8.RuneCountInString(text) + charsPerToken - 1) / charsPerToken
}

func (t *Tokenizer) Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}

	if enc := t.getEncoder(); enc != nil {
		tokens := enc.Encode(text, nil, nil)
		if len(tokens) <= limit {
			return text
		}
		// A cut inside a multi-byte rune leaves an invalid tail.
		return strings.ToValidUTF8(enc.Decode(tokens[:limit]), "")
	}

	runes := []rune(text)
	if len(runes) <= limit*charsPerToken {
		return text
	}
	return string(runes[:limit*charsPerToken])
}
