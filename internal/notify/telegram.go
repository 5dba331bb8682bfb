// Package notify delivers alerts through the Telegram Bot API.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/seenimoa/filingwatch/internal/infra"
)

const defaultAPIBase = "https://api.telegram.org"

// MaxMessageLen is Telegram's hard per-message limit. Messages longer than
// this are split into chunks before sending.
const MaxMessageLen = 4096

// ChunkSize is the per-chunk budget when splitting, kept under the hard
// limit so chunk ordinals and markup never push a chunk over it.
const ChunkSize = 4000

// Options configures a Telegram notifier. Zero limits fall back to the
// package defaults.
type Options struct {
	Token         string
	ChatID        string
	SendDelay     time.Duration
	MaxMessageLen int
	ChunkSize     int
}

// Telegram sends messages to one chat via the Bot API.
// All sends use HTML parse mode with link previews disabled, and pause
// after each request to stay under the Bot API flood limits.
type Telegram struct {
	apiBase   string
	token     string
	chatID    string
	sendDelay time.Duration
	maxLen    int
	chunkSize int
}

// NewTelegram creates a notifier for one bot token and chat.
func NewTelegram(opts Options) *Telegram {
	if opts.MaxMessageLen <= 0 {
		opts.MaxMessageLen = MaxMessageLen
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = ChunkSize
	}
	return &Telegram{
		apiBase:   defaultAPIBase,
		token:     opts.Token,
		chatID:    opts.ChatID,
		sendDelay: opts.SendDelay,
		maxLen:    opts.MaxMessageLen,
		chunkSize: opts.ChunkSize,
	}
}

// Configured reports whether credentials are present. An unconfigured
// notifier fails every send; the pipeline then leaves records unseen so
// they are retried once credentials appear.
func (t *Telegram) Configured() bool {
	return t.token != "" && t.chatID != ""
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers one message, splitting it into chunks when it exceeds the
// Telegram limit. Returns an error unless every chunk is accepted: the
// caller must not mark the underlying record as alerted on failure.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if !t.Configured() {
		return fmt.Errorf("telegram: token or chat_id not configured")
	}

	chunks := SplitMessage(text, t.maxLen, t.chunkSize)
	for i, chunk := range chunks {
		if err := t.sendOne(ctx, chunk); err != nil {
			return fmt.Errorf("telegram: chunk %d/%d: %w", i+1, len(chunks), err)
		}
		infra.Sleep(ctx, t.sendDelay)
	}
	return nil
}

func (t *Telegram) sendOne(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	respBody, err := infra.DoPostJSON(ctx, url, sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return err
	}

	var resp sendMessageResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("decode sendMessage response: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("sendMessage rejected: %s", resp.Description)
	}

	log.WithField("chars", len(text)).Debug("telegram message sent")
	return nil
}

// SplitMessage splits text into ordered chunks of at most chunkSize bytes
// when it exceeds maxLen. Concatenating the chunks reproduces the input
// exactly. Split points back off to a rune boundary so a multi-byte
// character is never torn across chunks.
func SplitMessage(text string, maxLen, chunkSize int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > chunkSize {
		cut := chunkSize
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if len(text) > 0 {
		chunks = append(chunks, text)
	}
	return chunks
}
