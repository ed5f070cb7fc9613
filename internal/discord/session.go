// Package discord adapts the Discord gateway to the bot's event-handling
// boundary. It owns the connection lifecycle only; classification and
// ledger semantics live behind bot.Handler.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/roach88/incydecy/internal/bot"
)

// Session wraps a discordgo session as both the event source (gateway
// message events become bot.Events) and the response sink (replies go
// back to the originating channel).
type Session struct {
	s       *discordgo.Session
	handler *bot.Handler
	log     *slog.Logger
}

// New creates an unopened session authenticated with the given bot token.
func New(token string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	// Message content requires a privileged intent since API v10.
	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return &Session{s: s, log: logger}, nil
}

// Bind registers the handler that receives inbound message events.
// Must be called before Open.
func (se *Session) Bind(h *bot.Handler) {
	se.handler = h
	se.s.AddHandler(se.onMessageCreate)
}

// Open connects to the gateway and starts delivering events.
func (se *Session) Open() error {
	if se.handler == nil {
		return fmt.Errorf("open discord session: no handler bound")
	}
	if err := se.s.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	se.log.Info("connected to discord gateway")
	return nil
}

// Close disconnects from the gateway.
func (se *Session) Close() error {
	return se.s.Close()
}

// Post implements bot.Responder. discordgo manages its own rate-limit
// buckets and retries; the context is not threaded through its REST
// layer.
func (se *Session) Post(_ context.Context, channelID, text string) error {
	if _, err := se.s.ChannelMessageSend(channelID, text); err != nil {
		return fmt.Errorf("send message to %s: %w", channelID, err)
	}
	return nil
}

// onMessageCreate translates one gateway event and runs the handler.
// Handler errors are logged, never fatal to the connection; a failed
// event is simply lost unless Discord redelivers it.
func (se *Session) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	ev := bot.Event{
		ScopeID:   ScopeKey(m.GuildID, m.Author.ID),
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		EventID:   m.ID,
		TimeSent:  m.Timestamp,
		Text:      m.Content,
		FromBot:   m.Author.Bot,
	}

	if err := se.handler.Handle(context.Background(), ev); err != nil {
		se.log.Error("event handling failed", "event", ev.EventID, "error", err)
	}
}

// ScopeKey derives the ledger scope for a message: counters are
// per-guild, while direct messages get a private per-user scope.
func ScopeKey(guildID, authorID string) string {
	if guildID == "" {
		return "user." + authorID
	}
	return "guild." + guildID
}
