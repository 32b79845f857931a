// Package discord publishes the status card as a Discord embed.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/edgard/armastatus/internal/domain/model"
)

// Discord embed limits.
const (
	maxFields     = 25
	maxFieldValue = 1024
	maxEmbedTotal = 6000

	// room for the "+N more sections" field
	overflowReserve = 40
)

// session is the subset of *discordgo.Session the publisher uses.
type session interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Publisher sends and edits the status embed in one channel.
type Publisher struct {
	sdk       *discordgo.Session
	api       session
	channelID string
	logger    *slog.Logger
}

// NewPublisher creates a publisher for channelID authenticated with botToken.
func NewPublisher(botToken, channelID string, logger *slog.Logger) (*Publisher, error) {
	if botToken == "" {
		return nil, errors.New("discord bot token cannot be empty")
	}
	if channelID == "" {
		return nil, errors.New("discord channel id cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	sdk, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	sdk.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	p := newPublisher(sdk, channelID, logger)
	p.sdk = sdk
	sdk.AddHandler(p.handleReady)
	return p, nil
}

func newPublisher(api session, channelID string, logger *slog.Logger) *Publisher {
	return &Publisher{
		api:       api,
		channelID: channelID,
		logger:    logger.With("component", "discord_publisher", "channel_id", channelID),
	}
}

// Open connects the gateway session.
func (p *Publisher) Open(_ context.Context) error {
	if p.sdk == nil {
		return nil
	}
	if err := p.sdk.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	return nil
}

// Close disconnects the gateway session.
func (p *Publisher) Close() error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Close()
}

func (p *Publisher) handleReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r.User != nil {
		p.logger.Info("Logged in to Discord", "user", r.User.String())
	}
}

// Send posts the embed and returns the new message id.
func (p *Publisher) Send(ctx context.Context, display model.Display) (string, error) {
	if _, err := p.api.Channel(p.channelID, discordgo.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("failed to fetch channel %s: %w", p.channelID, err)
	}

	msg, err := p.api.ChannelMessageSendComplex(p.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{toEmbed(display)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.InfoContext(ctx, "Status message created", "message_id", msg.ID)
	return msg.ID, nil
}

// Edit looks up the channel and message, then replaces the message embeds.
func (p *Publisher) Edit(ctx context.Context, messageID string, display model.Display) error {
	if _, err := p.api.Channel(p.channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to fetch channel %s: %w", p.channelID, err)
	}

	msg, err := p.api.ChannelMessage(p.channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}

	embeds := []*discordgo.MessageEmbed{toEmbed(display)}
	edit := discordgo.NewMessageEdit(msg.ChannelID, msg.ID)
	edit.Embeds = &embeds

	if _, err := p.api.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to edit message %s: %w", messageID, err)
	}
	return nil
}

// toEmbed renders scalar values as inline code and each roster section as
// an ansi code block with one colorized name per line. Sections that would
// break the field count or the total embed size are folded into a final
// "+N more sections" field.
func toEmbed(d model.Display) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: d.Title,
		Color: d.Color,
	}
	if !d.Timestamp.IsZero() {
		embed.Timestamp = d.Timestamp.UTC().Format(time.RFC3339)
	}
	if d.AuthorName != "" {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: d.AuthorName, IconURL: d.AuthorIconURL}
	}
	total := runes(d.Title) + runes(d.AuthorName)

	for _, f := range d.Fields {
		value := "`" + noBackticks(f.Value) + "`"
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  value,
			Inline: f.Inline,
		})
		total += runes(f.Name) + runes(value)
	}

	for i, s := range d.Sections {
		value := ansiBlock(s.Members)
		size := runes(s.Name) + runes(value)

		need, fieldsNeeded := size, 1
		if i < len(d.Sections)-1 {
			need += overflowReserve
			fieldsNeeded++
		}
		if len(embed.Fields)+fieldsNeeded > maxFields || total+need > maxEmbedTotal {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "…",
				Value: fmt.Sprintf("+%d more sections", len(d.Sections)-i),
			})
			break
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   s.Name,
			Value:  value,
			Inline: false,
		})
		total += size
	}

	return embed
}

func runes(s string) int {
	return utf8.RuneCountInString(s)
}

// noBackticks keeps user supplied text from closing a code span or block.
func noBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}

// ansiBlock keeps the block under maxFieldValue, replacing the names that do
// not fit with a "+N more" line.
func ansiBlock(members []model.Member) string {
	const (
		fenceOpen  = "```ansi\n"
		fenceClose = "```"

		// room for "+NNNN more\n"
		moreReserve = 16
	)

	var b strings.Builder
	b.WriteString(fenceOpen)
	for i, m := range members {
		line := fmt.Sprintf("\u001b[%sm%s\u001b[0m\n", m.Color, noBackticks(m.Name))
		if b.Len()+len(line)+len(fenceClose)+moreReserve > maxFieldValue {
			fmt.Fprintf(&b, "+%d more\n", len(members)-i)
			break
		}
		b.WriteString(line)
	}
	b.WriteString(fenceClose)
	return b.String()
}
