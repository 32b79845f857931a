// Package telegram publishes the status card as an HTML formatted Telegram
// message.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/armastatus/internal/domain/model"
)

// maxMessageLength is the Telegram limit for a text message.
const maxMessageLength = 4096

type telegramAPI interface {
	GetMe(ctx context.Context) (*models.User, error)
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
}

// Publisher sends and edits the status message in one chat.
type Publisher struct {
	api    telegramAPI
	chatID string
	logger *slog.Logger
}

// NewPublisher creates the bot client and a publisher bound to chatID.
// chatID is either a numeric id or an @channel username.
func NewPublisher(token, chatID string, logger *slog.Logger, opts ...bot.Option) (*Publisher, error) {
	if token == "" {
		return nil, errors.New("telegram bot token cannot be empty")
	}
	if chatID == "" {
		return nil, errors.New("telegram chat id cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return newPublisher(b, chatID, logger), nil
}

func newPublisher(api telegramAPI, chatID string, logger *slog.Logger) *Publisher {
	return &Publisher{
		api:    api,
		chatID: chatID,
		logger: logger.With("component", "telegram_publisher", "chat_id", chatID),
	}
}

// Open verifies the token by fetching the bot identity.
func (p *Publisher) Open(ctx context.Context) error {
	me, err := p.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}
	p.logger.InfoContext(ctx, "Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)
	return nil
}

// Close is a no-op; the publisher holds no long lived connection.
func (p *Publisher) Close() error {
	return nil
}

// Send posts the status message and returns its id.
func (p *Publisher) Send(ctx context.Context, display model.Display) (string, error) {
	msg, err := p.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:             p.chatID,
		Text:               renderHTML(display),
		ParseMode:          models.ParseModeHTML,
		LinkPreviewOptions: noPreview(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	id := strconv.Itoa(msg.ID)
	p.logger.InfoContext(ctx, "Status message created", "message_id", id)
	return id, nil
}

// Edit replaces the text of messageID. An edit with unchanged content is
// reported by Telegram as an error and is treated as success here.
func (p *Publisher) Edit(ctx context.Context, messageID string, display model.Display) error {
	id, err := strconv.Atoi(messageID)
	if err != nil {
		return fmt.Errorf("invalid telegram message id %q: %w", messageID, err)
	}

	_, err = p.api.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:             p.chatID,
		MessageID:          id,
		Text:               renderHTML(display),
		ParseMode:          models.ParseModeHTML,
		LinkPreviewOptions: noPreview(),
	})
	if err != nil {
		if isNotModified(err) {
			p.logger.DebugContext(ctx, "Status message unchanged", "message_id", messageID)
			return nil
		}
		return fmt.Errorf("failed to edit message %s: %w", messageID, err)
	}
	return nil
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}

func noPreview() *models.LinkPreviewOptions {
	disabled := true
	return &models.LinkPreviewOptions{IsDisabled: &disabled}
}

// renderHTML lays out the card as bold headings, inline code values and one
// preformatted block per roster section. Sections that would push the text
// past maxMessageLength are collapsed into a trailing count.
func renderHTML(d model.Display) string {
	var head strings.Builder
	if d.AuthorName != "" {
		fmt.Fprintf(&head, "<i>%s</i>\n", html.EscapeString(d.AuthorName))
	}
	if d.Title != "" {
		fmt.Fprintf(&head, "<b>%s</b>\n", html.EscapeString(d.Title))
	}
	head.WriteString("\n")
	for _, f := range d.Fields {
		fmt.Fprintf(&head, "<b>%s:</b> <code>%s</code>\n", html.EscapeString(f.Name), html.EscapeString(f.Value))
	}

	var foot string
	if !d.Timestamp.IsZero() {
		foot = fmt.Sprintf("\n<i>%s</i>", d.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	}

	// room for the "+N more" marker
	budget := maxMessageLength - head.Len() - len(foot) - 32

	var body strings.Builder
	for i, s := range d.Sections {
		block := fmt.Sprintf("\n<b>%s</b>\n<pre>%s</pre>\n",
			html.EscapeString(s.Name),
			html.EscapeString(strings.Join(s.MemberNames(), "\n")))
		if body.Len()+len(block) > budget {
			fmt.Fprintf(&body, "\n<i>+%d more sections</i>\n", len(d.Sections)-i)
			break
		}
		body.WriteString(block)
	}

	return strings.TrimRight(head.String()+body.String(), "\n") + foot
}
