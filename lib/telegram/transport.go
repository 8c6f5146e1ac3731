// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ticn/linux/lib/chatops"
)

// Handler answers one chat request.
type Handler interface {
	Handle(ctx context.Context, request chatops.Request) chatops.Reply
}

// sender is the subset of *bot.Bot used to answer updates.
type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Options configures a Transport.
type Options struct {
	// Token is the bot API token.
	Token string

	// PollTimeout is the long-poll timeout for getUpdates. Zero uses
	// the library default.
	PollTimeout time.Duration

	Handler Handler
	Logger  *slog.Logger
}

// Transport receives updates from Telegram and dispatches them.
type Transport struct {
	bot     *bot.Bot
	handler Handler
	logger  *slog.Logger
}

// New creates a Transport. It contacts the API once to verify the token.
func New(options Options) (*Transport, error) {
	if options.Token == "" {
		return nil, fmt.Errorf("telegram: token is required")
	}
	if options.Handler == nil {
		return nil, fmt.Errorf("telegram: handler is required")
	}
	transport := &Transport{
		handler: options.Handler,
		logger:  options.Logger,
	}

	botOptions := []bot.Option{
		bot.WithDefaultHandler(transport.onUpdate),
		bot.WithErrorsHandler(func(err error) {
			transport.logger.Warn("telegram polling error", "error", err)
		}),
	}
	if options.PollTimeout > 0 {
		// The HTTP client must outlive the long poll it carries.
		client := &http.Client{Timeout: options.PollTimeout + 10*time.Second}
		botOptions = append(botOptions, bot.WithHTTPClient(options.PollTimeout, client))
	}

	b, err := bot.New(options.Token, botOptions...)
	if err != nil {
		return nil, fmt.Errorf("telegram: creating bot: %w", err)
	}
	transport.bot = b
	return transport, nil
}

// Run polls for updates until ctx is cancelled.
func (t *Transport) Run(ctx context.Context) error {
	t.logger.Info("telegram transport started")
	t.bot.Start(ctx)
	t.logger.Info("telegram transport stopped")
	return nil
}

func (t *Transport) onUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	dispatch(ctx, b, t.handler, t.logger, update)
}

// dispatch answers a single update. Send failures are logged; the
// update is not retried.
func dispatch(ctx context.Context, out sender, handler Handler, logger *slog.Logger, update *models.Update) {
	request, ok := requestFromUpdate(update)
	if !ok {
		logger.Debug("ignoring non-text update", "update_id", update.ID)
		return
	}

	reply := handler.Handle(ctx, request)
	if reply.Text == "" {
		return
	}
	if _, err := out.SendMessage(ctx, sendParams(request.ChatID, reply)); err != nil {
		logger.Error("sending reply", "update_id", update.ID, "chat_id", request.ChatID, "error", err)
	}
}

// requestFromUpdate extracts a chat request from a text message. The
// second result is false for every other kind of update.
func requestFromUpdate(update *models.Update) (chatops.Request, bool) {
	if update == nil || update.Message == nil || update.Message.Text == "" {
		return chatops.Request{}, false
	}
	return chatops.Request{
		ChatID: update.Message.Chat.ID,
		Text:   update.Message.Text,
	}, true
}

// sendParams renders reply for chatID. Options become a one-row-per-tag
// keyboard that hides itself after one press.
func sendParams(chatID int64, reply chatops.Reply) *bot.SendMessageParams {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   reply.Text,
	}
	if len(reply.Options) == 0 {
		params.ReplyMarkup = &models.ReplyKeyboardRemove{RemoveKeyboard: true}
		return params
	}

	keyboard := make([][]models.KeyboardButton, 0, len(reply.Options))
	for _, option := range reply.Options {
		keyboard = append(keyboard, []models.KeyboardButton{{Text: option}})
	}
	params.ReplyMarkup = &models.ReplyKeyboardMarkup{
		Keyboard:        keyboard,
		OneTimeKeyboard: true,
		ResizeKeyboard:  true,
	}
	return params
}
