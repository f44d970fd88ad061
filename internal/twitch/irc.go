package twitch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	irc "github.com/gempir/go-twitch-irc/v4"

	"github.com/ostuni/ripbot/internal/chat"
)

// Router consumes inbound messages. Satisfied by handlers.Router.
type Router interface {
	Route(ctx context.Context, msg chat.Message)
}

// Chat is the IRC connection to a single channel. It adapts inbound private
// messages to the pipeline's message model and sends threaded replies back.
type Chat struct {
	client  *irc.Client
	channel string
	logger  *slog.Logger
}

// NewChat creates the IRC adapter for the given channel. token is the bare
// OAuth token, the oauth: prefix is added here.
func NewChat(login, token, channel string, logger *slog.Logger) *Chat {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}

	client := irc.NewClient(login, token)
	client.Join(channel)

	return &Chat{
		client:  client,
		channel: channel,
		logger:  logger.With("component", "irc"),
	}
}

// OnMessage registers the router that receives every private message. Each
// message is routed on its own goroutine so a slow upstream lookup never
// blocks the read loop. ctx is the lifetime of the connection.
func (c *Chat) OnMessage(ctx context.Context, router Router) {
	c.client.OnPrivateMessage(func(m irc.PrivateMessage) {
		go router.Route(ctx, toMessage(m))
	})
}

func toMessage(m irc.PrivateMessage) chat.Message {
	return chat.Message{
		ID:      m.ID,
		Channel: m.Channel,
		Raw:     m.Message,
		Sender: chat.Sender{
			ID:          m.User.ID,
			Login:       m.User.Name,
			DisplayName: m.User.DisplayName,
			Badges:      m.User.Badges,
		},
		ReplyParentLogin: m.Tags["reply-parent-user-login"],
		IsAction:         m.Action,
	}
}

// Reply posts text as a threaded reply under the parent message.
func (c *Chat) Reply(_ context.Context, channel, parentMessageID, text string) error {
	c.client.Reply(channel, parentMessageID, text)
	return nil
}

// Run connects and blocks until the connection fails or ctx is canceled. On
// cancellation the connection is closed and nil is returned so a clean
// shutdown does not read as a failure.
func (c *Chat) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.client.Connect()
	}()

	c.logger.InfoContext(ctx, "Connecting to chat", "channel", c.channel)

	select {
	case <-ctx.Done():
		if err := c.client.Disconnect(); err != nil {
			c.logger.WarnContext(ctx, "Error disconnecting from chat", "error", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("chat connection failed: %w", err)
		}
		return nil
	}
}
