package slack

import (
	"context"
	"fmt"
	"strings"

	api "github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/hucklog/hucklog/pkg/logger"
)

// Command is one received slash command.
type Command struct {
	Name      string
	ChannelID string
	UserID    string
}

// CommandHandler executes one slash command and returns a short status line
// for the invoker.
type CommandHandler func(ctx context.Context, cmd Command) (string, error)

// Listener serves slash commands over socket mode. Commands are accepted
// from direct messages and from the captains channel; anything else gets a
// refusal instead of silence.
type Listener struct {
	api             *api.Client
	socket          *socketmode.Client
	captainsChannel string
	handlers        map[string]CommandHandler
	logger          logger.Logger
}

// ListenerOption applies a configuration option to the Listener.
type ListenerOption func(*Listener)

// WithListenerLogger sets a custom logger for the listener.
func WithListenerLogger(l logger.Logger) ListenerOption {
	return func(lst *Listener) {
		if l != nil {
			lst.logger = l
		}
	}
}

// NewListener creates a socket-mode listener. The app token authenticates
// the socket connection, the bot token the command responses.
func NewListener(botToken, appToken, captainsChannel string, handlers map[string]CommandHandler, opts ...ListenerOption) *Listener {
	apiClient := api.New(botToken, api.OptionAppLevelToken(appToken))
	lst := &Listener{
		api:             apiClient,
		socket:          socketmode.New(apiClient),
		captainsChannel: captainsChannel,
		handlers:        handlers,
	}
	for _, opt := range opts {
		opt(lst)
	}
	if lst.logger == nil {
		lst.logger = logger.Get().Named("listener")
	}
	return lst
}

// Run serves slash commands until the context is canceled. Handler failures
// are reported back to the invoker, never propagated as a crash.
func (l *Listener) Run(ctx context.Context) error {
	go l.dispatchLoop(ctx)
	return l.socket.RunContext(ctx)
}

func (l *Listener) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-l.socket.Events:
			if !ok {
				return
			}
			if evt.Type != socketmode.EventTypeSlashCommand {
				continue
			}
			cmd, ok := evt.Data.(api.SlashCommand)
			if !ok {
				continue
			}
			l.socket.Ack(*evt.Request)
			l.handle(ctx, Command{
				Name:      cmd.Command,
				ChannelID: cmd.ChannelID,
				UserID:    cmd.UserID,
			})
		}
	}
}

func (l *Listener) handle(ctx context.Context, cmd Command) {
	l.logger.Info(ctx, "slash command received",
		logger.String("command", cmd.Name),
		logger.String("channel", cmd.ChannelID),
		logger.String("user", cmd.UserID),
	)

	if !l.allowed(cmd.ChannelID) {
		l.respond(ctx, cmd.ChannelID, "⚠️ This command only works in a DM or the captains channel.")
		return
	}

	handler, ok := l.handlers[cmd.Name]
	if !ok {
		l.respond(ctx, cmd.ChannelID, fmt.Sprintf("⚠️ Unknown command %s.", cmd.Name))
		return
	}

	status, err := handler(ctx, cmd)
	if err != nil {
		l.logger.Error(ctx, "slash command failed",
			logger.String("command", cmd.Name),
			logger.Error(err),
		)
		l.respond(ctx, cmd.ChannelID, fmt.Sprintf("⚠️ %s failed: %v", cmd.Name, err))
		return
	}
	l.respond(ctx, cmd.ChannelID, "✅ "+status)
}

// allowed reports whether the channel may issue commands. Direct message
// ids start with D.
func (l *Listener) allowed(channelID string) bool {
	return strings.HasPrefix(channelID, "D") || channelID == l.captainsChannel
}

func (l *Listener) respond(ctx context.Context, channelID, text string) {
	if _, _, err := l.api.PostMessageContext(ctx, channelID, api.MsgOptionText(text, false)); err != nil {
		l.logger.Error(ctx, "command response failed", logger.Error(err))
	}
}
