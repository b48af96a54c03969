// Package slack adapts the workspace API to the tracker's needs: paged
// history fetches, thread expansion, report posting and roster lookups.
package slack

import (
	"context"
	"os"

	api "github.com/slack-go/slack"

	"github.com/hucklog/hucklog/internal/domain/model"
	"github.com/hucklog/hucklog/pkg/logger"
	"github.com/hucklog/hucklog/pkg/metrics"
)

// Page is one slice of channel history plus the cursor to the next one.
type Page struct {
	Messages   []model.Message
	NextCursor string
}

// Profile is the subset of a workspace user needed by the directory.
type Profile struct {
	ID        string
	RealName  string
	AvatarURL string
}

// Client wraps the workspace API client.
type Client struct {
	api    *api.Client
	logger logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a workspace client with the given bot token.
func NewClient(botToken string, opts ...Option) *Client {
	c := &Client{api: api.New(botToken)}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get()
	}
	return c
}

// FetchPage retrieves one page of channel history no older than oldest
// (an epoch-seconds timestamp string; empty means no lower bound). An empty
// returned cursor means the history is exhausted.
func (c *Client) FetchPage(ctx context.Context, channel, oldest, cursor string, limit int) (Page, error) {
	resp, err := c.api.GetConversationHistoryContext(ctx, &api.GetConversationHistoryParameters{
		ChannelID: channel,
		Oldest:    oldest,
		Cursor:    cursor,
		Limit:     limit,
	})
	if err != nil {
		metrics.RecordTransportError("history")
		return Page{}, wrapTransport("fetch history page", err)
	}

	page := Page{Messages: make([]model.Message, 0, len(resp.Messages))}
	for _, m := range resp.Messages {
		page.Messages = append(page.Messages, toModel(m))
	}
	if resp.HasMore {
		page.NextCursor = resp.ResponseMetaData.NextCursor
	}
	metrics.RecordMessagesFetched(len(page.Messages))
	return page, nil
}

// FetchThreadReplies retrieves every reply of the thread rooted at ts,
// following cursors until exhausted. The root message is excluded; history
// already carries it.
func (c *Client) FetchThreadReplies(ctx context.Context, channel, ts string) ([]model.Message, error) {
	var (
		replies []model.Message
		cursor  string
	)
	for {
		msgs, hasMore, next, err := c.api.GetConversationRepliesContext(ctx, &api.GetConversationRepliesParameters{
			ChannelID: channel,
			Timestamp: ts,
			Cursor:    cursor,
		})
		if err != nil {
			metrics.RecordTransportError("replies")
			return nil, wrapTransport("fetch thread replies", err)
		}
		for _, m := range msgs {
			if m.Timestamp == ts {
				continue
			}
			replies = append(replies, toModel(m))
		}
		if !hasMore {
			break
		}
		cursor = next
	}
	metrics.RecordThreadExpanded()
	return replies, nil
}

// LatestMessageTS returns the timestamp of the newest channel message, used
// as the thread anchor for report posts.
func (c *Client) LatestMessageTS(ctx context.Context, channel string) (string, error) {
	resp, err := c.api.GetConversationHistoryContext(ctx, &api.GetConversationHistoryParameters{
		ChannelID: channel,
		Limit:     1,
	})
	if err != nil {
		metrics.RecordTransportError("history")
		return "", wrapTransport("fetch latest message", err)
	}
	if len(resp.Messages) == 0 {
		return "", ErrEmptyChannel
	}
	return resp.Messages[0].Timestamp, nil
}

// PostText posts a message, threaded under threadTS when non-empty, and
// returns the posted message's timestamp.
func (c *Client) PostText(ctx context.Context, channel, text, threadTS string) (string, error) {
	options := []api.MsgOption{api.MsgOptionText(text, false)}
	if threadTS != "" {
		options = append(options, api.MsgOptionTS(threadTS))
	}
	_, ts, err := c.api.PostMessageContext(ctx, channel, options...)
	if err != nil {
		metrics.RecordTransportError("post")
		return "", wrapTransport("post message", err)
	}
	metrics.RecordPostSent("text")
	return ts, nil
}

// PostImage uploads the image at path to the channel with a leading
// comment, threaded under threadTS when non-empty.
func (c *Client) PostImage(ctx context.Context, channel, path, comment, threadTS string) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapTransport("stat image", err)
	}
	_, err = c.api.UploadFileV2Context(ctx, api.UploadFileV2Parameters{
		Channel:        channel,
		File:           path,
		Filename:       info.Name(),
		FileSize:       int(info.Size()),
		InitialComment: comment,
		ThreadTimestamp: threadTS,
	})
	if err != nil {
		metrics.RecordTransportError("upload")
		return wrapTransport("upload image", err)
	}
	metrics.RecordPostSent("image")
	return nil
}

// ListChannelMembers returns the ids of every member of the channel.
func (c *Client) ListChannelMembers(ctx context.Context, channel string) ([]string, error) {
	var (
		members []string
		cursor  string
	)
	for {
		ids, next, err := c.api.GetUsersInConversationContext(ctx, &api.GetUsersInConversationParameters{
			ChannelID: channel,
			Cursor:    cursor,
		})
		if err != nil {
			metrics.RecordTransportError("members")
			return nil, wrapTransport("list channel members", err)
		}
		members = append(members, ids...)
		if next == "" {
			break
		}
		cursor = next
	}
	return members, nil
}

// GetProfile fetches a member's display name and avatar URL.
func (c *Client) GetProfile(ctx context.Context, id string) (Profile, error) {
	user, err := c.api.GetUserInfoContext(ctx, id)
	if err != nil {
		metrics.RecordTransportError("profile")
		return Profile{}, wrapTransport("fetch user profile", err)
	}
	return Profile{
		ID:        user.ID,
		RealName:  user.RealName,
		AvatarURL: user.Profile.Image512,
	}, nil
}

func toModel(m api.Message) model.Message {
	return model.Message{
		Text:     m.Text,
		User:     m.User,
		TS:       m.Timestamp,
		ThreadTS: m.ThreadTimestamp,
	}
}
