package messaging

import (
	"context"
	"fmt"

	stream "github.com/GetStream/stream-chat-go/v5"
)

// BotID is the fixed identity that owns per-user channels and authors replies.
const BotID = "ai_bot"

// Client wraps the Stream Chat API for directory lookups and reply mirroring.
type Client struct {
	api *stream.Client
}

func New(apiKey, apiSecret string) (*Client, error) {
	api, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("stream client: %w", err)
	}
	return &Client{api: api}, nil
}

// UserExists reports whether the directory has a user with the given id.
func (c *Client) UserExists(ctx context.Context, id string) (bool, error) {
	resp, err := c.api.QueryUsers(ctx, &stream.QueryOption{
		Filter: map[string]interface{}{"id": id},
	})
	if err != nil {
		return false, fmt.Errorf("query users: %w", err)
	}
	return len(resp.Users) > 0, nil
}

// UpsertUser creates or updates the directory entry. Stream's upsert is
// idempotent, so a duplicate create from a concurrent registration is harmless.
func (c *Client) UpsertUser(ctx context.Context, id, name string) error {
	_, err := c.api.UpsertUser(ctx, &stream.User{ID: id, Name: name, Role: "user"})
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", id, err)
	}
	return nil
}

// MirrorReply sends the reply text into the user's channel as the bot.
// Channel creation is get-or-create, so existing channels are reused.
func (c *Client) MirrorReply(ctx context.Context, userID, text string) error {
	channelID := "chat-" + userID
	resp, err := c.api.CreateChannel(ctx, "messaging", channelID, BotID, &stream.ChannelRequest{
		ExtraData: map[string]interface{}{"name": channelID},
	})
	if err != nil {
		return fmt.Errorf("create channel %s: %w", channelID, err)
	}
	if _, err := resp.Channel.SendMessage(ctx, &stream.Message{Text: text}, BotID); err != nil {
		return fmt.Errorf("send message to %s: %w", channelID, err)
	}
	return nil
}
