package api

import (
	"context"
	"net/http"
	"net/url"
)

// Chat posts one message to the assistant and returns its reply.
func (c *Client) Chat(ctx context.Context, msg ChatRequest) (ChatResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/chat", msg, "")
	if err != nil {
		return ChatResponse{}, err
	}
	var res ChatResponse
	if err := c.do(req, &res); err != nil {
		return ChatResponse{}, err
	}
	return res, nil
}

// ChatHistory fetches the stored transcript for a chat session.
func (c *Client) ChatHistory(ctx context.Context, sessionID string) (ChatTranscript, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/session/"+url.PathEscape(sessionID), nil, "")
	if err != nil {
		return ChatTranscript{}, err
	}
	var history ChatTranscript
	if err := c.do(req, &history); err != nil {
		return ChatTranscript{}, err
	}
	return history, nil
}

// DeleteChatSession removes a chat session and its transcript.
func (c *Client) DeleteChatSession(ctx context.Context, token, sessionID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/session/"+url.PathEscape(sessionID), nil, token)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
