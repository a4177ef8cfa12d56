package clients

import (
	"context"

	ws "ar-dashboard/internal/transport/websocket"
)

const (
	MessageExportProgress = "export_progress"
	MessageExportComplete = "export_complete"
	MessageExportFailed   = "export_failed"
)

// WebSocketClient pushes export notifications to an operator's open sockets.
type WebSocketClient struct {
	hub *ws.Hub
}

func NewWebSocketClient(hub *ws.Hub) *WebSocketClient {
	return &WebSocketClient{hub: hub}
}

func channel(kind, operator string) string {
	return kind + "#" + operator
}

func (c *WebSocketClient) NotifyExportProgress(ctx context.Context, operator, exportID string, progress float64, stage string) error {
	if c == nil || c.hub == nil {
		return nil
	}

	data := map[string]any{
		"id":       exportID,
		"progress": progress,
	}
	if stage != "" {
		data["stage"] = stage
	}

	c.hub.Broadcast(operator, &ws.Message{
		Type:    MessageExportProgress,
		Channel: channel(MessageExportProgress, operator),
		Data:    data,
	})
	return nil
}

func (c *WebSocketClient) NotifyExportComplete(ctx context.Context, operator, exportID, url, filename string) error {
	if c == nil || c.hub == nil {
		return nil
	}

	c.hub.Broadcast(operator, &ws.Message{
		Type:    MessageExportComplete,
		Channel: channel(MessageExportComplete, operator),
		Data: map[string]any{
			"id":       exportID,
			"url":      url,
			"filename": filename,
		},
	})
	return nil
}

func (c *WebSocketClient) NotifyExportFailed(ctx context.Context, operator, exportID, errMsg string) error {
	if c == nil || c.hub == nil {
		return nil
	}

	c.hub.Broadcast(operator, &ws.Message{
		Type:    MessageExportFailed,
		Channel: channel(MessageExportFailed, operator),
		Data: map[string]any{
			"id":      exportID,
			"message": errMsg,
		},
	})
	return nil
}
