package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"genreshift/internal/config"
)

const userAgent = "Genreshift/0.1.0"

// Service defines the notification surface exposed to application components.
type Service interface {
	NotifyUploadReceived(ctx context.Context, originalName string, sizeBytes int64) error
	NotifyTransformCompleted(ctx context.Context, originalName, genre string) error
	NotifyTransformDegraded(ctx context.Context, originalName, genre, reason string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint:   topic,
		client:     client,
		uploads:    cfg.Notifications.Uploads,
		transforms: cfg.Notifications.Transforms,
		errors:     cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	uploads    bool
	transforms bool
	errors     bool
}

func (n *ntfyService) NotifyUploadReceived(ctx context.Context, originalName string, sizeBytes int64) error {
	if !n.uploads {
		return nil
	}
	originalName = strings.TrimSpace(originalName)
	data := payload{
		title:   "Genreshift - Upload Received",
		message: fmt.Sprintf("Upload received: %s (%d bytes)", originalName, sizeBytes),
		tags:    []string{"genreshift", "upload", "received"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTransformCompleted(ctx context.Context, originalName, genre string) error {
	if !n.transforms {
		return nil
	}
	originalName = strings.TrimSpace(originalName)
	genre = strings.TrimSpace(genre)
	data := payload{
		title:   "Genreshift - Transform Complete",
		message: fmt.Sprintf("Transformed %s into %s", originalName, genre),
		tags:    []string{"genreshift", "transform", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTransformDegraded(ctx context.Context, originalName, genre, reason string) error {
	if !n.transforms {
		return nil
	}
	originalName = strings.TrimSpace(originalName)
	genre = strings.TrimSpace(genre)
	message := fmt.Sprintf("Delivered %s unchanged; %s transform failed", originalName, genre)
	if reason = strings.TrimSpace(reason); reason != "" {
		message = fmt.Sprintf("%s\nReason: %s", message, reason)
	}
	data := payload{
		title:    "Genreshift - Transform Degraded",
		message:  message,
		tags:     []string{"genreshift", "transform", "degraded"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Genreshift - Error",
		message:  builder.String(),
		tags:     []string{"genreshift", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Genreshift - Test",
		message:  "Notification system test",
		tags:     []string{"genreshift", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyUploadReceived(context.Context, string, int64) error { return nil }

func (noopService) NotifyTransformCompleted(context.Context, string, string) error { return nil }

func (noopService) NotifyTransformDegraded(context.Context, string, string, string) error {
	return nil
}

func (noopService) NotifyError(context.Context, error, string) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
