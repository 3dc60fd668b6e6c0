package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"genreshift/internal/notifications"
	"genreshift/internal/testsupport"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(cfg)
	if err := svc.NotifyTransformCompleted(context.Background(), "clip.mp3", "jazz"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		send           func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "upload received",
			send: func(svc notifications.Service) error {
				return svc.NotifyUploadReceived(context.Background(), "clip.mp3", 1024)
			},
			expectTitle:   "Genreshift - Upload Received",
			expectMessage: "Upload received: clip.mp3 (1024 bytes)",
			expectTags:    "genreshift,upload,received",
		},
		{
			name: "transform completed",
			send: func(svc notifications.Service) error {
				return svc.NotifyTransformCompleted(context.Background(), "clip.mp3", "jazz")
			},
			expectTitle:   "Genreshift - Transform Complete",
			expectMessage: "Transformed clip.mp3 into jazz",
			expectTags:    "genreshift,transform,completed",
		},
		{
			name: "transform degraded",
			send: func(svc notifications.Service) error {
				return svc.NotifyTransformDegraded(context.Background(), "clip.mp3", "rock", "ffmpeg exit 1")
			},
			expectTitle:    "Genreshift - Transform Degraded",
			expectMessage:  "Delivered clip.mp3 unchanged; rock transform failed\nReason: ffmpeg exit 1",
			expectTags:     "genreshift,transform,degraded",
			expectPriority: "high",
		},
		{
			name: "error",
			send: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("disk full"), "upload")
			},
			expectTitle:    "Genreshift - Error",
			expectMessage:  "Error with upload: disk full",
			expectTags:     "genreshift,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := testsupport.NewConfig(t)
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5
			cfg.Notifications.Uploads = true
			cfg.Notifications.Transforms = true
			cfg.Notifications.Errors = true

			svc := notifications.NewService(cfg)
			if err := tc.send(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonoursCategoryToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for suppressed category: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Uploads = false
	cfg.Notifications.Transforms = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(cfg)
	ctx := context.Background()
	if err := svc.NotifyUploadReceived(ctx, "clip.mp3", 1); err != nil {
		t.Fatalf("suppressed upload notification errored: %v", err)
	}
	if err := svc.NotifyTransformCompleted(ctx, "clip.mp3", "jazz"); err != nil {
		t.Fatalf("suppressed transform notification errored: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("x"), "test"); err != nil {
		t.Fatalf("suppressed error notification errored: %v", err)
	}
}
