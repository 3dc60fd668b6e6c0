package main

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"genreshift/internal/ledger"
	"genreshift/internal/testsupport"
)

func TestLedgerListAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	artifact := testsupport.NewArtifact(t, env.store, env.cfg, "listing.mp3", 256)

	jazz, err := env.store.NewRequest(ctx, artifact.ID, "jazz")
	if err != nil {
		t.Fatalf("jazz request: %v", err)
	}
	jazz.SetCompleted("/out/listing_jazz.mp3", ledger.OutcomeTransformed, time.Now())
	if err := env.store.UpdateRequest(ctx, jazz); err != nil {
		t.Fatalf("complete jazz: %v", err)
	}

	rock, err := env.store.NewRequest(ctx, artifact.ID, "rock")
	if err != nil {
		t.Fatalf("rock request: %v", err)
	}
	rock.SetFailed("processor exploded", time.Now())
	if err := env.store.UpdateRequest(ctx, rock); err != nil {
		t.Fatalf("fail rock: %v", err)
	}

	out, _, err := runCLI(t, []string{"ledger", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("ledger list: %v", err)
	}
	requireContains(t, out, "jazz")
	requireContains(t, out, "rock")
	requireContains(t, out, "completed")
	requireContains(t, out, "failed")

	out, _, err = runCLI(t, []string{"ledger", "list", "--status", "failed"}, env.configPath)
	if err != nil {
		t.Fatalf("ledger list --status failed: %v", err)
	}
	requireContains(t, out, "rock")
	if strings.Contains(out, "jazz") {
		t.Fatalf("status filter leaked completed row: %s", out)
	}

	out, _, err = runCLI(t, []string{"ledger", "show", fmt.Sprintf("%d", jazz.ID)}, env.configPath)
	if err != nil {
		t.Fatalf("ledger show: %v", err)
	}
	requireContains(t, out, "listing.mp3")
	requireContains(t, out, "/out/listing_jazz.mp3")
	requireContains(t, out, "transformed")
}

func TestLedgerShowMissing(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"ledger", "show", "404"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing request")
	}
}

func TestLedgerClearCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	artifact := testsupport.NewArtifact(t, env.store, env.cfg, "clearing.mp3", 256)

	completed, err := env.store.NewRequest(ctx, artifact.ID, "pop")
	if err != nil {
		t.Fatalf("pop request: %v", err)
	}
	completed.SetCompleted("/out/clearing_pop.mp3", ledger.OutcomeTransformed, time.Now())
	if err := env.store.UpdateRequest(ctx, completed); err != nil {
		t.Fatalf("complete pop: %v", err)
	}

	failed, err := env.store.NewRequest(ctx, artifact.ID, "rock")
	if err != nil {
		t.Fatalf("rock request: %v", err)
	}
	failed.SetFailed("boom", time.Now())
	if err := env.store.UpdateRequest(ctx, failed); err != nil {
		t.Fatalf("fail rock: %v", err)
	}

	pending, err := env.store.NewRequest(ctx, artifact.ID, "jazz")
	if err != nil {
		t.Fatalf("jazz request: %v", err)
	}
	_ = pending

	out, _, err := runCLI(t, []string{"ledger", "clear-completed"}, env.configPath)
	if err != nil {
		t.Fatalf("clear-completed: %v", err)
	}
	requireContains(t, out, "Removed 1 completed request(s)")

	out, _, err = runCLI(t, []string{"ledger", "clear-failed"}, env.configPath)
	if err != nil {
		t.Fatalf("clear-failed: %v", err)
	}
	requireContains(t, out, "Removed 1 failed request(s)")

	out, _, err = runCLI(t, []string{"ledger", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	requireContains(t, out, "Removed 1 request(s)")

	remaining, err := env.store.ListRequests(ctx)
	if err != nil {
		t.Fatalf("list remaining: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty ledger, got %d rows", len(remaining))
	}
}
