package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ffmpeg"))
	if cli.binary != "/opt/ffmpeg" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestTransformRequiresInput(t *testing.T) {
	cli := NewCLI()
	err := cli.Transform(context.Background(), Request{OutputPath: "/tmp/out.mp3", FilterChain: "volume=1.5"}, nil)
	if err == nil {
		t.Fatal("expected error when input path is empty")
	}
}

func TestTransformRequiresFilterChain(t *testing.T) {
	cli := NewCLI()
	err := cli.Transform(context.Background(), Request{InputPath: "/tmp/in.mp3", OutputPath: "/tmp/out.mp3", FilterChain: "  "}, nil)
	if err == nil {
		t.Fatal("expected error when filter chain is empty")
	}
}

func stubCommand(t *testing.T, mode string) *[]string {
	t.Helper()

	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"FFMPEG_HELPER_MODE="+mode,
			"FFMPEG_HELPER_OUTPUT="+args[len(args)-1],
		)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
	return &capturedArgs
}

func TestTransformPassesFilterChain(t *testing.T) {
	captured := stubCommand(t, "success")

	tempDir := t.TempDir()
	req := Request{
		InputPath:       filepath.Join(tempDir, "in.mp3"),
		OutputPath:      filepath.Join(tempDir, "out.mp3"),
		FilterChain:     "bass=g=8,treble=g=2",
		DurationSeconds: 10,
	}

	var updates []ProgressUpdate
	if err := NewCLI().Transform(context.Background(), req, func(update ProgressUpdate) {
		updates = append(updates, update)
	}); err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}

	args := *captured
	idx := findArg(args, "-af")
	if idx == -1 || idx+1 >= len(args) {
		t.Fatalf("expected -af flag with value, got %v", args)
	}
	if args[idx+1] != "bass=g=8,treble=g=2" {
		t.Fatalf("unexpected filter chain argument: %q", args[idx+1])
	}
	if args[len(args)-1] != req.OutputPath {
		t.Fatalf("expected output path as final argument, got %v", args)
	}

	if len(updates) == 0 {
		t.Fatal("expected progress updates")
	}
	last := updates[len(updates)-1]
	if !last.Done || last.Percent != 100 {
		t.Fatalf("expected terminal progress update, got %+v", last)
	}
}

func TestTransformFailsOnNonZeroExit(t *testing.T) {
	stubCommand(t, "fail")

	tempDir := t.TempDir()
	req := Request{
		InputPath:   filepath.Join(tempDir, "in.mp3"),
		OutputPath:  filepath.Join(tempDir, "out.mp3"),
		FilterChain: "volume=1.5",
	}
	err := NewCLI().Transform(context.Background(), req, nil)
	if err == nil {
		t.Fatal("expected error for non-zero ffmpeg exit")
	}
}

func TestTransformFailsOnEmptyOutput(t *testing.T) {
	stubCommand(t, "empty")

	tempDir := t.TempDir()
	req := Request{
		InputPath:   filepath.Join(tempDir, "in.mp3"),
		OutputPath:  filepath.Join(tempDir, "out.mp3"),
		FilterChain: "volume=1.5",
	}
	err := NewCLI().Transform(context.Background(), req, nil)
	if err == nil {
		t.Fatal("expected error when output file is missing")
	}
}

func findArg(args []string, flag string) int {
	for i, arg := range args {
		if arg == flag {
			return i
		}
	}
	return -1
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "success":
		fmt.Println("out_time_us=5000000")
		fmt.Println("speed=12.4x")
		fmt.Println("progress=continue")
		fmt.Println("out_time_us=10000000")
		fmt.Println("speed=12.1x")
		fmt.Println("progress=end")
		if output := os.Getenv("FFMPEG_HELPER_OUTPUT"); output != "" {
			_ = os.WriteFile(output, []byte("audio"), 0o644)
		}
	case "empty":
		fmt.Println("progress=end")
	case "fail":
		fmt.Fprintln(os.Stderr, "Error while filtering: invalid argument")
		os.Exit(1)
	}
}
