package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr error
	}{
		{"empty", "", nil, nil},
		{"blank", "   \t ", nil, nil},
		{"plain words", "get 2", []string{"get", "2"}, nil},
		{"extra spaces", "  list   done ", []string{"list", "done"}, nil},
		{"double quotes", `add "Buy milk"`, []string{"add", "Buy milk"}, nil},
		{"single quotes", `update 2 'Buy eggs'`, []string{"update", "2", "Buy eggs"}, nil},
		{"quote inside word", `add say"hi there"`, []string{"add", "sayhi there"}, nil},
		{"empty quoted argument", `add ""`, []string{"add", ""}, nil},
		{"escaped quote", `add "say \"hi\""`, []string{"add", `say "hi"`}, nil},
		{"escaped space", `add Buy\ milk`, []string{"add", "Buy milk"}, nil},
		{"backslash in single quotes", `add 'C:\tmp'`, []string{"add", `C:\tmp`}, nil},
		{"backslash kept in double quotes", `add "C:\tmp"`, []string{"add", `C:\tmp`}, nil},
		{"trailing backslash", `add x\`, nil, errUnterminatedEscape},
		{"unterminated double quote", `add "Buy milk`, nil, errUnterminatedQuote},
		{"unterminated single quote", `add 'Buy milk`, nil, errUnterminatedQuote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitLine(tt.line)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("splitLine(%q) error = %v, want %v", tt.line, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("splitLine(%q): got %q, want %q", tt.line, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitLine(%q)[%d]: got %q, want %q", tt.line, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestShellSession(t *testing.T) {
	dir := isolated(t)
	input := strings.Join([]string{
		`add "Buy milk"`,
		`update 1 "Buy eggs"`,
		`mark-done 1`,
		`list done`,
		``,
		`bogus`,
		`add "unterminated`,
		`get 9`,
		`help`,
		`shell`,
		`exit`,
		`add "never runs"`,
	}, "\n")

	out, _, err := runCLI(t, dir, input, "shell")
	if err != nil {
		t.Fatalf("shell error = %v", err)
	}
	assertContains(t, out,
		welcomeBanner,
		shellPrompt,
		"----Task Added Successfully----",
		"----Task Updated Successfully----",
		"----Task Marked as Done Successfully----",
		"Buy eggs",
		"Error: unknown command: bogus",
		"Error: unterminated quote",
		msgNotFound,
		"exit, quit",
		"Error: already in the shell",
		goodbyeBanner,
	)
	if strings.Contains(out, "never runs") {
		t.Error("commands after exit were executed")
	}
	if strings.Index(out, goodbyeBanner) < strings.Index(out, welcomeBanner) {
		t.Error("goodbye banner printed before welcome banner")
	}
}

func TestShellEndOfInput(t *testing.T) {
	dir := isolated(t)
	out, _, err := runCLI(t, dir, "add \"Buy milk\"\n", "shell")
	if err != nil {
		t.Fatalf("shell error = %v", err)
	}
	assertContains(t, out, "----Task Added Successfully----", goodbyeBanner)

	if out := mustRun(t, dir, "get", "1"); !strings.Contains(out, "Buy milk") {
		t.Errorf("task added in the shell not persisted:\n%s", out)
	}
}

func TestShellExtraArgs(t *testing.T) {
	dir := isolated(t)
	if _, _, err := runCLI(t, dir, "", "shell", "now"); !errors.Is(err, errExtraArgs) {
		t.Errorf("shell now: got %v, want errExtraArgs", err)
	}
}

// blockingReader never returns, like a terminal with no input.
type blockingReader struct{ done chan struct{} }

func (r blockingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, context.Canceled
}

func TestShellStopsOnCancel(t *testing.T) {
	dir := isolated(t)
	reader := blockingReader{done: make(chan struct{})}
	defer close(reader.done)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx, []string{"-dir", dir, "shell"}, reader, &strings.Builder{}, &strings.Builder{})
	}()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("shell error after cancel = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not stop after cancel")
	}
}
