package remote

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"testing"

	"golang.org/x/crypto/ssh"

	"mlactions/internal/runner"
)

func testKeyPEM(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil { t.Fatalf("keygen: %v", err) }
	block, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil { t.Fatalf("marshal: %v", err) }
	return string(pem.EncodeToMemory(block))
}

func TestNewSSHRunner_Validation(t *testing.T) {
	if _, err := NewSSHRunner(SSHOptions{}); err == nil { t.Fatalf("expected empty address error") }
	if _, err := NewSSHRunner(SSHOptions{Addr: "h:22", PrivateKey: "nope"}); err == nil { t.Fatalf("expected key error") }
	if _, err := NewSSHRunner(SSHOptions{Addr: "h:22", PrivateKey: testKeyPEM(t), HostKey: "garbage"}); err == nil {
		t.Fatalf("expected host key error")
	}
	r, err := NewSSHRunner(SSHOptions{Addr: "h:22", PrivateKey: testKeyPEM(t)})
	if err != nil { t.Fatalf("runner: %v", err) }
	if r.cfg.User != "root" { t.Fatalf("user=%q", r.cfg.User) }
	if err := r.Close(); err != nil { t.Fatalf("close: %v", err) }
}

func TestCommandLine(t *testing.T) {
	c := runner.Cmd{
		Path: "python3",
		Args: []string{"-c", "print('hi')", "sentiment-analysis"},
		Env:  map[string]string{"B": "2", "A": "x y"},
		Dir:  "/action",
	}
	want := `cd /action && env 'A=x y' B=2 python3 -c 'print('\''hi'\'')' sentiment-analysis`
	if got := commandLine(c); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestShellQuote(t *testing.T) {
	cases := map[string]string{
		"":         "''",
		"pip":      "pip",
		"a b":      "'a b'",
		"it's":     `'it'\''s'`,
		"$HOME":    "'$HOME'",
		"org/name": "org/name",
	}
	for in, want := range cases {
		if got := shellQuote(in); got != want { t.Fatalf("shellQuote(%q)=%q want %q", in, got, want) }
	}
}
