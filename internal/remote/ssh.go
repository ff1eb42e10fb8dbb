package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"mlactions/internal/runner"
)

// SSHOptions configures an SSHRunner.
type SSHOptions struct {
	Addr       string // host:port
	User       string // defaults to root
	PrivateKey string // PEM
	// HostKey is an authorized_keys style line. When empty, the host key is
	// not verified (rented instances rotate keys on every rebuild).
	HostKey string
	Log     zerolog.Logger
}

// SSHRunner implements runner.Runner on a remote host. One connection is
// dialed lazily and reused; each command gets its own session.
type SSHRunner struct {
	opts SSHOptions
	cfg  *ssh.ClientConfig

	mu     sync.Mutex
	client *ssh.Client
}

// NewSSHRunner validates the key material and prepares the client config.
func NewSSHRunner(opts SSHOptions) (*SSHRunner, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, errors.New("ssh: empty address")
	}
	signer, err := ssh.ParsePrivateKey([]byte(opts.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("ssh: parse private key: %w", err)
	}
	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if strings.TrimSpace(opts.HostKey) != "" {
		pk, _, _, _, err := ssh.ParseAuthorizedKey([]byte(opts.HostKey))
		if err != nil {
			return nil, fmt.Errorf("ssh: parse host key: %w", err)
		}
		hostKeyCallback = ssh.FixedHostKey(pk)
	}
	user := opts.User
	if user == "" {
		user = "root"
	}
	return &SSHRunner{
		opts: opts,
		cfg: &ssh.ClientConfig{
			User:            user,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: hostKeyCallback,
		},
	}, nil
}

func (r *SSHRunner) connect() (*ssh.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		return r.client, nil
	}
	r.opts.Log.Debug().Str("addr", r.opts.Addr).Msg("ssh connect")
	c, err := ssh.Dial("tcp", r.opts.Addr, r.cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh: dial %s: %w", r.opts.Addr, err)
	}
	r.client = c
	return c, nil
}

// drop forgets a broken connection so the next Run redials.
func (r *SSHRunner) drop(c *ssh.Client) {
	r.mu.Lock()
	if r.client == c {
		r.client = nil
	}
	r.mu.Unlock()
	_ = c.Close()
}

func (r *SSHRunner) Run(ctx context.Context, c runner.Cmd) (runner.Result, error) {
	if strings.TrimSpace(c.Path) == "" {
		return runner.Result{}, errors.New("runner: empty command path")
	}
	client, err := r.connect()
	if err != nil {
		return runner.Result{}, err
	}
	sess, err := client.NewSession()
	if err != nil {
		r.drop(client)
		return runner.Result{}, fmt.Errorf("ssh: new session: %w", err)
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr
	if c.Stdin != "" {
		sess.Stdin = strings.NewReader(c.Stdin)
	}

	line := commandLine(c)
	done := make(chan error, 1)
	go func() { done <- sess.Run(line) }()

	var runErr error
	select {
	case <-ctx.Done():
		_ = sess.Signal(ssh.SIGKILL)
		return runner.Result{}, ctx.Err()
	case runErr = <-done:
	}

	res := runner.Result{Stdout: stdout.Bytes(), Stderr: tail(stderr.String(), 4096)}
	if runErr != nil {
		var ee *ssh.ExitError
		if errors.As(runErr, &ee) {
			res.ExitCode = ee.ExitStatus()
			return res, nil
		}
		return res, fmt.Errorf("ssh: run %s: %w", c.Path, runErr)
	}
	return res, nil
}

// Close closes the underlying connection.
func (r *SSHRunner) Close() error {
	r.mu.Lock()
	c := r.client
	r.client = nil
	r.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// commandLine renders c as a POSIX shell command.
func commandLine(c runner.Cmd) string {
	var b strings.Builder
	if c.Dir != "" {
		b.WriteString("cd " + shellQuote(c.Dir) + " && ")
	}
	if len(c.Env) > 0 {
		keys := make([]string, 0, len(c.Env))
		for k := range c.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("env")
		for _, k := range keys {
			b.WriteString(" " + shellQuote(k+"="+c.Env[k]))
		}
		b.WriteString(" ")
	}
	b.WriteString(shellQuote(c.Path))
	for _, a := range c.Args {
		b.WriteString(" " + shellQuote(a))
	}
	return b.String()
}

// shellQuote wraps s in single quotes, escaping embedded single quotes.
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:@", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func tail(s string, n int) string {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
