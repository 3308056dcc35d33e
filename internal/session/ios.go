package session

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

// iosSession drives an interactive shell on a Cisco IOS / IOS-XE device.
// IOS has no exec-per-command channel worth using here: commands go down one
// pty shell and the response is everything up to the next prompt.
type iosSession struct {
	client *ssh.Client
	shell  *ssh.Session
	stdin  io.WriteCloser
	out    chan []byte

	mu         sync.Mutex
	closed     bool
	basePrompt string
	lastPrompt string
	secret     string
	timeout    time.Duration
}

// DialCiscoIOS establishes an interactive SSH shell session to a Cisco IOS
// device, waits for the initial prompt, and disables output paging.
func DialCiscoIOS(ctx context.Context, opts Options) (Session, error) {
	opts = opts.applyDefaults()

	config := &ssh.ClientConfig{
		User: opts.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(opts.Password),
			// Many IOS builds only offer keyboard-interactive auth.
			ssh.KeyboardInteractive(func(name, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = opts.Password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         opts.ConnectTimeout,
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish SSH connection: %w", err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	shell, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 115200,
		ssh.TTY_OP_OSPEED: 115200,
	}
	if err := shell.RequestPty("vt100", 32, 200, modes); err != nil {
		shell.Close()
		client.Close()
		return nil, fmt.Errorf("failed to request pty: %w", err)
	}

	stdin, err := shell.StdinPipe()
	if err != nil {
		shell.Close()
		client.Close()
		return nil, fmt.Errorf("failed to open stdin: %w", err)
	}
	stdout, err := shell.StdoutPipe()
	if err != nil {
		shell.Close()
		client.Close()
		return nil, fmt.Errorf("failed to open stdout: %w", err)
	}
	if err := shell.Shell(); err != nil {
		shell.Close()
		client.Close()
		return nil, fmt.Errorf("failed to start shell: %w", err)
	}

	s := &iosSession{
		client:  client,
		shell:   shell,
		stdin:   stdin,
		out:     make(chan []byte, 16),
		secret:  opts.Secret,
		timeout: opts.CommandTimeout,
	}
	go s.readLoop(stdout)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Swallow the login banner and detect the base prompt.
	banner, err := s.readUntil(endsAtPrompt, opts.ConnectTimeout)
	if err != nil {
		s.closeLocked()
		return nil, fmt.Errorf("no device prompt: %w", err)
	}
	s.rememberPrompt(banner)
	// IOS abbreviates the prompt at 20 chars in config mode, so only the
	// first 16 chars of the base prompt are stable across modes.
	s.basePrompt = truncatePrompt(stripTerminator(s.lastPrompt))

	// Disable paging so full command output arrives without --More-- stops.
	if _, err := s.commandLocked("terminal length 0"); err != nil {
		s.closeLocked()
		return nil, fmt.Errorf("disable paging: %w", err)
	}

	return s, nil
}

func (s *iosSession) readLoop(r io.Reader) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.out <- chunk
		}
		if err != nil {
			close(s.out)
			return
		}
	}
}

// readUntil accumulates shell output until match reports completion or the
// timeout expires. Callers hold s.mu.
func (s *iosSession) readUntil(match func(string) bool, timeout time.Duration) (string, error) {
	var b strings.Builder
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case chunk, ok := <-s.out:
			if !ok {
				s.closed = true
				return b.String(), fmt.Errorf("session closed by device")
			}
			b.Write(chunk)
			if match(b.String()) {
				return b.String(), nil
			}
		case <-deadline.C:
			return b.String(), fmt.Errorf("timed out waiting for device prompt")
		}
	}
}

func (s *iosSession) commandLocked(cmd string) (string, error) {
	if s.closed {
		return "", fmt.Errorf("session closed")
	}
	if _, err := fmt.Fprintf(s.stdin, "%s\n", cmd); err != nil {
		s.closed = true
		return "", fmt.Errorf("write command: %w", err)
	}
	out, err := s.readUntil(endsAtPrompt, s.timeout)
	if err != nil {
		return "", fmt.Errorf("command %q: %w", cmd, err)
	}
	s.rememberPrompt(out)
	return stripEcho(out, cmd), nil
}

func (s *iosSession) rememberPrompt(out string) {
	if line := lastLine(out); line != "" {
		s.lastPrompt = line
	}
}

// FindPrompt sends a bare newline and returns the prompt that comes back,
// terminator stripped. A dead session returns "".
func (s *iosSession) FindPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ""
	}
	if _, err := io.WriteString(s.stdin, "\n"); err != nil {
		s.closed = true
		return ""
	}
	out, err := s.readUntil(endsAtPrompt, s.timeout)
	if err != nil {
		return ""
	}
	s.rememberPrompt(out)
	return stripTerminator(s.lastPrompt)
}

// Enable enters privileged exec mode, answering the password prompt with the
// enable secret.
func (s *iosSession) Enable(checkState bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("session closed")
	}
	if checkState && strings.HasSuffix(strings.TrimRight(s.lastPrompt, " "), "#") {
		return nil
	}

	if _, err := io.WriteString(s.stdin, "enable\n"); err != nil {
		s.closed = true
		return fmt.Errorf("write enable: %w", err)
	}
	out, err := s.readUntil(func(o string) bool {
		return endsAtPrompt(o) || strings.Contains(lastLine(o), "assword")
	}, s.timeout)
	if err != nil {
		return fmt.Errorf("enable: %w", err)
	}

	if strings.Contains(lastLine(out), "assword") {
		if _, err := fmt.Fprintf(s.stdin, "%s\n", s.secret); err != nil {
			s.closed = true
			return fmt.Errorf("write enable secret: %w", err)
		}
		out, err = s.readUntil(endsAtPrompt, s.timeout)
		if err != nil {
			return fmt.Errorf("enable: %w", err)
		}
	}

	s.rememberPrompt(out)
	if !strings.HasSuffix(strings.TrimRight(s.lastPrompt, " "), "#") {
		return fmt.Errorf("enable mode rejected, prompt is %q", s.lastPrompt)
	}
	return nil
}

// SendConfigSet wraps the given lines in configure terminal / end and returns
// the combined output.
func (s *iosSession) SendConfigSet(cmds []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	wrapped := make([]string, 0, len(cmds)+2)
	wrapped = append(wrapped, "configure terminal")
	wrapped = append(wrapped, cmds...)
	wrapped = append(wrapped, "end")

	for _, cmd := range wrapped {
		out, err := s.commandLocked(cmd)
		if err != nil {
			return b.String(), err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// SendMultiline runs each command in exec mode and returns the combined
// output.
func (s *iosSession) SendMultiline(cmds []string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	for _, cmd := range cmds {
		out, err := s.commandLocked(cmd)
		if err != nil {
			return b.String(), err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// Disconnect closes the shell and the SSH transport.
func (s *iosSession) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *iosSession) closeLocked() error {
	if s.closed {
		return nil
	}
	s.closed = true
	// Best-effort clean logout before tearing the transport down.
	io.WriteString(s.stdin, "exit\n")
	s.shell.Close()
	return s.client.Close()
}

// endsAtPrompt reports whether accumulated shell output currently rests at a
// device prompt: the final, unterminated line ends in "#" or ">".
func endsAtPrompt(out string) bool {
	trimmed := strings.TrimRight(out, " \t")
	if trimmed == "" || strings.HasSuffix(trimmed, "\n") || strings.HasSuffix(trimmed, "\r") {
		return false
	}
	line := lastLine(trimmed)
	return strings.HasSuffix(line, "#") || strings.HasSuffix(line, ">")
}

// lastLine returns the final non-empty line of out, trailing spaces removed.
func lastLine(out string) string {
	out = strings.ReplaceAll(out, "\r\n", "\n")
	lines := strings.Split(out, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimRight(lines[i], " \t\r"); line != "" {
			return line
		}
	}
	return ""
}

// stripTerminator removes the "#" or ">" (and any mode suffix such as
// "(config)#") from a prompt line.
func stripTerminator(prompt string) string {
	prompt = strings.TrimRight(prompt, " ")
	prompt = strings.TrimRight(prompt, "#>")
	if i := strings.Index(prompt, "(config"); i >= 0 {
		prompt = prompt[:i]
	}
	return prompt
}

// truncatePrompt caps a base prompt at the 16 chars IOS keeps stable.
func truncatePrompt(prompt string) string {
	if len(prompt) > 16 {
		return prompt[:16]
	}
	return prompt
}

// stripEcho removes the echoed command line and the trailing prompt from raw
// command output.
func stripEcho(out, cmd string) string {
	out = strings.ReplaceAll(out, "\r\n", "\n")
	lines := strings.Split(out, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == strings.TrimSpace(cmd) {
		lines = lines[1:]
	}
	if n := len(lines); n > 0 {
		last := strings.TrimRight(lines[n-1], " ")
		if strings.HasSuffix(last, "#") || strings.HasSuffix(last, ">") {
			lines = lines[:n-1]
		}
	}
	return strings.Join(lines, "\n")
}
