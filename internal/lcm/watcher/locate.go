package watcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/afero"
)

// ErrClientNotRunning means no credentials for a running client were found.
var ErrClientNotRunning = errors.New("league client is not running")

// Credentials authenticate against the client's local API.
type Credentials struct {
	Port     int
	Password string
}

// Locator finds the credentials of the running client.
type Locator interface {
	Locate(ctx context.Context) (Credentials, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Credentials, error)

// Locate calls f.
func (f LocatorFunc) Locate(ctx context.Context) (Credentials, error) {
	return f(ctx)
}

// FirstOf tries each locator in order and returns the first success.
func FirstOf(locators ...Locator) Locator {
	return LocatorFunc(func(ctx context.Context) (Credentials, error) {
		var errs []error
		for _, l := range locators {
			creds, err := l.Locate(ctx)
			if err == nil {
				return creds, nil
			}
			errs = append(errs, err)
		}
		return Credentials{}, errors.Join(append([]error{ErrClientNotRunning}, errs...)...)
	})
}

// LockfileLocator reads the lockfile the client writes into its install
// directory while running.
type LockfileLocator struct {
	fs   afero.Fs
	path func() string
}

// NewLockfileLocator reads the lockfile at the path returned by path on every
// attempt, so a changed install location is picked up on the next retry.
func NewLockfileLocator(fs afero.Fs, path func() string) *LockfileLocator {
	return &LockfileLocator{fs: fs, path: path}
}

// Locate implements Locator.
func (l *LockfileLocator) Locate(context.Context) (Credentials, error) {
	p := l.path()
	if p == "" {
		return Credentials{}, ErrClientNotRunning
	}
	data, err := afero.ReadFile(l.fs, p)
	if err != nil {
		return Credentials{}, fmt.Errorf("read lockfile: %w", err)
	}
	return ParseLockfile(string(data))
}

// ParseLockfile parses "name:pid:port:password:protocol".
func ParseLockfile(content string) (Credentials, error) {
	parts := strings.Split(strings.TrimSpace(content), ":")
	if len(parts) != 5 {
		return Credentials{}, fmt.Errorf("malformed lockfile: %d fields", len(parts))
	}
	port, err := strconv.Atoi(parts[2])
	if err != nil || port <= 0 {
		return Credentials{}, fmt.Errorf("malformed lockfile port %q", parts[2])
	}
	return Credentials{Port: port, Password: parts[3]}, nil
}

// ProcessLocator reads the credentials from the command line of the client
// UX process.
type ProcessLocator struct {
	names []string
}

// NewProcessLocator matches processes by executable name.
func NewProcessLocator(names ...string) *ProcessLocator {
	if len(names) == 0 {
		names = []string{"LeagueClientUx.exe", "LeagueClientUx"}
	}
	return &ProcessLocator{names: names}
}

// Locate implements Locator.
func (l *ProcessLocator) Locate(ctx context.Context) (Credentials, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return Credentials{}, fmt.Errorf("list processes: %w", err)
	}
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || !l.matches(name) {
			continue
		}
		args, err := p.CmdlineSliceWithContext(ctx)
		if err != nil {
			continue
		}
		if creds, ok := ParseCmdline(args); ok {
			return creds, nil
		}
	}
	return Credentials{}, ErrClientNotRunning
}

func (l *ProcessLocator) matches(name string) bool {
	for _, n := range l.names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// ParseCmdline extracts --app-port and --remoting-auth-token.
func ParseCmdline(args []string) (Credentials, bool) {
	var creds Credentials
	for _, arg := range args {
		arg = strings.Trim(arg, `"`)
		if v, ok := strings.CutPrefix(arg, "--app-port="); ok {
			creds.Port, _ = strconv.Atoi(v)
		}
		if v, ok := strings.CutPrefix(arg, "--remoting-auth-token="); ok {
			creds.Password = v
		}
	}
	return creds, creds.Port > 0 && creds.Password != ""
}
