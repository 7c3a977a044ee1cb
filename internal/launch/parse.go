package launch

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Parse errors. All of them are fatal to the launch.
var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingID       = errors.New("missing peer id")
	ErrEmptyPlayTarget = errors.New("play target has no usable file name")
)

const (
	flagInstall = "--install"
	flagCM      = "--cm"
	flagPlay    = "--play"
)

// remoteKinds maps the remote-control tokens to their kind.
var remoteKinds = map[string]RemoteKind{
	KindConnect.Flag():      KindConnect,
	KindFileTransfer.Flag(): KindFileTransfer,
	KindPortForward.Flag():  KindPortForward,
	KindRDP.Flag():          KindRDP,
}

// Parse maps invocation tokens (program name excluded) to a Mode.
// The token slice is not modified.
func Parse(tokens []string) (Mode, error) {
	if len(tokens) == 0 {
		return Default{}, nil
	}

	switch tokens[0] {
	case flagInstall:
		return Install{}, nil
	case flagCM:
		return ConnectionManager{}, nil
	case flagPlay:
		if len(tokens) < 2 {
			return nil, fmt.Errorf("%s: %w", flagPlay, ErrMissingID)
		}
		id := pathStem(tokens[1])
		if id == "" {
			return nil, fmt.Errorf("%s %q: %w", flagPlay, tokens[1], ErrEmptyPlayTarget)
		}
		rewritten := make([]string, 0, len(tokens))
		rewritten = append(rewritten, KindConnect.Flag(), id)
		rewritten = append(rewritten, tokens[2:]...)
		return Parse(rewritten)
	}

	kind, ok := remoteKinds[tokens[0]]
	if !ok {
		return nil, fmt.Errorf("%q: %w", strings.Join(tokens, " "), ErrUnknownCommand)
	}
	if len(tokens) < 2 {
		return nil, fmt.Errorf("%s: %w", tokens[0], ErrMissingID)
	}

	m := RemoteControl{
		Kind:     kind,
		TargetID: tokens[1],
	}
	if len(tokens) > 2 {
		m.Password = tokens[2]
	}
	if len(tokens) > 3 {
		m.ExtraArgs = append([]string(nil), tokens[3:]...)
	}
	return m, nil
}

// pathStem returns the file name of path without its final extension.
// A name consisting only of a leading dot segment (".rdp") is kept whole.
func pathStem(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return ""
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		return base[:i]
	}
	return base
}
