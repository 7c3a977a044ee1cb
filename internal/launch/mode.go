// Package launch decodes process invocation arguments into an operating mode.
package launch

// Mode is the single behavior selected for a process launch.
// The set of modes is closed: Default, Install, ConnectionManager and
// RemoteControl are the only implementations.
type Mode interface {
	mode()
	// String returns a short name suitable for logging.
	String() string
}

// Default is the regular launch with the home window.
type Default struct{}

// Install shows the installer window.
type Install struct{}

// ConnectionManager shows the connection-manager window for incoming clients.
type ConnectionManager struct{}

// RemoteKind selects what a remote-control window does with the peer.
type RemoteKind string

const (
	KindConnect      RemoteKind = "connect"
	KindFileTransfer RemoteKind = "file-transfer"
	KindPortForward  RemoteKind = "port-forward"
	KindRDP          RemoteKind = "rdp"
)

// Flag returns the command-line token that selects this kind.
func (k RemoteKind) Flag() string {
	return "--" + string(k)
}

// Valid reports whether k is one of the known kinds.
func (k RemoteKind) Valid() bool {
	_, ok := remoteKinds[k.Flag()]
	return ok
}

// RemoteControl opens a window controlling a single remote peer.
type RemoteControl struct {
	Kind      RemoteKind
	TargetID  string
	Password  string
	ExtraArgs []string
}

func (Default) mode()           {}
func (Install) mode()           {}
func (ConnectionManager) mode() {}
func (RemoteControl) mode()     {}

func (Default) String() string           { return "default" }
func (Install) String() string           { return "install" }
func (ConnectionManager) String() string { return "connection-manager" }
func (m RemoteControl) String() string   { return "remote:" + string(m.Kind) }

// Args returns the invocation tokens that select this mode again.
// Parse(m.Args()) yields a value equal to m.
func (m RemoteControl) Args() []string {
	args := []string{m.Kind.Flag(), m.TargetID}
	if m.Password != "" || len(m.ExtraArgs) > 0 {
		args = append(args, m.Password)
	}
	return append(args, m.ExtraArgs...)
}
