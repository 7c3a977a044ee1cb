package frontend

// Behavior names registered by the bootstrapper.
const (
	BehaviorRemote            = "native-remote"
	BehaviorConnectionManager = "connection-manager"
)

// Behavior is the native object bound to a page element. It receives the
// element's calls for as long as the element lives.
type Behavior interface {
	// Summary is polled by the page to render its status line.
	Summary() string
	// Detach is called once when the element is destroyed.
	Detach()
}

// Factory builds a Behavior when the page instantiates the element.
// It runs on the window thread and must not block.
type Factory func() Behavior

// EventHandler is the subset of the facade the host window calls itself.
// Pages reach the rest of the facade through the same handler.
type EventHandler interface {
	GetID() string
	TemporaryPassword() string
	GetSize() []int
	Closing(x, y, w, h int)
}
