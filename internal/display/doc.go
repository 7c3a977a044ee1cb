// Package display hosts the front-end page in a GTK4/libadwaita window.
// It implements the frame the bootstrapper configures, instantiates the
// registered behaviors and anchors the connection-manager window through
// Wayland layer-shell.
package display
