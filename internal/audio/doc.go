// Package audio plays the connection-manager chime and serves the local
// audio relay that streams captured desktop audio to the service.
package audio
