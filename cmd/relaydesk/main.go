// Package main provides the CLI entrypoint for relaydesk.
package main

func main() {
	Execute()
}
