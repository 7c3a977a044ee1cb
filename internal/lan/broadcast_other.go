//go:build !unix

package lan

import "net"

func enableBroadcast(*net.UDPConn) error { return nil }
