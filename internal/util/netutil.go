package util

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"

	"golang.org/x/net/netutil"
)

// Listen creates a TCP listener on the given address. When maxConns is
// positive the listener caps concurrent accepted connections at that
// number; further accepts block until a slot frees up.
func Listen(address string, maxConns int) (net.Listener, error) {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on %s: %w", address, err)
	}
	if maxConns > 0 {
		ln = netutil.LimitListener(ln, maxConns)
	}
	return ln, nil
}

// IsAddrInUse checks if the error indicates an "address already in use"
// condition.
func IsAddrInUse(err error) bool {
	if err == nil {
		return false
	}
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) && sysErr.Err == syscall.EADDRINUSE {
		return true
	}
	// The net package wraps these (e.g. *net.OpError); fall back to the
	// message when the syscall error is not directly reachable.
	return strings.Contains(strings.ToLower(err.Error()), "address already in use")
}
