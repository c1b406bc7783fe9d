package util

import (
	"errors"
	"testing"
)

func TestListen(t *testing.T) {
	ln, err := Listen("127.0.0.1:0", 0)
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer ln.Close()
	if ln.Addr() == nil {
		t.Fatal("Listener has no address")
	}
}

func TestListen_WithConnectionCap(t *testing.T) {
	ln, err := Listen("127.0.0.1:0", 4)
	if err != nil {
		t.Fatalf("Listen with cap failed: %v", err)
	}
	defer ln.Close()
}

func TestListen_AddrInUse(t *testing.T) {
	ln, err := Listen("127.0.0.1:0", 0)
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer ln.Close()

	_, err = Listen(ln.Addr().String(), 0)
	if err == nil {
		t.Fatal("Expected an error binding the same address twice")
	}
	if !IsAddrInUse(err) {
		t.Errorf("Expected IsAddrInUse to report true for: %v", err)
	}
}

func TestIsAddrInUse_Negative(t *testing.T) {
	if IsAddrInUse(nil) {
		t.Error("nil error must not be address-in-use")
	}
	if IsAddrInUse(errors.New("connection refused")) {
		t.Error("unrelated error must not be address-in-use")
	}
}
