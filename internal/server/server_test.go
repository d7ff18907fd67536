package server

import (
	"bufio"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/elasticdl/edl/internal/protocol"
)

func TestDispatchUnknownCommand(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()

	s := &Server{}
	go func() {
		defer srv.Close()
		s.dispatch(context.Background(), srv, "bogus", nil)
	}()

	line, err := bufio.NewReader(client).ReadBytes(byte(10))
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	env, payload, err := protocol.Decode(line)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Command != protocol.CmdError {
		t.Fatalf("env.Command = %q, want %q", env.Command, protocol.CmdError)
	}

	result, err := protocol.DecodePayload[protocol.ErrorResult](payload)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if result.Message == "" {
		t.Fatal("error result has no message")
	}
}

func TestStopIdempotent(t *testing.T) {
	s := &Server{done: make(chan struct{})}

	if err := s.Stop(); err != nil {
		t.Fatalf("first Stop error: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}

	select {
	case <-s.done:
	default:
		t.Fatal("done channel not closed after Stop")
	}
}

func TestStopConcurrent(t *testing.T) {
	s := &Server{done: make(chan struct{})}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Stop()
		}()
	}
	wg.Wait()

	// Wait must return once any Stop has completed.
	s.Wait()
}

func TestContextWithDisconnect(t *testing.T) {
	client, srv := net.Pipe()

	ctx, cancel := contextWithDisconnect(context.Background(), srv)
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled before disconnect")
	case <-time.After(10 * time.Millisecond):
	}

	client.Close()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled after disconnect")
	}
}
