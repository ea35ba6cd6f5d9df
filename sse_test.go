package coolerd

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadSSE(t *testing.T) {
	r := strings.NewReader("{\"pump_rpm\":2150}\n\n{\"pump_rpm\":2152}\n\n")

	payload, err := ReadSSE(r)
	if err != nil {
		t.Fatalf("ReadSSE error: %v", err)
	}
	if string(payload) != `{"pump_rpm":2150}` {
		t.Errorf("payload = %q", payload)
	}

	// The second event stays in the stream for the next call.
	payload, err = ReadSSE(r)
	if err != nil {
		t.Fatalf("ReadSSE error on second event: %v", err)
	}
	if string(payload) != `{"pump_rpm":2152}` {
		t.Errorf("second payload = %q", payload)
	}
}

func TestReadSSE_SingleNewlinesDoNotTerminate(t *testing.T) {
	payload, err := ReadSSE(strings.NewReader("line1\nline2\n\n"))
	if err != nil {
		t.Fatalf("ReadSSE error: %v", err)
	}
	if string(payload) != "line1\nline2" {
		t.Errorf("payload = %q", payload)
	}
}

func TestReadSSE_TruncatedStream(t *testing.T) {
	_, err := ReadSSE(strings.NewReader("partial"))
	if !errors.Is(err, io.EOF) {
		t.Errorf("ReadSSE error = %v, want io.EOF", err)
	}
}
