package bus

import (
	"testing"

	"github.com/nats-io/nats.go"
)

func TestHeaderCarrier(t *testing.T) {
	msg := &nats.Msg{}
	c := (*headerCarrier)(msg)

	if c.Get("traceparent") != "" {
		t.Error("expected empty value before set")
	}
	if c.Keys() != nil {
		t.Error("expected nil keys before set")
	}

	c.Set("traceparent", "00-abc-def-01")
	if got := c.Get("traceparent"); got != "00-abc-def-01" {
		t.Errorf("Get = %q", got)
	}
	if len(c.Keys()) != 1 {
		t.Errorf("Keys = %v", c.Keys())
	}
}
