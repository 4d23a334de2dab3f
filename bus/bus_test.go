package bus

import (
	"testing"
	"time"
)

func recv(t *testing.T, sub *Subscription) *Message {
	t.Helper()
	select {
	case m := <-sub.Channel():
		return m
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func expectNone(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case m := <-sub.Channel():
		t.Fatalf("unexpected message on %s: %v", m.Topic.String(), m.Payload)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestExactDelivery(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("c")
	sub := c.Subscribe(T("clock", "time"))

	c.Publish(c.NewMessage(T("clock", "time"), 42, false))
	m := recv(t, sub)
	if m.Payload.(int) != 42 {
		t.Fatalf("payload = %v", m.Payload)
	}

	c.Publish(c.NewMessage(T("clock", "other"), 1, false))
	expectNone(t, sub)
}

func TestPlusWildcard(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("c")
	sub := c.Subscribe(T("actuate", Plus, "state"))

	c.Publish(c.NewMessage(T("actuate", "pump", "state"), true, false))
	c.Publish(c.NewMessage(T("actuate", "lamp0", "state"), false, false))
	c.Publish(c.NewMessage(T("actuate", "pump", "other"), 0, false))

	if m := recv(t, sub); m.Topic.String() != "actuate/pump/state" {
		t.Fatalf("topic = %s", m.Topic.String())
	}
	if m := recv(t, sub); m.Topic.String() != "actuate/lamp0/state" {
		t.Fatalf("topic = %s", m.Topic.String())
	}
	expectNone(t, sub)
}

func TestHashWildcard(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("c")
	sub := c.Subscribe(T("config", Hash))

	c.Publish(c.NewMessage(T("config"), "root", false))
	c.Publish(c.NewMessage(T("config", "pins", "pump"), 13, false))

	if m := recv(t, sub); m.Payload.(string) != "root" {
		t.Fatalf("payload = %v", m.Payload)
	}
	if m := recv(t, sub); m.Payload.(int) != 13 {
		t.Fatalf("payload = %v", m.Payload)
	}
}

func TestRetainedDeliveredOnSubscribe(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("c")

	c.Publish(c.NewMessage(T("clock", "time"), "09:30", true))

	sub := c.Subscribe(T("clock", "time"))
	if m := recv(t, sub); m.Payload.(string) != "09:30" {
		t.Fatalf("payload = %v", m.Payload)
	}

	// Wildcard subscribers pick up retained messages too.
	wild := c.Subscribe(T("clock", Plus))
	if m := recv(t, wild); m.Payload.(string) != "09:30" {
		t.Fatalf("payload = %v", m.Payload)
	}
}

func TestRetainedCleared(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("c")

	c.Publish(c.NewMessage(T("x"), 1, true))
	c.Publish(c.NewMessage(T("x"), nil, true))

	sub := c.Subscribe(T("x"))
	expectNone(t, sub)
}

func TestDropOldestWhenFull(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("c")
	sub := c.Subscribe(T("x"))

	for i := 1; i <= 5; i++ {
		c.Publish(c.NewMessage(T("x"), i, false))
	}

	// Queue length 2: the two newest survive.
	if m := recv(t, sub); m.Payload.(int) != 4 {
		t.Fatalf("first = %v", m.Payload)
	}
	if m := recv(t, sub); m.Payload.(int) != 5 {
		t.Fatalf("second = %v", m.Payload)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("c")
	sub := c.Subscribe(T("x"))
	sub.Unsubscribe()

	// Publish after unsubscribe must not panic or deliver.
	c.Publish(c.NewMessage(T("x"), 1, false))
}

func TestIntTokens(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("c")
	sub := c.Subscribe(T("lamp", 2))

	c.Publish(c.NewMessage(T("lamp", 2), "on", false))
	c.Publish(c.NewMessage(T("lamp", 1), "on", false))

	if m := recv(t, sub); m.Topic.String() != "lamp/2" {
		t.Fatalf("topic = %s", m.Topic.String())
	}
	expectNone(t, sub)
}
