package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New[string]()
	ch := bus.Subscribe()
	bus.Publish("step")
	if v := <-ch; v != "step" {
		t.Fatalf("expected step got %v", v)
	}
	bus.Unsubscribe(ch)
}

func TestBusDropsWhenBufferFull(t *testing.T) {
	bus := New[int]()
	ch := bus.SubscribeBuffered(1)
	bus.Publish(1)
	bus.Publish(2) // dropped, buffer full
	if v := <-ch; v != 1 {
		t.Fatalf("expected 1 got %v", v)
	}
	select {
	case v := <-ch:
		t.Fatalf("expected empty channel, got %v", v)
	default:
	}
}

func TestBusClose(t *testing.T) {
	bus := New[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New[int]()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := New[int]()
	bus.Close()
	bus.Publish(1) // must not panic
}
