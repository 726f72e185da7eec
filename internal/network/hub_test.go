package network

import (
	"planboard/pkg/api"
	"testing"
)

func TestBroadcaster_SendTo(t *testing.T) {
	b := NewBroadcaster()
	red := b.Register(0)
	blue := b.Register(1)

	if !b.SendTo(0, api.ServerResponse{Type: "UPDATE", MySide: 0}) {
		t.Fatal("SendTo registered side returned false")
	}
	if b.SendTo(5, api.ServerResponse{Type: "UPDATE"}) {
		t.Error("SendTo unknown side returned true")
	}

	if msg := <-red; msg.MySide != 0 {
		t.Errorf("red got %+v", msg)
	}
	select {
	case msg := <-blue:
		t.Errorf("blue must not receive unicast, got %+v", msg)
	default:
	}

	b.Broadcast(api.ServerResponse{Type: "UPDATE"})
	if len(red) != 1 || len(blue) != 1 {
		t.Errorf("broadcast not delivered: red=%d blue=%d", len(red), len(blue))
	}
	if b.SubscriberCount() != 2 {
		t.Errorf("SubscriberCount = %d", b.SubscriberCount())
	}
}

func TestBroadcaster_ReplaceAndUnregister(t *testing.T) {
	b := NewBroadcaster()
	first := b.Register(0)
	second := b.Register(0)

	if _, ok := <-first; ok {
		t.Fatal("replaced channel must be closed")
	}

	// Старый клиент отписывается уже после вытеснения - новый остается
	if b.Unregister(0, first) || !b.HasSubscriber(0) {
		t.Fatal("stale Unregister removed the new subscriber")
	}

	if !b.Unregister(0, second) || b.HasSubscriber(0) {
		t.Error("subscriber still registered")
	}
	if _, ok := <-second; ok {
		t.Error("unregistered channel must be closed")
	}
}

func TestBroadcaster_FullChannelDoesNotBlock(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Register(0)
	for i := 0; i < cap(ch); i++ {
		b.SendTo(0, api.ServerResponse{})
	}
	if b.SendTo(0, api.ServerResponse{}) {
		t.Error("send to full channel reported success")
	}
}
