package core

import (
	"context"
	"testing"
)

func TestMemoryEventSinkListNewestFirst(t *testing.T) {
	ctx := context.Background()
	sink := NewMemoryEventSink()
	for nonce := uint64(1); nonce <= 3; nonce++ {
		if err := sink.Record(ctx, DeliveryEvent{Dest: 7, Nonce: nonce}); err != nil {
			t.Fatalf("record nonce %d: %v", nonce, err)
		}
	}
	if err := sink.Record(ctx, DeliveryEvent{Dest: 9, Nonce: 1}); err != nil {
		t.Fatalf("record dest 9: %v", err)
	}

	dest := Destination(7)
	events, err := sink.List(ctx, &dest, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Nonce != 3 || events[1].Nonce != 2 {
		t.Fatalf("expected newest first, got %d then %d", events[0].Nonce, events[1].Nonce)
	}
	for _, event := range events {
		if event.Dest != dest {
			t.Fatalf("expected dest filter, got %d", event.Dest)
		}
	}
}

func TestMemoryEventSinkListDefaultLimit(t *testing.T) {
	ctx := context.Background()
	sink := NewMemoryEventSink()
	for nonce := uint64(1); nonce <= uint64(DefaultDeliveryEventLimit)+5; nonce++ {
		if err := sink.Record(ctx, DeliveryEvent{Dest: 7, Nonce: nonce}); err != nil {
			t.Fatalf("record nonce %d: %v", nonce, err)
		}
	}

	events, err := sink.List(ctx, nil, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != DefaultDeliveryEventLimit {
		t.Fatalf("expected default page of %d events, got %d", DefaultDeliveryEventLimit, len(events))
	}
	if events[0].Nonce != uint64(DefaultDeliveryEventLimit)+5 {
		t.Fatalf("expected newest event first, got nonce %d", events[0].Nonce)
	}
}
