package core

import (
	"errors"
	"fmt"
	"testing"
)

func makeChannels(n int) []ChannelAddress {
	out := make([]ChannelAddress, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, MustChannelAddress(fmt.Sprintf("0x%040x", i+1)))
	}
	return out
}

func TestNewAllowListAtCapacity(t *testing.T) {
	list, err := NewAllowList(makeChannels(AllowListCapacity))
	if err != nil {
		t.Fatalf("new allowlist: %v", err)
	}
	if list.Len() != AllowListCapacity {
		t.Fatalf("expected %d channels, got %d", AllowListCapacity, list.Len())
	}
	for _, channel := range makeChannels(AllowListCapacity) {
		if !list.Contains(channel) {
			t.Fatalf("expected %s to be a member", channel)
		}
	}
}

func TestNewAllowListOverCapacity(t *testing.T) {
	if _, err := NewAllowList(makeChannels(AllowListCapacity + 1)); !errors.Is(err, ErrAllowListFull) {
		t.Fatalf("expected ErrAllowListFull, got %v", err)
	}
}

func TestNewAllowListDeduplicates(t *testing.T) {
	channels := makeChannels(3)
	channels = append(channels, channels[0], channels[1])
	list, err := NewAllowList(channels)
	if err != nil {
		t.Fatalf("new allowlist: %v", err)
	}
	if list.Len() != 3 {
		t.Fatalf("expected 3 distinct channels, got %d", list.Len())
	}
}

func TestNewAllowListRejectsZeroAddress(t *testing.T) {
	if _, err := NewAllowList([]ChannelAddress{{}}); err == nil {
		t.Fatalf("expected zero address rejection")
	}
}

func TestMustAllowListPanicsOverCapacity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	MustAllowList(makeChannels(AllowListCapacity + 1))
}

func TestAllowListNotContains(t *testing.T) {
	list, err := NewAllowList(makeChannels(2))
	if err != nil {
		t.Fatalf("new allowlist: %v", err)
	}
	outsider := MustChannelAddress("0x00000000000000000000000000000000000000ff")
	if list.Contains(outsider) {
		t.Fatalf("expected %s to be rejected", outsider)
	}
}
