package core

import (
	"bytes"
	"fmt"
	"sort"
)

// AllowListCapacity bounds the trusted outbound queue set. The bound is
// enforced at construction, never by silent truncation.
const AllowListCapacity = 8

// AllowList is a bounded, deduplicated set of trusted channel addresses.
// It is built once at genesis; the runtime surface is membership only.
type AllowList struct {
	channels map[ChannelAddress]struct{}
}

func NewAllowList(channels []ChannelAddress) (AllowList, error) {
	set := make(map[ChannelAddress]struct{}, len(channels))
	for _, channel := range channels {
		if channel.IsZero() {
			return AllowList{}, fmt.Errorf("core: allowlist channel address is empty")
		}
		set[channel] = struct{}{}
	}
	if len(set) > AllowListCapacity {
		return AllowList{}, fmt.Errorf(
			"core: allowlist holds %d distinct channels, capacity is %d: %w",
			len(set), AllowListCapacity, ErrAllowListFull,
		)
	}
	return AllowList{channels: set}, nil
}

// MustAllowList is the genesis form: an oversized list is a configuration
// error, and no transaction exists yet to reject.
func MustAllowList(channels []ChannelAddress) AllowList {
	list, err := NewAllowList(channels)
	if err != nil {
		panic(err)
	}
	return list
}

func (l AllowList) Contains(channel ChannelAddress) bool {
	_, ok := l.channels[channel]
	return ok
}

func (l AllowList) Len() int {
	return len(l.channels)
}

// Channels returns the member addresses in stable byte order.
func (l AllowList) Channels() []ChannelAddress {
	out := make([]ChannelAddress, 0, len(l.channels))
	for channel := range l.channels {
		out = append(out, channel)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
