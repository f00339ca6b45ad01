package core

import (
	"fmt"
	"strings"
)

// DefaultReward is the per-message relayer reward when no reward is
// configured.
const DefaultReward uint64 = 1

type Config struct {
	ServiceName string   `koanf:"service_name" mapstructure:"service_name"`
	Reward      uint64   `koanf:"reward" mapstructure:"reward"`
	Allowlist   []string `koanf:"allowlist" mapstructure:"allowlist"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "bridge",
		Reward:      DefaultReward,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	distinct := map[ChannelAddress]struct{}{}
	for _, entry := range c.Allowlist {
		channel, err := ParseChannelAddress(entry)
		if err != nil {
			return fmt.Errorf("core: allowlist entry %q: %w", entry, err)
		}
		distinct[channel] = struct{}{}
	}
	if len(distinct) > AllowListCapacity {
		return fmt.Errorf("core: allowlist has %d distinct entries, capacity is %d", len(distinct), AllowListCapacity)
	}
	return nil
}

// AllowlistChannels parses the configured allowlist entries. Validate must
// have passed for the result to be meaningful.
func (c Config) AllowlistChannels() ([]ChannelAddress, error) {
	if len(c.Allowlist) == 0 {
		return nil, nil
	}
	out := make([]ChannelAddress, 0, len(c.Allowlist))
	for _, entry := range c.Allowlist {
		channel, err := ParseChannelAddress(entry)
		if err != nil {
			return nil, fmt.Errorf("core: allowlist entry %q: %w", entry, err)
		}
		out = append(out, channel)
	}
	return out, nil
}
