package notify

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"liyu1981.xyz/thp-sensor-service/pkg/common"
)

const (
	ChannelKindTwilio = "twilio"
	ChannelKindLog    = "log"
)

var ErrInvalidChannelConfig = errors.New("invalid messaging channel configuration")

// ChannelConfig carries the deployment-time identities. Recipient and sender
// never come from a request.
type ChannelConfig struct {
	Kind       string
	AccountSID string
	AuthToken  string
	Sender     string
	Recipient  string
}

func LoadChannelConfig(lookup common.LookupFunc) (ChannelConfig, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := ChannelConfig{
		Kind:       strings.ToLower(get(common.EnvKeyNotifyChannel)),
		AccountSID: get(common.EnvKeyTwilioAccountSID),
		AuthToken:  get(common.EnvKeyTwilioAuthToken),
		Sender:     get(common.EnvKeyTwilioPhoneNumber),
		Recipient:  get(common.EnvKeyRecipientNumber),
	}
	if cfg.Kind == "" {
		cfg.Kind = ChannelKindTwilio
	}

	switch cfg.Kind {
	case ChannelKindTwilio:
		var missing []string
		for key, v := range map[string]string{
			common.EnvKeyTwilioAccountSID:  cfg.AccountSID,
			common.EnvKeyTwilioAuthToken:   cfg.AuthToken,
			common.EnvKeyTwilioPhoneNumber: cfg.Sender,
			common.EnvKeyRecipientNumber:   cfg.Recipient,
		} {
			if v == "" {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return ChannelConfig{}, fmt.Errorf("%w: missing %s", ErrInvalidChannelConfig, strings.Join(missing, ", "))
		}
	case ChannelKindLog:
	default:
		return ChannelConfig{}, fmt.Errorf("%w: unknown channel %q", ErrInvalidChannelConfig, cfg.Kind)
	}

	return cfg, nil
}

// NewChannel builds the channel selected by cfg.Kind.
func NewChannel(cfg ChannelConfig) (Channel, error) {
	switch cfg.Kind {
	case ChannelKindTwilio:
		return NewTwilioChannel(cfg.AccountSID, cfg.AuthToken), nil
	case ChannelKindLog:
		return &LogChannel{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown channel %q", ErrInvalidChannelConfig, cfg.Kind)
	}
}
