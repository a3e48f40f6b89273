package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
)

// Keys of pool settings in viper instance
const (
	KeySize             = "size"
	KeyDefaultTimeout   = "default_timeout"
	KeyPingInterval     = "ping_interval"
	KeyLeakThreshold    = "leak_threshold"
	KeyLeakScanInterval = "leak_scan_interval"
	KeyLeakTotalCap     = "leak_total_cap"
	KeyWatermark        = "watermark"
	KeyLabels           = "labels"
	KeyCreatorRole      = "creator_role"
	KeyReclaimPolicy    = "reclaim_policy"
	KeyMaxIdleAge       = "max_idle_age"
	KeyBatchCreateLimit = "batch_create_limit"
	KeyStackCapture     = "stack_capture"
)

var ErrInvalidConfig = xerrors.Wrap(errors.New("ydb: invalid session pool config"))

func invalid(key string, value interface{}) error {
	return xerrors.WithStackTrace(fmt.Errorf("%w: %s=%v", ErrInvalidConfig, key, value), xerrors.WithSkipDepth(1))
}

// ParseReclaimPolicy parses "log", "reclaim" or "database" (empty)
func ParseReclaimPolicy(s string) (ReclaimPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "database":
		return PolicyFromDatabase, nil
	case "log":
		return PolicyLog, nil
	case "reclaim":
		return PolicyReclaim, nil
	default:
		return PolicyFromDatabase, invalid(KeyReclaimPolicy, s)
	}
}

// FromViper reads options from viper instance (file, env, flags). Keys which
// are not set keep defaults. Explicit opts are applied after viper values.
func FromViper(v *viper.Viper, opts ...Option) (*Config, error) {
	fromViper, err := OptionsFromViper(v)
	if err != nil {
		return nil, err
	}

	return New(append(fromViper, opts...)...), nil
}

// OptionsFromViper validates settings of viper instance and converts them
// to options. Keys which are not set produce no options.
func OptionsFromViper(v *viper.Viper) ([]Option, error) {
	var (
		fromViper []Option
		err       error
	)

	if v.IsSet(KeySize) {
		size := v.GetInt(KeySize)
		if size < 1 {
			return nil, invalid(KeySize, size)
		}
		fromViper = append(fromViper, WithSize(size))
	}
	if v.IsSet(KeyDefaultTimeout) {
		timeout := v.GetDuration(KeyDefaultTimeout)
		if timeout <= 0 {
			return nil, invalid(KeyDefaultTimeout, timeout)
		}
		fromViper = append(fromViper, WithDefaultTimeout(timeout))
	}
	if v.IsSet(KeyPingInterval) {
		interval := v.GetDuration(KeyPingInterval)
		if interval <= 0 {
			return nil, invalid(KeyPingInterval, interval)
		}
		fromViper = append(fromViper, WithPingInterval(interval))
	}
	if v.IsSet(KeyLeakThreshold) {
		threshold := v.GetDuration(KeyLeakThreshold)
		if threshold <= 0 {
			return nil, invalid(KeyLeakThreshold, threshold)
		}
		fromViper = append(fromViper, WithLeakThreshold(threshold))
	}
	if v.IsSet(KeyLeakScanInterval) {
		interval := v.GetDuration(KeyLeakScanInterval)
		if interval <= 0 {
			return nil, invalid(KeyLeakScanInterval, interval)
		}
		fromViper = append(fromViper, WithLeakScanInterval(interval))
	}
	if v.IsSet(KeyLeakTotalCap) {
		totalCap := v.GetDuration(KeyLeakTotalCap)
		if totalCap <= 0 {
			return nil, invalid(KeyLeakTotalCap, totalCap)
		}
		fromViper = append(fromViper, WithLeakTotalCap(totalCap))
	}
	if v.IsSet(KeyWatermark) {
		watermark := v.GetFloat64(KeyWatermark)
		if watermark <= 0 || watermark > 1 {
			return nil, invalid(KeyWatermark, watermark)
		}
		fromViper = append(fromViper, WithWatermark(watermark))
	}
	if v.IsSet(KeyLabels) {
		fromViper = append(fromViper, WithLabels(v.GetStringMapString(KeyLabels)))
	}
	if v.IsSet(KeyCreatorRole) {
		fromViper = append(fromViper, WithCreatorRole(v.GetString(KeyCreatorRole)))
	}
	if v.IsSet(KeyReclaimPolicy) {
		var policy ReclaimPolicy
		policy, err = ParseReclaimPolicy(v.GetString(KeyReclaimPolicy))
		if err != nil {
			return nil, err
		}
		fromViper = append(fromViper, WithReclaimPolicy(policy))
	}
	if v.IsSet(KeyMaxIdleAge) {
		age := v.GetDuration(KeyMaxIdleAge)
		if age < 0 {
			return nil, invalid(KeyMaxIdleAge, age)
		}
		fromViper = append(fromViper, WithMaxIdleAge(age))
	}
	if v.IsSet(KeyBatchCreateLimit) {
		limit := v.GetInt(KeyBatchCreateLimit)
		if limit < 1 {
			return nil, invalid(KeyBatchCreateLimit, limit)
		}
		fromViper = append(fromViper, WithBatchCreateLimit(limit))
	}
	if v.IsSet(KeyStackCapture) {
		fromViper = append(fromViper, WithStackCapture(v.GetBool(KeyStackCapture)))
	}

	return fromViper, nil
}
