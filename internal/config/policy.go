package config

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Policy holds runtime-tunable limits that can be changed without a restart.
type Policy struct {
	DefaultKeywordLimit int         `mapstructure:"defaultKeywordLimit"`
	Cache               CachePolicy `mapstructure:"cache"`
	SignIn              RatePolicy  `mapstructure:"signIn"`
}

type CachePolicy struct {
	KeywordsTTL      time.Duration `mapstructure:"keywordsTTL"`
	SubscriptionsTTL time.Duration `mapstructure:"subscriptionsTTL"`
	ProfileTTL       time.Duration `mapstructure:"profileTTL"`
	SessionIdleTTL   time.Duration `mapstructure:"sessionIdleTTL"`
}

type RatePolicy struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

func DefaultPolicy() Policy {
	return Policy{
		DefaultKeywordLimit: 5,
		Cache: CachePolicy{
			KeywordsTTL:      5 * time.Minute,
			SubscriptionsTTL: time.Minute,
			ProfileTTL:       5 * time.Minute,
			SessionIdleTTL:   30 * time.Minute,
		},
		SignIn: RatePolicy{
			Rate:  0.2,
			Burst: 5,
		},
	}
}

type PolicyHolder struct {
	current atomic.Value // holds Policy
}

// NewStaticPolicyHolder returns a holder that never reloads.
func NewStaticPolicyHolder(p Policy) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(p)
	return holder
}

func NewPolicyHolder(cfg Config, log *zap.Logger) (*PolicyHolder, error) {
	log = log.Named("config.policy")
	v := viper.New()

	if cfg.PolicyPath != "" {
		v.SetConfigFile(cfg.PolicyPath)
	} else {
		v.SetConfigName("gardenwatch")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/gardenwatch")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GARDENWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPolicy()
	v.SetDefault("policy.defaultKeywordLimit", defaults.DefaultKeywordLimit)
	v.SetDefault("policy.cache.keywordsTTL", defaults.Cache.KeywordsTTL)
	v.SetDefault("policy.cache.subscriptionsTTL", defaults.Cache.SubscriptionsTTL)
	v.SetDefault("policy.cache.profileTTL", defaults.Cache.ProfileTTL)
	v.SetDefault("policy.cache.sessionIdleTTL", defaults.Cache.SessionIdleTTL)
	v.SetDefault("policy.signIn.rate", defaults.SignIn.Rate)
	v.SetDefault("policy.signIn.burst", defaults.SignIn.Burst)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	policy, err := decodePolicy(v)
	if err != nil {
		return nil, err
	}
	if err := ValidatePolicy(policy); err != nil {
		return nil, err
	}

	holder := NewStaticPolicyHolder(policy)
	if !fileLoaded {
		log.Info("policy file not found, using defaults")
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodePolicy(v)
		if err != nil {
			log.Warn("policy reload failed", zap.Error(err))
			return
		}
		if err := ValidatePolicy(updated); err != nil {
			log.Warn("invalid policy ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("policy reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

func (h *PolicyHolder) Get() Policy {
	return h.current.Load().(Policy)
}

// decodePolicy unmarshals through AllSettings so defaults fill keys missing from the file.
func decodePolicy(v *viper.Viper) (Policy, error) {
	var root struct {
		Policy Policy `mapstructure:"policy"`
	}
	if err := v.Unmarshal(&root); err != nil {
		return Policy{}, err
	}
	return root.Policy, nil
}

func ValidatePolicy(p Policy) error {
	if p.DefaultKeywordLimit <= 0 {
		return errors.New("policy.defaultKeywordLimit must be positive")
	}
	if p.Cache.KeywordsTTL <= 0 || p.Cache.SubscriptionsTTL <= 0 || p.Cache.ProfileTTL <= 0 {
		return errors.New("policy.cache ttls must be positive")
	}
	if p.Cache.SessionIdleTTL <= 0 {
		return errors.New("policy.cache.sessionIdleTTL must be positive")
	}
	if p.SignIn.Rate <= 0 || p.SignIn.Burst <= 0 {
		return errors.New("policy.signIn rate and burst must be positive")
	}
	return nil
}
