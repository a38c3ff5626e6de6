package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	DefaultPageSize    = 6
	DefaultLatestLimit = 5
)

// ListingConfig controls list pages on the dashboard.
type ListingConfig struct {
	PageSize    int `mapstructure:"pageSize"`
	LatestLimit int `mapstructure:"latestLimit"`
}

type ListingConfigHolder struct {
	current atomic.Value // holds ListingConfig
}

// NewListingConfigHolder seeds the holder from env-derived defaults and, when an
// invoicedesk.yml is present, overrides them and watches the file for changes.
func NewListingConfigHolder(cfg Config) (*ListingConfigHolder, error) {
	defaults := cfg.Listing
	if err := validateListingConfig(defaults); err != nil {
		defaults = ListingConfig{PageSize: DefaultPageSize, LatestLimit: DefaultLatestLimit}
	}

	v := viper.New()
	v.SetConfigName("invoicedesk")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/invoicedesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INVOICEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listing.pageSize", defaults.PageSize)
	v.SetDefault("listing.latestLimit", defaults.LatestLimit)

	holder := &ListingConfigHolder{}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(defaults)
		return holder, nil
	}

	var listing ListingConfig
	if err := v.UnmarshalKey("listing", &listing); err != nil {
		return nil, err
	}
	if err := validateListingConfig(listing); err != nil {
		return nil, err
	}
	holder.current.Store(listing)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ListingConfig
		if err := v.UnmarshalKey("listing", &updated); err != nil {
			log.Printf("[listing-config] reload failed: %v", err)
			return
		}
		if err := validateListingConfig(updated); err != nil {
			log.Printf("[listing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[listing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticListingConfigHolder returns a holder that never reloads.
func NewStaticListingConfigHolder(listing ListingConfig) *ListingConfigHolder {
	holder := &ListingConfigHolder{}
	holder.current.Store(listing)
	return holder
}

func (h *ListingConfigHolder) Get() ListingConfig {
	return h.current.Load().(ListingConfig)
}

func validateListingConfig(cfg ListingConfig) error {
	if cfg.PageSize < 1 {
		return errors.New("listing.pageSize must be positive")
	}
	if cfg.LatestLimit < 1 {
		return errors.New("listing.latestLimit must be positive")
	}
	return nil
}
