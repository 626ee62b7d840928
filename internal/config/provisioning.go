package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ProvisioningConfig tunes the package provisioning workflow.
type ProvisioningConfig struct {
	// InvoiceDueDays is 30 unless overridden; other values move due dates
	// off the standard issue+30 term.
	InvoiceDueDays int    `mapstructure:"invoiceDueDays"`
	InvoicePrefix  string `mapstructure:"invoicePrefix"`
}

func DefaultProvisioningConfig() ProvisioningConfig {
	return ProvisioningConfig{
		InvoiceDueDays: 30,
		InvoicePrefix:  "INV",
	}
}

type ProvisioningConfigHolder struct {
	current atomic.Value // holds ProvisioningConfig
}

// NewStaticProvisioningConfigHolder returns a holder that never reloads.
func NewStaticProvisioningConfigHolder(cfg ProvisioningConfig) *ProvisioningConfigHolder {
	holder := &ProvisioningConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewProvisioningConfigHolder() (*ProvisioningConfigHolder, error) {
	return loadProvisioningConfig(viper.New(), "/var/lib/agencydesk/config", "/etc/agencydesk", ".")
}

func loadProvisioningConfig(v *viper.Viper, paths ...string) (*ProvisioningConfigHolder, error) {
	v.SetConfigName("provisioning")
	v.SetConfigType("yml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix("AGENCYDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultProvisioningConfig()
	v.SetDefault("provisioning.invoiceDueDays", defaults.InvoiceDueDays)
	v.SetDefault("provisioning.invoicePrefix", defaults.InvoicePrefix)

	configFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		configFound = false
	}

	var cfg ProvisioningConfig
	if err := v.UnmarshalKey("provisioning", &cfg); err != nil {
		return nil, err
	}
	if err := validateProvisioningConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticProvisioningConfigHolder(cfg)
	if !configFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ProvisioningConfig
		if err := v.UnmarshalKey("provisioning", &updated); err != nil {
			log.Printf("[provisioning-config] reload failed: %v", err)
			return
		}
		if err := validateProvisioningConfig(updated); err != nil {
			log.Printf("[provisioning-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[provisioning-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ProvisioningConfigHolder) Get() ProvisioningConfig {
	if h == nil {
		return DefaultProvisioningConfig()
	}
	return h.current.Load().(ProvisioningConfig)
}

func validateProvisioningConfig(cfg ProvisioningConfig) error {
	if cfg.InvoiceDueDays < 0 {
		return errors.New("provisioning.invoiceDueDays cannot be negative")
	}
	if strings.TrimSpace(cfg.InvoicePrefix) == "" {
		return errors.New("provisioning.invoicePrefix cannot be empty")
	}
	return nil
}
