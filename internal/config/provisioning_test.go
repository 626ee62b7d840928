package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProvisioningConfigDefaults(t *testing.T) {
	holder, err := loadProvisioningConfig(viper.New(), t.TempDir())
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, 30, cfg.InvoiceDueDays)
	assert.Equal(t, "INV", cfg.InvoicePrefix)
}

func TestLoadProvisioningConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("provisioning:\n  invoiceDueDays: 15\n  invoicePrefix: FAC\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "provisioning.yml"), content, 0o600))

	holder, err := loadProvisioningConfig(viper.New(), dir)
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, 15, cfg.InvoiceDueDays)
	assert.Equal(t, "FAC", cfg.InvoicePrefix)
}

func TestLoadProvisioningConfigRejectsNegativeDueDays(t *testing.T) {
	dir := t.TempDir()
	content := []byte("provisioning:\n  invoiceDueDays: -1\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "provisioning.yml"), content, 0o600))

	_, err := loadProvisioningConfig(viper.New(), dir)
	assert.Error(t, err)
}

func TestNilHolderFallsBackToDefaults(t *testing.T) {
	var holder *ProvisioningConfigHolder
	assert.Equal(t, DefaultProvisioningConfig(), holder.Get())
}
