package i18n_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse-manager/internal/pkg/i18n"
)

func TestBundledCatalogue(t *testing.T) {
	assert.Equal(t, "Order placed", i18n.Translate("en", "order_created_title"))
	assert.Equal(t, "Pesanan dibuat", i18n.Translate("id", "order_created_title"))

	// id has no entry for this key, so it falls back to en.
	assert.Equal(t, "Order cancelled", i18n.Translate("id", "order_cancelled_title"))
	assert.Equal(t, "NON_EXISTENT_KEY", i18n.Translate("id", "NON_EXISTENT_KEY"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "Widget has 3 units left (reorder level 5).", i18n.Format("en", "low_stock_message", "Widget", 3, 5))
	assert.Equal(t, "Report ready", i18n.Format("en", "report_ready_title"))
}

func TestLoadTranslations(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fr"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr", "notifications.yaml"), []byte(
		"NOTIFICATIONS:\n  order_created_title: \"Commande passée\"\n",
	), 0o644))

	require.NoError(t, i18n.LoadTranslations(dir))
	assert.Equal(t, "Commande passée", i18n.Translate("fr", "order_created_title"))
	assert.Equal(t, "Order placed", i18n.Translate("en", "order_created_title"))

	i18n.SetLocale("fr")
	defer i18n.SetLocale(i18n.DefaultLocale)
	assert.Equal(t, "Commande passée", i18n.T("order_created_title"))
	assert.Equal(t, "Low stock", i18n.T("low_stock_title"))

	assert.Error(t, i18n.LoadTranslations(filepath.Join(dir, "missing")))
}

func TestLoadTranslations_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "de"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de", "notifications.yaml"), []byte("NOTIFICATIONS: [unclosed"), 0o644))

	assert.Error(t, i18n.LoadTranslations(dir))
}
