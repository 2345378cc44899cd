package secrets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyVaultSecrets_Disabled(t *testing.T) {
	result, err := ApplyVaultSecrets(context.Background(), VaultConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, result.Enabled)
}

func TestApplyVaultSecrets_IncompleteConfig(t *testing.T) {
	_, err := ApplyVaultSecrets(context.Background(), VaultConfig{Enabled: true})
	assert.Error(t, err)
}

func TestApplyVaultSecrets_KVv2(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/cliniscribe", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Vault-Token"))
		w.Write([]byte(`{"data":{"data":{"INFERENCE_API_KEY":"from-vault","CACHE_TTL_SECONDS":3600}}}`))
	}))
	defer server.Close()

	t.Setenv("INFERENCE_API_KEY", "")
	t.Setenv("CACHE_TTL_SECONDS", "")

	result, err := ApplyVaultSecrets(context.Background(), VaultConfig{
		Enabled:   true,
		Addr:      server.URL,
		Token:     "test-token",
		Mount:     "secret",
		Path:      "cliniscribe",
		KVVersion: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, "from-vault", os.Getenv("INFERENCE_API_KEY"))
	assert.Equal(t, "3600", os.Getenv("CACHE_TTL_SECONDS"))
}

func TestApplyVaultSecrets_KeepsExistingEnv(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"data":{"INFERENCE_API_KEY":"from-vault"}}}`))
	}))
	defer server.Close()

	t.Setenv("INFERENCE_API_KEY", "already-set")

	result, err := ApplyVaultSecrets(context.Background(), VaultConfig{
		Enabled: true,
		Addr:    server.URL,
		Token:   "test-token",
		Mount:   "secret",
		Path:    "cliniscribe",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "already-set", os.Getenv("INFERENCE_API_KEY"))
}

func TestStringifyVaultValue(t *testing.T) {
	assert.Equal(t, "plain", stringifyVaultValue("plain"))
	assert.Equal(t, "", stringifyVaultValue(nil))
	assert.Equal(t, "true", stringifyVaultValue(true))
	assert.Equal(t, "3600", stringifyVaultValue(float64(3600)))
	assert.Equal(t, "6379", stringifyVaultValue(6379))
	assert.Equal(t, "42", stringifyVaultValue(int64(42)))
}

func TestBuildVaultURL(t *testing.T) {
	url, err := buildVaultURL("http://vault:8200/", "secret", "/cliniscribe", 2)
	require.NoError(t, err)
	assert.Equal(t, "http://vault:8200/v1/secret/data/cliniscribe", url)

	url, err = buildVaultURL("http://vault:8200", "kv", "cliniscribe", 1)
	require.NoError(t, err)
	assert.Equal(t, "http://vault:8200/v1/kv/cliniscribe", url)

	_, err = buildVaultURL("", "secret", "cliniscribe", 2)
	assert.Error(t, err)
}
