package oneclick

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Register(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		ak        string
		sk        string
		wantField string
	}{
		{"all empty", "", "", "", "token"},
		{"token empty", "", "ak", "sk", "token"},
		{"ak empty", "tok", "", "sk", "access key"},
		{"sk empty", "tok", "ak", "", "secret key"},
		{"sk blank", "tok", "ak", "   ", "secret key"},
		{"valid", "tok", "ak", "sk", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New()
			require.NoError(t, err)
			require.NoError(t, m.Register("old-token", "old-ak", "old-sk"))

			err = m.Register(tt.token, tt.ak, tt.sk)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, Credentials{tt.token, tt.ak, tt.sk}, m.Config().Credentials)
				return
			}
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Equal(t, tt.wantField, cfgErr.Field)
			// unchanged
			assert.Equal(t, Credentials{"old-token", "old-ak", "old-sk"}, m.Config().Credentials)
		})
	}
}

func TestManager_RegisterPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oneclick.creds")

	m, err := New(WithCredentialsFile(path))
	require.NoError(t, err)
	m.SetPhoneOperator("dtac")
	require.NoError(t, m.Register("tok", "ak", "sk"))

	if _, err := (credsStorage{filename: path}).Load(); err != nil {
		t.Skipf("encrypted storage is not available on this machine: %s", err)
	}

	m2, err := New(WithCredentialsFile(path))
	require.NoError(t, err)
	cfg := m2.Config()
	assert.Equal(t, Credentials{"tok", "ak", "sk"}, cfg.Credentials)
	assert.Equal(t, "dtac", cfg.PhoneOperator)
}

func TestNew_MissingCredentialsFile(t *testing.T) {
	m, err := New(WithCredentialsFile(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.True(t, m.Config().IsEmpty())
}

func TestManager_SetLanguage(t *testing.T) {
	t.Run("reads back", func(t *testing.T) {
		m, err := New()
		require.NoError(t, err)
		require.NoError(t, m.SetLanguage("th"))
		assert.Equal(t, "th", m.Config().Language)
		require.NoError(t, m.SetLanguage("zh-Hant-TW"))
		assert.Equal(t, "zh-Hant-TW", m.Config().Language)
	})
	t.Run("empty defaults to platform locale", func(t *testing.T) {
		m, err := New(WithPlatform(StaticPlatform{Lang: "ms-MY"}))
		require.NoError(t, err)
		require.NoError(t, m.SetLanguage("th"))
		require.NoError(t, m.SetLanguage(""))
		assert.Equal(t, "ms-MY", m.Config().Language)
	})
	t.Run("no platform locale", func(t *testing.T) {
		m, err := New(WithPlatform(StaticPlatform{}))
		require.NoError(t, err)
		assert.Equal(t, "en", m.Config().Language)
	})
	t.Run("invalid platform locale", func(t *testing.T) {
		m, err := New(WithPlatform(StaticPlatform{Lang: "!!"}))
		require.NoError(t, err)
		assert.Equal(t, "en", m.Config().Language)
	})
	t.Run("invalid tag is rejected", func(t *testing.T) {
		m, err := New()
		require.NoError(t, err)
		require.NoError(t, m.SetLanguage("th"))
		err = m.SetLanguage("not a tag!")
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.Equal(t, "th", m.Config().Language)
	})
}

func TestManager_SetMoreLoginOptions(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	icons := []Asset{"a", "b"}
	m.SetMoreLoginOptions(icons, nil)
	icons[0] = "changed"

	cfg := m.Config()
	assert.Equal(t, []Asset{"a", "b"}, cfg.Icons)
	cfg.Icons[1] = "changed"
	assert.Equal(t, []Asset{"a", "b"}, m.Config().Icons)
}

func TestManager_SetLogo(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	logo := &struct{ px []byte }{px: []byte{1}}
	m.SetLogo(logo)
	assert.Same(t, logo, m.Config().Logo)
}

func TestManager_SupportsOneClickLogin(t *testing.T) {
	ready := DeviceCapabilitySnapshot{HasSIM: true, CarrierAPIAvailable: true, NetworkReachable: true, CellularDataEnabled: true}
	noSIM := ready
	noSIM.HasSIM = false

	m, err := New()
	require.NoError(t, err)
	assert.False(t, m.SupportsOneClickLogin(context.Background()), "no platform")

	m, err = New(WithPlatform(StaticPlatform{DeviceCapabilitySnapshot: ready}))
	require.NoError(t, err)
	assert.True(t, m.SupportsOneClickLogin(context.Background()))

	m, err = New(WithPlatform(StaticPlatform{DeviceCapabilitySnapshot: noSIM}))
	require.NoError(t, err)
	assert.False(t, m.SupportsOneClickLogin(context.Background()))
}
