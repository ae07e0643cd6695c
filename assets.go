package oneclick

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrAssetNotFound is returned by AssetLoader if there's no asset with the
// name in the catalogue.
var ErrAssetNotFound = errors.New("asset not found")

// assetCatalogues are tried in order when resolving the asset by name.
var assetCatalogues = []string{"drawable", "mipmap"}

// AssetLoader loads images bundled with the application.
type AssetLoader interface {
	LoadAsset(ctx context.Context, catalogue, name string) (Asset, error)
}

type assetKey string

// resolveAsset looks up the asset by name in all catalogues, the resolved
// assets are cached.
func (m *Manager) resolveAsset(ctx context.Context, name string) (Asset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errConfig("asset", "name is required")
	}
	if m.assets == nil {
		return nil, errConfig("asset", "no asset loader")
	}
	if cached, err := m.cache.Get(assetKey(name)); err == nil {
		return cached, nil
	}
	for _, cat := range assetCatalogues {
		a, err := m.assets.LoadAsset(ctx, cat, name)
		if err != nil {
			if errors.Is(err, ErrAssetNotFound) {
				continue
			}
			return nil, fmt.Errorf("loading %s/%s: %w", cat, name, err)
		}
		if err := m.cache.Set(assetKey(name), a); err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, &ConfigurationError{Field: "asset", Reason: "not found: " + name, Err: ErrAssetNotFound}
}

// SetLogoByName resolves the logo by its resource name and sets it.
func (m *Manager) SetLogoByName(ctx context.Context, name string) error {
	a, err := m.resolveAsset(ctx, name)
	if err != nil {
		return err
	}
	m.SetLogo(a)
	return nil
}

// SetMoreLoginOptionsByName resolves the icons by resource names and sets
// them, see SetMoreLoginOptions.
func (m *Manager) SetMoreLoginOptionsByName(ctx context.Context, names []string, onClick func(index int)) error {
	icons := make([]Asset, len(names))
	for i, name := range names {
		a, err := m.resolveAsset(ctx, name)
		if err != nil {
			return err
		}
		icons[i] = a
	}
	m.SetMoreLoginOptions(icons, onClick)
	return nil
}
