package mock

import "github.com/grandcamel/as-plugins-cli/internal/plugins"

// PluginManager is a mock plugin manager
type PluginManager struct {
	plugins.Manager
	CLIAvailableFn     func() bool
	MarketplaceAddedFn func() bool
	AddMarketplaceFn   func() bool
	InstalledFn        func() []string
	InstallFn          func(name string) (bool, string)

	Installs []string
}

// NewPluginManager creates a mock plugin manager that reports an
// available CLI with the marketplace already added and records
// every install
func NewPluginManager() *PluginManager {
	return &PluginManager{}
}

// CLIAvailable calls CLIAvailableFn, defaulting to true
func (m *PluginManager) CLIAvailable() bool {
	if m.CLIAvailableFn != nil {
		return m.CLIAvailableFn()
	}
	return true
}

// MarketplaceAdded calls MarketplaceAddedFn, defaulting to true
func (m *PluginManager) MarketplaceAdded() bool {
	if m.MarketplaceAddedFn != nil {
		return m.MarketplaceAddedFn()
	}
	return true
}

// AddMarketplace calls AddMarketplaceFn, defaulting to true
func (m *PluginManager) AddMarketplace() bool {
	if m.AddMarketplaceFn != nil {
		return m.AddMarketplaceFn()
	}
	return true
}

// Installed calls InstalledFn, defaulting to no plugins
func (m *PluginManager) Installed() []string {
	if m.InstalledFn != nil {
		return m.InstalledFn()
	}
	return nil
}

// Install records the install and calls InstallFn, defaulting to success
func (m *PluginManager) Install(name string) (bool, string) {
	m.Installs = append(m.Installs, name)
	if m.InstallFn != nil {
		return m.InstallFn(name)
	}
	return true, ""
}
