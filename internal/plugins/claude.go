package plugins

import "strings"

const (
	marketplaceRepo = "grandcamel/as-plugins"

	// MarketplaceName is the marketplace plugins are installed from
	MarketplaceName = "as-plugins"
)

// NewClaudeManager creates a Manager backed by the claude CLI
func NewClaudeManager() Manager {
	return &claudeManager{runCommand}
}

type claudeManager struct {
	run runnerFunc
}

func (m *claudeManager) CLIAvailable() bool {
	ok, _ := m.run(commandTimeout, "claude", "--version")
	return ok
}

func (m *claudeManager) MarketplaceAdded() bool {
	ok, out := m.run(commandTimeout, "claude", "plugin", "marketplace", "list")
	if !ok {
		return false
	}
	return strings.Contains(out, marketplaceRepo) || strings.Contains(out, MarketplaceName)
}

func (m *claudeManager) AddMarketplace() bool {
	ok, _ := m.run(commandTimeout, "claude", "plugin", "marketplace", "add", marketplaceRepo)
	return ok
}

func (m *claudeManager) Installed() []string {
	ok, out := m.run(commandTimeout, "claude", "plugin", "list")
	if !ok {
		return nil
	}
	return parsePluginList(out)
}

func (m *claudeManager) Install(name string) (bool, string) {
	return m.run(installTimeout, "claude", "plugin", "install", name+"@"+MarketplaceName, "--scope", "user")
}

// parsePluginList extracts plugin names from the CLI's list output,
// where installed plugins appear as "❯ plugin-name@marketplace" lines
func parsePluginList(out string) []string {
	var plugins []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "❯") {
			continue
		}

		name := strings.TrimSpace(strings.TrimPrefix(line, "❯"))
		if idx := strings.Index(name, "@"); idx >= 0 {
			name = name[:idx]
		}
		if name = strings.TrimSpace(name); name != "" {
			plugins = append(plugins, name)
		}
	}
	return plugins
}
