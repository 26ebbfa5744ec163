package plugins

import (
	"testing"
	"time"

	"github.com/grandcamel/as-plugins-cli/internal/platform"
	"github.com/grandcamel/as-plugins-cli/internal/utils/test/assert"
)

type fakeRun struct {
	commands [][]string
	out      string
	ok       bool
}

func (f *fakeRun) run(timeout time.Duration, name string, args ...string) (bool, string) {
	f.commands = append(f.commands, append([]string{name}, args...))
	return f.ok, f.out
}

func TestParsePluginList(t *testing.T) {
	out := `Installed plugins:

  ❯ confluence-assistant-skills@as-plugins
  ❯ jira-assistant-skills@as-plugins
  some other line
❯ splunk-assistant-skills
`

	assert.Match(t, []string{
		"confluence-assistant-skills",
		"jira-assistant-skills",
		"splunk-assistant-skills",
	}, parsePluginList(out))

	assert.Nilf(t, parsePluginList("no plugins installed"), "expected no plugins")
}

func TestClaudeManager(t *testing.T) {
	t.Run("should install a plugin from the marketplace at user scope", func(t *testing.T) {
		fake := &fakeRun{ok: true}
		m := &claudeManager{fake.run}

		ok, _ := m.Install("jira-assistant-skills")
		assert.True(t, ok, "expected install to succeed")
		assert.Match(t, []string{
			"claude", "plugin", "install", "jira-assistant-skills@as-plugins", "--scope", "user",
		}, fake.commands[0])
	})

	t.Run("should detect the marketplace by repo or name", func(t *testing.T) {
		fake := &fakeRun{ok: true, out: "grandcamel/as-plugins (3 plugins)"}
		m := &claudeManager{fake.run}

		assert.True(t, m.MarketplaceAdded(), "expected marketplace to be detected")
		assert.Match(t, []string{"claude", "plugin", "marketplace", "list"}, fake.commands[0])
	})

	t.Run("should treat a failed list as no plugins", func(t *testing.T) {
		fake := &fakeRun{ok: false, out: "command not found"}
		m := &claudeManager{fake.run}

		assert.Nilf(t, m.Installed(), "expected no plugins on failure")
	})
}

func TestPackageInstallerInstall(t *testing.T) {
	fake := &fakeRun{ok: true}
	installer := PackageInstaller{"/repo/.venv", fake.run}

	ok, _ := installer.Install(platform.PackageSpec{Name: "jira-as", MinVersion: "1.0.0"})
	assert.True(t, ok, "expected install to succeed")
	assert.Match(t, []string{"/repo/.venv/bin/pip", "install", "jira-as>=1.0.0"}, fake.commands[0])
}

func TestRunCommand(t *testing.T) {
	t.Run("should capture trimmed output on success", func(t *testing.T) {
		ok, out := runCommand(commandTimeout, "echo", "hello")
		assert.True(t, ok, "expected echo to succeed")
		assert.Equal(t, "hello", out)
	})

	t.Run("should report failure for a missing command", func(t *testing.T) {
		ok, out := runCommand(commandTimeout, "definitely-not-a-command")
		assert.False(t, ok, "expected command to fail")
		assert.True(t, out != "", "expected diagnostic output, got none")
	})
}

func TestInstallHint(t *testing.T) {
	assert.True(t, InstallHint("glab") != "", "expected a hint for glab")
	assert.Equal(t, "", InstallHint("unknown-tool"))
}
