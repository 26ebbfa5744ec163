package envfile_test

import (
	"path/filepath"
	"testing"

	"github.com/grandcamel/as-plugins-cli/internal/envfile"
	"github.com/grandcamel/as-plugins-cli/internal/utils/test/so"

	"github.com/spf13/afero"
)

func TestShellSource(t *testing.T) {
	source := envfile.ShellSource(
		[]string{
			"HOME=/home/user",
			"CONFLUENCE_SITE_URL=https://mycompany.atlassian.net",
			"JIRA_EMAIL=user@example.com",
			"JIRAISH=nope",
			"malformed",
		},
		[]string{"CONFLUENCE_", "JIRA_"},
	)

	so.So(t, source.Name, so.ShouldEqual, envfile.SourceShell)
	so.So(t, source.Values, so.ShouldResemble, map[string]string{
		"CONFLUENCE_SITE_URL": "https://mycompany.atlassian.net",
		"JIRA_EMAIL":          "user@example.com",
	})
}

func TestMerge(t *testing.T) {
	t.Run("should prefer earlier sources for the same key", func(t *testing.T) {
		merged := envfile.Merge([]envfile.Source{
			{Name: "shell", Values: map[string]string{"JIRA_EMAIL": "shell@example.com"}},
			{Name: "~/.env", Values: map[string]string{"JIRA_EMAIL": "file@example.com", "JIRA_API_TOKEN": "tok123"}},
		})

		so.So(t, merged, so.ShouldResemble, map[string]string{
			"JIRA_EMAIL":     "shell@example.com",
			"JIRA_API_TOKEN": "tok123",
		})
	})

	t.Run("should merge no sources into an empty map", func(t *testing.T) {
		so.So(t, envfile.Merge(nil), so.ShouldResemble, map[string]string{})
	})
}

func TestLookup(t *testing.T) {
	sources := []envfile.Source{
		{Name: "shell", Values: map[string]string{"JIRA_EMAIL": ""}},
		{Name: "~/.env", Values: map[string]string{"JIRA_EMAIL": "file@example.com"}},
	}

	t.Run("should skip empty values in earlier sources", func(t *testing.T) {
		value, sourceName, ok := envfile.Lookup(sources, "JIRA_EMAIL")
		so.So(t, ok, so.ShouldBeTrue)
		so.So(t, value, so.ShouldEqual, "file@example.com")
		so.So(t, sourceName, so.ShouldEqual, "~/.env")
	})

	t.Run("should report a miss for unknown fields", func(t *testing.T) {
		_, _, ok := envfile.Lookup(sources, "JIRA_SITE_URL")
		so.So(t, ok, so.ShouldBeFalse)
	})
}

func TestResolverSources(t *testing.T) {
	fs := afero.NewMemMapFs()
	homeDir := "/home/user"
	repoDir := "/home/user/assistant-skills"

	resolver := envfile.NewResolver(
		fs,
		[]string{"CONFLUENCE_SITE_URL=https://shell.atlassian.net"},
		homeDir,
		repoDir,
		[]string{"CONFLUENCE_", "JIRA_"},
	)

	t.Run("should derive the env file paths from home and repo dirs", func(t *testing.T) {
		so.So(t, resolver.EnvFilePath(), so.ShouldEqual, filepath.Join(homeDir, ".env"))
		so.So(t, resolver.SiblingEnvFilePath(), so.ShouldEqual, filepath.Join(repoDir, "..", "assistant-skills-library", ".env"))
	})

	t.Run("should omit file sources with no values", func(t *testing.T) {
		sources := resolver.Sources()
		so.So(t, sources, so.ShouldHaveLength, 1)
		so.So(t, sources[0].Name, so.ShouldEqual, envfile.SourceShell)
	})

	t.Run("should order sources shell first then env files", func(t *testing.T) {
		so.So(t, afero.WriteFile(fs, resolver.EnvFilePath(), []byte("JIRA_EMAIL=user@example.com\n"), 0600), so.ShouldBeNil)
		so.So(t, afero.WriteFile(fs, resolver.SiblingEnvFilePath(), []byte("JIRA_API_TOKEN=tok123\n"), 0600), so.ShouldBeNil)

		sources := resolver.Sources()
		so.So(t, sources, so.ShouldHaveLength, 3)
		so.So(t, sources[0].Name, so.ShouldEqual, envfile.SourceShell)
		so.So(t, sources[1].Name, so.ShouldEqual, "~/.env")
		so.So(t, sources[2].Name, so.ShouldEqual, "assistant-skills-library/.env")

		merged := envfile.Merge(sources)
		so.So(t, merged["CONFLUENCE_SITE_URL"], so.ShouldEqual, "https://shell.atlassian.net")
		so.So(t, merged["JIRA_EMAIL"], so.ShouldEqual, "user@example.com")
		so.So(t, merged["JIRA_API_TOKEN"], so.ShouldEqual, "tok123")
	})
}
