package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/grandcamel/as-plugins-cli/internal/envfile"
	"github.com/grandcamel/as-plugins-cli/internal/platform"
	u "github.com/grandcamel/as-plugins-cli/internal/utils/test"
	"github.com/grandcamel/as-plugins-cli/internal/utils/test/assert"
	"github.com/grandcamel/as-plugins-cli/internal/utils/test/mock"

	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestProfile(t *testing.T) (*Profile, string, func()) {
	t.Helper()

	tmpDir, teardownTmpDir, tmpDirErr := u.NewTempDir("home")
	assert.Nil(t, tmpDirErr)

	_, teardownHomeDir := u.SetupHomeDir(tmpDir)

	profile := &Profile{
		RepoDir: tmpDir,
		VenvDir: filepath.Join(tmpDir, ".venv"),
		HomeDir: tmpDir,
		fs:      afero.NewOsFs(),
	}

	return profile, tmpDir, func() {
		teardownHomeDir()
		teardownTmpDir()
	}
}

func alwaysValid(p platform.Platform, creds map[string]string) (bool, string) {
	return true, "Connected"
}

func TestSetupHandler(t *testing.T) {
	t.Run("should collect validate and persist gitlab credentials", func(t *testing.T) {
		profile, tmpDir, teardown := newTestProfile(t)
		defer teardown()
		profile.Platforms = "gitlab"
		profile.SkipPlugins = true

		token := primitive.NewObjectID().Hex()

		secretStore := mock.NewSecretStore()
		cmd := &setupCommand{
			secretStore:    secretStore,
			pluginManager:  mock.NewPluginManager(),
			installPackage: func(pkg platform.PackageSpec) (bool, string) { return true, "" },
			check:          alwaysValid,
		}

		out := new(bytes.Buffer)
		console, _, ui, consoleErr := mock.NewVT10XConsoleWithOptions(mock.UIOptions{}, out)
		assert.Nil(t, consoleErr)
		defer console.Close()

		doneCh := make(chan struct{})
		go func() {
			defer close(doneCh)
			console.ExpectString("Personal Access Token")
			console.SendLine(token)
			console.ExpectString("GitLab Host")
			console.SendLine("")
			console.ExpectEOF()
		}()

		err := cmd.Handler(profile, ui)

		console.Tty().Close() // flush the writers
		<-doneCh              // wait for procedure to complete

		assert.Nil(t, err)

		values, loadErr := envfile.Load(profile.fs, filepath.Join(tmpDir, ".env"))
		assert.Nil(t, loadErr)
		assert.Equal(t, "$(mock-secret as-plugins-gitlab GITLAB_TOKEN)", values[platform.FieldGitlabToken])
		assert.Equal(t, "https://gitlab.com", values[platform.FieldGitlabHost])

		secret, ok := secretStore.Get("as-plugins-gitlab", platform.FieldGitlabToken)
		assert.True(t, ok, "expected the token in the secret store")
		assert.Equal(t, token, secret)
	})

	t.Run("should keep secrets in the env file when the keychain is unavailable", func(t *testing.T) {
		profile, tmpDir, teardown := newTestProfile(t)
		defer teardown()
		profile.Platforms = "gitlab"
		profile.SkipPlugins = true

		secretStore := mock.NewSecretStore()
		secretStore.Available = false

		cmd := &setupCommand{
			secretStore:    secretStore,
			pluginManager:  mock.NewPluginManager(),
			installPackage: func(pkg platform.PackageSpec) (bool, string) { return true, "" },
			check:          alwaysValid,
		}

		out := new(bytes.Buffer)
		console, _, ui, consoleErr := mock.NewVT10XConsoleWithOptions(mock.UIOptions{}, out)
		assert.Nil(t, consoleErr)
		defer console.Close()

		doneCh := make(chan struct{})
		go func() {
			defer close(doneCh)
			console.ExpectString("Personal Access Token")
			console.SendLine("glpat-abc")
			console.ExpectString("GitLab Host")
			console.SendLine("")
			console.ExpectEOF()
		}()

		err := cmd.Handler(profile, ui)

		console.Tty().Close()
		<-doneCh

		assert.Nil(t, err)

		values, loadErr := envfile.Load(profile.fs, filepath.Join(tmpDir, ".env"))
		assert.Nil(t, loadErr)
		assert.Equal(t, "glpat-abc", values[platform.FieldGitlabToken])
	})

	t.Run("should reuse confluence credentials for jira when confirmed", func(t *testing.T) {
		profile, tmpDir, teardown := newTestProfile(t)
		defer teardown()
		profile.Platforms = "confluence,jira"
		profile.SkipPlugins = true
		profile.NoKeychain = true

		var checked []platform.Platform
		cmd := &setupCommand{
			secretStore:    mock.NewSecretStore(),
			pluginManager:  mock.NewPluginManager(),
			installPackage: func(pkg platform.PackageSpec) (bool, string) { return true, "" },
			check: func(p platform.Platform, creds map[string]string) (bool, string) {
				checked = append(checked, p)
				return true, "Connected"
			},
		}

		out := new(bytes.Buffer)
		console, _, ui, consoleErr := mock.NewVT10XConsoleWithOptions(mock.UIOptions{AutoConfirm: true}, out)
		assert.Nil(t, consoleErr)
		defer console.Close()

		doneCh := make(chan struct{})
		go func() {
			defer close(doneCh)
			console.ExpectString("Site URL")
			console.SendLine("mycompany.atlassian.net")
			console.ExpectString("Email")
			console.SendLine("user@example.com")
			console.ExpectString("API Token")
			console.SendLine("tok123")
			console.ExpectEOF()
		}()

		err := cmd.Handler(profile, ui)

		console.Tty().Close()
		<-doneCh

		assert.Nil(t, err)
		assert.Match(t, []platform.Platform{platform.Confluence, platform.Jira}, checked)

		values, loadErr := envfile.Load(profile.fs, filepath.Join(tmpDir, ".env"))
		assert.Nil(t, loadErr)
		assert.Equal(t, "https://mycompany.atlassian.net", values[platform.FieldJiraSiteURL])
		assert.Equal(t, "user@example.com", values[platform.FieldJiraEmail])
		assert.Equal(t, "tok123", values[platform.FieldJiraAPIToken])
	})

	t.Run("should not run install steps for an abandoned platform", func(t *testing.T) {
		profile, tmpDir, teardown := newTestProfile(t)
		defer teardown()
		profile.Platforms = "confluence,gitlab"
		profile.NoKeychain = true

		manager := mock.NewPluginManager()
		var installed []string
		cmd := &setupCommand{
			secretStore:   mock.NewSecretStore(),
			pluginManager: manager,
			installPackage: func(pkg platform.PackageSpec) (bool, string) {
				installed = append(installed, pkg.Name)
				return true, ""
			},
			check: func(p platform.Platform, creds map[string]string) (bool, string) {
				if p == platform.Confluence {
					return false, "Invalid credentials (401 Unauthorized)"
				}
				return true, "Connected"
			},
		}

		out := new(bytes.Buffer)
		console, _, ui, consoleErr := mock.NewVT10XConsoleWithOptions(mock.UIOptions{}, out)
		assert.Nil(t, consoleErr)
		defer console.Close()

		doneCh := make(chan struct{})
		go func() {
			defer close(doneCh)
			console.ExpectString("Site URL")
			console.SendLine("mycompany.atlassian.net")
			console.ExpectString("Email")
			console.SendLine("user@example.com")
			console.ExpectString("API Token")
			console.SendLine("tok123")
			console.ExpectString("Try Confluence Configuration again?")
			console.SendLine("n")
			console.ExpectString("Save these credentials anyway?")
			console.SendLine("n")
			console.ExpectString("Personal Access Token")
			console.SendLine("glpat-abc")
			console.ExpectString("GitLab Host")
			console.SendLine("")
			console.ExpectEOF()
		}()

		err := cmd.Handler(profile, ui)

		console.Tty().Close()
		<-doneCh

		assert.Nil(t, err)
		assert.Equalf(t, 0, len(installed), "expected no package installs for the abandoned platform, got %v", installed)
		assert.Equalf(t, 0, len(manager.Installs), "expected no plugin installs for the abandoned platform, got %v", manager.Installs)

		values, loadErr := envfile.Load(profile.fs, filepath.Join(tmpDir, ".env"))
		assert.Nil(t, loadErr)
		assert.Equal(t, "", values[platform.FieldConfluenceSiteURL])
		assert.Equal(t, "glpat-abc", values[platform.FieldGitlabToken])
	})

	t.Run("should error when run without a terminal", func(t *testing.T) {
		profile, _, teardown := newTestProfile(t)
		defer teardown()
		profile.Platforms = "confluence"

		cmd := &setupCommand{check: alwaysValid}

		_, ui := mock.NewUI()
		err := cmd.Handler(profile, ui)
		assert.Equal(t,
			New("setup must be run from an interactive terminal (use --skip-credentials to only run install steps)"),
			err,
		)
	})

	t.Run("should only run install steps when credentials are skipped", func(t *testing.T) {
		profile, _, teardown := newTestProfile(t)
		defer teardown()
		profile.Platforms = "jira"
		profile.SkipCredentials = true
		profile.environ = []string{
			"JIRA_SITE_URL=https://mycompany.atlassian.net",
			"JIRA_EMAIL=user@example.com",
			"JIRA_API_TOKEN=tok123",
		}

		manager := mock.NewPluginManager()
		var installed []string
		cmd := &setupCommand{
			secretStore:   mock.NewSecretStore(),
			pluginManager: manager,
			installPackage: func(pkg platform.PackageSpec) (bool, string) {
				installed = append(installed, pkg.Name)
				return true, ""
			},
			check: alwaysValid,
		}

		_, ui := mock.NewUI()
		assert.Nil(t, cmd.Handler(profile, ui))

		assert.Match(t, []string{"jira-as"}, installed)
		assert.Match(t, []string{"jira-assistant-skills"}, manager.Installs)
	})

	t.Run("should error when nothing ends up configured", func(t *testing.T) {
		profile, _, teardown := newTestProfile(t)
		defer teardown()
		profile.Platforms = "jira"
		profile.SkipCredentials = true

		cmd := &setupCommand{
			secretStore:    mock.NewSecretStore(),
			pluginManager:  mock.NewPluginManager(),
			installPackage: func(pkg platform.PackageSpec) (bool, string) { return true, "" },
			check:          alwaysValid,
		}

		_, ui := mock.NewUI()
		assert.Equal(t, errNoPlatformsConfigured, cmd.Handler(profile, ui))
	})
}
