package platform

import "strings"

// Platform identifies a supported third-party service
type Platform string

// set of supported platforms
const (
	Confluence Platform = "confluence"
	Jira       Platform = "jira"
	Splunk     Platform = "splunk"
	Gitlab     Platform = "gitlab"
)

// set of platform credential field names
const (
	FieldConfluenceSiteURL  = "CONFLUENCE_SITE_URL"
	FieldConfluenceEmail    = "CONFLUENCE_EMAIL"
	FieldConfluenceAPIToken = "CONFLUENCE_API_TOKEN"

	FieldJiraSiteURL  = "JIRA_SITE_URL"
	FieldJiraEmail    = "JIRA_EMAIL"
	FieldJiraAPIToken = "JIRA_API_TOKEN"

	FieldSplunkURL        = "SPLUNK_URL"
	FieldSplunkUsername   = "SPLUNK_USERNAME"
	FieldSplunkPassword   = "SPLUNK_PASSWORD"
	FieldSplunkVerifySSL  = "SPLUNK_VERIFY_SSL"
	FieldSplunkCACertPath = "SPLUNK_CA_CERT_PATH"

	FieldGitlabToken = "GITLAB_TOKEN"
	FieldGitlabHost  = "GITLAB_HOST"
)

// InstallKind describes how a platform's tooling is installed
type InstallKind string

// set of supported install kinds
const (
	InstallKindPackage InstallKind = "package"
	InstallKindCLI     InstallKind = "cli"
)

// PackageSpec identifies a platform's supporting package
type PackageSpec struct {
	Name       string
	MinVersion string
}

// Spec is the static descriptor of a platform
type Spec struct {
	Name     Platform
	Title    string
	Fields   []FieldSpec
	URLField string
	Install  InstallKind
	Package  PackageSpec
	Plugin   string
	CLITool  string
}

var specs = []Spec{
	{
		Name:  Confluence,
		Title: "Confluence Configuration",
		Fields: []FieldSpec{
			{
				Name:        FieldConfluenceSiteURL,
				Label:       "Site URL",
				Placeholder: "https://your-site.atlassian.net",
				Kind:        KindAtlassianURL,
			},
			{
				Name:        FieldConfluenceEmail,
				Label:       "Email",
				Placeholder: "user@example.com",
				Kind:        KindEmail,
			},
			{
				Name:   FieldConfluenceAPIToken,
				Label:  "API Token",
				Secret: true,
				Help:   "Create at: https://id.atlassian.com/manage-profile/security/api-tokens",
			},
		},
		URLField: FieldConfluenceSiteURL,
		Install:  InstallKindPackage,
		Package:  PackageSpec{"confluence-as", "1.1.0"},
		Plugin:   "confluence-assistant-skills",
	},
	{
		Name:  Jira,
		Title: "JIRA Configuration",
		Fields: []FieldSpec{
			{
				Name:        FieldJiraSiteURL,
				Label:       "Site URL",
				Placeholder: "https://your-site.atlassian.net",
				Kind:        KindAtlassianURL,
			},
			{
				Name:        FieldJiraEmail,
				Label:       "Email",
				Placeholder: "user@example.com",
				Kind:        KindEmail,
			},
			{
				Name:   FieldJiraAPIToken,
				Label:  "API Token",
				Secret: true,
				Help:   "Create at: https://id.atlassian.com/manage-profile/security/api-tokens",
			},
		},
		URLField: FieldJiraSiteURL,
		Install:  InstallKindPackage,
		Package:  PackageSpec{"jira-as", "1.0.0"},
		Plugin:   "jira-assistant-skills",
	},
	{
		Name:  Splunk,
		Title: "Splunk Configuration",
		Fields: []FieldSpec{
			{
				Name:        FieldSplunkURL,
				Label:       "Splunk URL",
				Placeholder: "https://splunk.example.com:8089",
				Kind:        KindURL,
			},
			{
				Name:        FieldSplunkUsername,
				Label:       "Username",
				Placeholder: "admin",
			},
			{
				Name:   FieldSplunkPassword,
				Label:  "Password",
				Secret: true,
			},
			{
				Name:     FieldSplunkVerifySSL,
				Label:    "Verify SSL",
				Help:     "Set to false to allow self-signed certificates",
				Optional: true,
			},
			{
				Name:     FieldSplunkCACertPath,
				Label:    "CA Certificate Path",
				Help:     "Path to a PEM bundle used to verify the Splunk server certificate",
				Optional: true,
			},
		},
		URLField: FieldSplunkURL,
		Install:  InstallKindPackage,
		Package:  PackageSpec{"splunk-as", "1.1.6"},
		Plugin:   "splunk-assistant-skills",
	},
	{
		Name:  Gitlab,
		Title: "GitLab Configuration",
		Fields: []FieldSpec{
			{
				Name:   FieldGitlabToken,
				Label:  "Personal Access Token",
				Secret: true,
				Help:   "Create at: https://gitlab.com/-/user_settings/personal_access_tokens",
			},
			{
				Name:     FieldGitlabHost,
				Label:    "GitLab Host",
				Kind:     KindURL,
				Default:  "https://gitlab.com",
				Optional: true,
				Help:     "Override for self-hosted GitLab instances",
			},
		},
		URLField: FieldGitlabHost,
		Install:  InstallKindCLI,
		CLITool:  "glab",
	},
}

// All returns the platform specs in display order
func All() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Get returns the spec for the named platform
func Get(name Platform) (Spec, bool) {
	for _, spec := range specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return Spec{}, false
}

// Parse resolves a platform from its string identifier
func Parse(s string) (Platform, bool) {
	name := Platform(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := Get(name); !ok {
		return "", false
	}
	return name, true
}

// RequiredFields returns the names of the fields that must all be
// present for the platform to count as configured
func (s Spec) RequiredFields() []string {
	var fields []string
	for _, f := range s.Fields {
		if !f.Optional {
			fields = append(fields, f.Name)
		}
	}
	return fields
}

// OptionalFields returns the names of the fields that may be absent
func (s Spec) OptionalFields() []string {
	var fields []string
	for _, f := range s.Fields {
		if f.Optional {
			fields = append(fields, f.Name)
		}
	}
	return fields
}

// Configured reports whether every required field has a non-empty
// value in the provided environment
func (s Spec) Configured(env map[string]string) bool {
	for _, field := range s.RequiredFields() {
		if env[field] == "" {
			return false
		}
	}
	return true
}

// DisplayURL returns the platform's service endpoint from the
// provided environment, stripped to its domain for display
func (s Spec) DisplayURL(env map[string]string) string {
	if s.URLField == "" {
		return ""
	}
	url := env[s.URLField]
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	return strings.TrimRight(url, "/")
}

// ConfiguredPlatforms returns the required field values of each
// platform fully configured in the provided environment
func ConfiguredPlatforms(env map[string]string) map[Platform]map[string]string {
	configured := map[Platform]map[string]string{}
	for _, spec := range specs {
		if !spec.Configured(env) {
			continue
		}
		values := map[string]string{}
		for _, field := range spec.RequiredFields() {
			values[field] = env[field]
		}
		configured[spec.Name] = values
	}
	return configured
}

// EnvPrefixes returns the environment variable prefixes owned by the
// supported platforms
func EnvPrefixes() []string {
	return []string{"CONFLUENCE_", "JIRA_", "SPLUNK_", "GITLAB_"}
}
