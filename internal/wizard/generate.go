package wizard

import (
	"bytes"
	"text/template"
)

// WizardAnswers holds all user responses from the wizard.
type WizardAnswers struct {
	Repository string // default owner/repo for `archmap analyze`
	Endpoint   string
	Output     string
	Theme      string
	Icons      bool

	FrontendAddr  string
	NavigateDelay string

	BackendAddr string
	Model       string
}

const configTemplate = `# archmap configuration
# Secrets (GITHUB_TOKEN, OPENAI_API_KEY) belong in the environment or .env.
{{ if .Repository }}
repository: {{ .Repository }}
{{- end }}
endpoint: {{ .Endpoint }}
output: {{ .Output }}
theme: {{ .Theme }}

frontend:
  addr: "{{ .FrontendAddr }}"

progress:
  navigate_delay: {{ .NavigateDelay }}

backend:
  addr: "{{ .BackendAddr }}"
  model: {{ .Model }}

render:
  icons: {{ if .Icons }}true{{ else }}false{{ end }}
  categories: [frontend, webServer, api, database, cloud, container]
  connections:
    - {from: frontend, to: webServer}
    - {from: webServer, to: api}
    - {from: api, to: database}
`

// GenerateConfig renders the YAML config from wizard answers.
func GenerateConfig(answers WizardAnswers) (string, error) {
	// Set defaults
	if answers.Endpoint == "" {
		answers.Endpoint = "http://localhost:5000"
	}
	if answers.Output == "" {
		answers.Output = "architecture.svg"
	}
	if answers.Theme == "" {
		answers.Theme = "default"
	}
	if answers.FrontendAddr == "" {
		answers.FrontendAddr = ":8080"
	}
	if answers.NavigateDelay == "" {
		answers.NavigateDelay = "1s"
	}
	if answers.BackendAddr == "" {
		answers.BackendAddr = ":5000"
	}
	if answers.Model == "" {
		answers.Model = "gpt-4o-mini"
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, answers); err != nil {
		return "", err
	}

	return buf.String(), nil
}
