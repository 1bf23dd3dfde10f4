package openai

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

// PromptConfig holds the translation prompt and model parameters
type PromptConfig struct {
	Translation struct {
		Temperature  float32 `yaml:"temperature"`
		MaxTokens    int     `yaml:"max_tokens"`
		System       string  `yaml:"system"`
		UserTemplate string  `yaml:"user_template"`
	} `yaml:"translation"`
}

const defaultPrompts = `
translation:
  temperature: 0.2
  max_tokens: 1024
  system: >-
    You translate marketing and business copy for a software company website.
    Keep product names, prices, URLs and email addresses unchanged.
    Respond only with a JSON object of the form {"translation": "..."}.
  user_template: |-
    Translate the following text from {{.From}} to {{.To}}.

    {{.Text}}
`

// DefaultPrompts returns the built-in prompt set
func DefaultPrompts() *PromptConfig {
	p, err := parsePrompts([]byte(defaultPrompts))
	if err != nil {
		panic(fmt.Sprintf("built-in prompts are invalid: %v", err))
	}
	return p
}

// LoadPrompts loads prompt configuration from a YAML file.
// An empty path yields the built-in prompts.
func LoadPrompts(promptsPath string) (*PromptConfig, error) {
	if promptsPath == "" {
		return DefaultPrompts(), nil
	}

	data, err := os.ReadFile(promptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	return parsePrompts(data)
}

func parsePrompts(data []byte) (*PromptConfig, error) {
	var prompts PromptConfig
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}
	if prompts.Translation.UserTemplate == "" {
		return nil, fmt.Errorf("translation.user_template is required")
	}
	if _, err := template.New("prompt").Parse(prompts.Translation.UserTemplate); err != nil {
		return nil, fmt.Errorf("invalid translation.user_template: %w", err)
	}
	return &prompts, nil
}

// renderTemplate renders a template with provided data
func renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("prompt").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
