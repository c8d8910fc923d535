package models

// ResponseRules is the raw rule toggle set attached to an agent. It is kept
// in map form on purpose: rule values arrive from the UI as loose JSON, and
// unknown keys or non-boolean values must be ignored rather than rejected.
type ResponseRules map[string]any

// CustomTemplateKey holds the optional free-text response template.
const CustomTemplateKey = "custom_response_template"

// HasBool reports whether key is present with a boolean value.
func (r ResponseRules) HasBool(key string) bool {
	_, ok := r[key].(bool)
	return ok
}

// Enabled reports whether key is present and set to true.
func (r ResponseRules) Enabled(key string) bool {
	v, ok := r[key].(bool)
	return ok && v
}

// CustomTemplate returns the custom response template, or "" when unset or
// not a string.
func (r ResponseRules) CustomTemplate() string {
	s, _ := r[CustomTemplateKey].(string)
	return s
}
