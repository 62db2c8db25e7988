package email

import (
	_ "embed"
	"html/template"
	"strings"
)

var (
	//go:embed update.html
	updateHTML     string
	updateTemplate = template.Must(template.New("update.html").Parse(updateHTML))
)

func mustFillTemplate(tmpl *template.Template, values any) string {
	buf := new(strings.Builder)
	err := tmpl.Execute(buf, values)
	if err != nil {
		return ""
	}
	return buf.String()
}

// UpdateEmailFormat wraps a chat-formatted notification for email delivery.
type UpdateEmailFormat struct {
	Subject string
	Text    string
}

// Lines splits the message so the template can render one line per row.
func (ef *UpdateEmailFormat) Lines() []string {
	return strings.Split(ef.Text, "\n")
}

func (ef *UpdateEmailFormat) Body() string {
	return mustFillTemplate(updateTemplate, ef)
}
