package notify

import (
	"fmt"
	"strings"
	"text/template"
)

type Rendered struct {
	Subject string
	Body    string
}

type messageTemplate struct {
	subject string
	body    string
}

// Templates are keyed by event type. Params come from the outbox payload;
// missing keys render empty rather than failing a whole dispatch.
var templates = map[EventType]messageTemplate{
	EventNewRfq: {
		subject: "New quotation request{{if .project}} for {{.project}}{{end}}",
		body: "Hello {{.recipient}},\n\n" +
			"A builder has requested quotes for {{.item_count}} material(s), " +
			"delivery to {{.delivery_address}}{{if .required_by}}, required by {{.required_by}}{{end}}.\n" +
			"Log in to review the request and submit your quote.",
	},
	EventQuoteSubmitted: {
		subject: "Quote received from {{.supplier_name}}",
		body: "Hello {{.recipient}},\n\n" +
			"{{.supplier_name}} has quoted USD {{.total_usd}} " +
			"({{.delivery_days}} day delivery) on your request.\n" +
			"Compare all quotes on your dashboard.",
	},
	EventQuoteAccepted: {
		subject: "Your quote was accepted",
		body: "Hello {{.recipient}},\n\n" +
			"Your quote of USD {{.total_usd}} was accepted. " +
			"{{if .delivery_instructions}}Delivery instructions: {{.delivery_instructions}}{{end}}",
	},
	EventQuoteRejected: {
		subject: "Quote not selected",
		body: "Hello {{.recipient}},\n\n" +
			"The builder has gone with another supplier for this request. " +
			"Thank you for quoting.",
	},
}

// Render produces the channel-agnostic subject and body for a message.
func Render(msg Message) (Rendered, error) {
	tpl, ok := templates[msg.Event]
	if !ok {
		return Rendered{}, fmt.Errorf("no template for event type %q", msg.Event)
	}

	params := make(map[string]string, len(msg.Params)+1)
	for k, v := range msg.Params {
		params[k] = v
	}
	if _, ok := params["recipient"]; !ok {
		params["recipient"] = msg.RecipientName
	}

	subject, err := renderOne(string(msg.Event)+"/subject", tpl.subject, params)
	if err != nil {
		return Rendered{}, err
	}
	body, err := renderOne(string(msg.Event)+"/body", tpl.body, params)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Subject: subject, Body: body}, nil
}

func renderOne(name, text string, params map[string]string) (string, error) {
	tpl, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var sb strings.Builder
	if err := tpl.Execute(&sb, params); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return sb.String(), nil
}
