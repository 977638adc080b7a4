package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"path"
	"strings"
	texttemplate "text/template"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/storage"
)

// Catalog holds the compiled email templates. Objects are stored as
// <prefix><TEMPLATE_ID>.json and decode into entity.EmailTemplate.
type Catalog struct {
	templates map[entity.TemplateID]compiled
}

type compiled struct {
	subject *texttemplate.Template
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

// Rendered is a template executed against a parameter map.
type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

// LoadCatalog reads and compiles every template under prefix in bucket.
// A template that fails to decode or parse fails the whole load.
func LoadCatalog(ctx context.Context, store storage.Storage, bucket, prefix string) (*Catalog, error) {
	keys, err := store.List(ctx, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("list email templates: %w", err)
	}

	c := &Catalog{templates: make(map[entity.TemplateID]compiled, len(keys))}
	for _, key := range keys {
		if path.Ext(key) != ".json" {
			continue
		}

		raw, err := store.Get(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("get email template %s: %w", key, err)
		}

		var tpl entity.EmailTemplate
		if err := json.Unmarshal(raw, &tpl); err != nil {
			return nil, fmt.Errorf("decode email template %s: %w", key, err)
		}
		tpl.ID = entity.TemplateID(strings.TrimSuffix(path.Base(key), ".json"))

		if err := c.add(tpl); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// NewCatalog compiles templates given in memory.
func NewCatalog(templates ...entity.EmailTemplate) (*Catalog, error) {
	c := &Catalog{templates: make(map[entity.TemplateID]compiled, len(templates))}
	for _, tpl := range templates {
		if err := c.add(tpl); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(tpl entity.EmailTemplate) error {
	name := tpl.ID.String()
	if strings.TrimSpace(tpl.Subject) == "" {
		return fmt.Errorf("email template %s: empty subject", name)
	}
	if tpl.HTML == "" && tpl.Text == "" {
		return fmt.Errorf("email template %s: empty body", name)
	}

	var (
		out compiled
		err error
	)
	if out.subject, err = texttemplate.New(name).Option("missingkey=zero").Parse(tpl.Subject); err != nil {
		return fmt.Errorf("email template %s subject: %w", name, err)
	}
	if tpl.HTML != "" {
		if out.html, err = htmltemplate.New(name).Option("missingkey=zero").Parse(tpl.HTML); err != nil {
			return fmt.Errorf("email template %s html: %w", name, err)
		}
	}
	if tpl.Text != "" {
		if out.text, err = texttemplate.New(name).Option("missingkey=zero").Parse(tpl.Text); err != nil {
			return fmt.Errorf("email template %s text: %w", name, err)
		}
	}

	c.templates[tpl.ID] = out
	return nil
}

func (c *Catalog) Has(id entity.TemplateID) bool {
	_, ok := c.templates[id]
	return ok
}

func (c *Catalog) Len() int {
	return len(c.templates)
}

// Render executes template id with params. Missing params render empty.
func (c *Catalog) Render(id entity.TemplateID, params map[string]string) (Rendered, error) {
	tpl, ok := c.templates[id]
	if !ok {
		return Rendered{}, fmt.Errorf("%w: %s", entity.ErrTemplateNotFound, id)
	}
	if params == nil {
		params = map[string]string{}
	}

	var (
		out Rendered
		buf bytes.Buffer
	)
	if err := tpl.subject.Execute(&buf, params); err != nil {
		return Rendered{}, err
	}
	out.Subject = strings.TrimSpace(buf.String())

	if tpl.html != nil {
		buf.Reset()
		if err := tpl.html.Execute(&buf, params); err != nil {
			return Rendered{}, err
		}
		out.HTML = buf.String()
	}

	if tpl.text != nil {
		buf.Reset()
		if err := tpl.text.Execute(&buf, params); err != nil {
			return Rendered{}, err
		}
		out.Text = buf.String()
	}

	return out, nil
}
