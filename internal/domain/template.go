package domain

import "fmt"

// Template is the root of the product hierarchy, one ERP item template
// grouping all color variants and their SKUs.
//
// The name field is ERP-locked: UpdateFromERP is the only write path.
type Template struct {
	id           int64
	templateCode string
	name         string
}

// TemplateSnapshot is the persistence view of a Template.
type TemplateSnapshot struct {
	ID           int64
	TemplateCode string
	Name         string
}

// NewTemplate creates an unsaved skeleton with no name. The name is
// populated by the first ERP merge.
func NewTemplate(templateCode string) (*Template, error) {
	if templateCode == "" {
		return nil, fmt.Errorf("%w: templateCode must not be blank", ErrInvalidPayload)
	}
	return &Template{templateCode: templateCode}, nil
}

// RestoreTemplate rehydrates a persisted Template.
func RestoreTemplate(snap TemplateSnapshot) *Template {
	return &Template{
		id:           snap.ID,
		templateCode: snap.TemplateCode,
		name:         snap.Name,
	}
}

// UpdateFromERP is the single authorised write path for the locked name.
func (t *Template) UpdateFromERP(name string) {
	t.name = name
}

func (t *Template) ID() int64            { return t.id }
func (t *Template) TemplateCode() string { return t.templateCode }
func (t *Template) Name() string         { return t.name }

func (t *Template) Snapshot() TemplateSnapshot {
	return TemplateSnapshot{ID: t.id, TemplateCode: t.templateCode, Name: t.name}
}
