package model

// Record is one card in the list. The remote service owns the ID.
type Record struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"` // shown as the price
	Note     string `json:"note"`     // free-text description
	ImageRef string `json:"imageRef"`
}

// Draft is a record that has not been assigned an ID yet.
type Draft struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Note     string `json:"note"`
	ImageRef string `json:"imageRef"`
}

// WithID attaches an ID to the draft.
func (d Draft) WithID(id int) Record {
	return Record{ID: id, Title: d.Title, Subtitle: d.Subtitle, Note: d.Note, ImageRef: d.ImageRef}
}

// Draft strips the ID.
func (r Record) Draft() Draft {
	return Draft{Title: r.Title, Subtitle: r.Subtitle, Note: r.Note, ImageRef: r.ImageRef}
}

// Patch holds the fields to overwrite on update. Nil fields are left alone.
type Patch struct {
	Title    *string `json:"title,omitempty"`
	Subtitle *string `json:"subtitle,omitempty"`
	Note     *string `json:"note,omitempty"`
	ImageRef *string `json:"imageRef,omitempty"`
}

// FullPatch sets every field from d.
func FullPatch(d Draft) Patch {
	return Patch{Title: &d.Title, Subtitle: &d.Subtitle, Note: &d.Note, ImageRef: &d.ImageRef}
}

// Apply returns r with the set fields of p merged in. The ID never changes.
func (p Patch) Apply(r Record) Record {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Subtitle != nil {
		r.Subtitle = *p.Subtitle
	}
	if p.Note != nil {
		r.Note = *p.Note
	}
	if p.ImageRef != nil {
		r.ImageRef = *p.ImageRef
	}
	return r
}

// Empty reports whether the patch sets nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Subtitle == nil && p.Note == nil && p.ImageRef == nil
}
