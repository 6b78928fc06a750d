package handlers

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"inkwell/internal/models"
)

// Validation limits for user-supplied fields.
const (
	maxSlugLen  = 300
	maxTitleLen = 300
	maxBodyLen  = 200_000
	maxNameLen  = 100
	maxNoteLen  = 1_000
	maxTagLen   = 100
)

// slugPattern rejects whitespace anywhere in a slug.
var slugPattern = regexp.MustCompile(`^\S+$`)

// validatePost checks the writable fields of a post. The slug must already
// be populated (generated from the title if the client omitted it).
func validatePost(p *models.Post) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Slug,
			validation.Required,
			validation.Length(1, maxSlugLen),
			validation.Match(slugPattern).Error("must not contain whitespace"),
		),
		validation.Field(&p.Title, validation.Length(0, maxTitleLen)),
		validation.Field(&p.Content, validation.Length(0, maxBodyLen)),
		validation.Field(&p.Format,
			validation.Required,
			validation.In(models.FormatMarkdown, models.FormatAsciidoc),
		),
		validation.Field(&p.Category, validation.Required),
	)
}

// validateCategory checks a category creation payload. The root name is
// reserved for the synthetic forest root.
func validateCategory(c *models.Category) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name,
			validation.Required,
			validation.Length(1, maxNameLen),
			validation.NotIn(models.RootCategory).Error("name is reserved"),
		),
		validation.Field(&c.Parent, validation.Required),
	)
}

// validateToken checks the writable fields of an access key.
func validateToken(k *models.AccessKey) error {
	return validation.ValidateStruct(k,
		validation.Field(&k.Name, validation.Required, validation.Length(1, maxNameLen)),
		validation.Field(&k.Note, validation.Length(0, maxNoteLen)),
	)
}

// validateTag checks a tag query parameter.
func validateTag(tag string) error {
	return validation.Validate(tag,
		validation.Required,
		validation.Length(1, maxTagLen),
	)
}
