package handler

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/cmdshop/cmdshop/internal/cmds"
	"github.com/go-playground/validator/v10"
)

const (
	msgMissingFields = "Missing required fields: title and content are required."
	msgInvalidTags   = "Tags must be an array of strings."
	msgNoUpdateData  = "No update data provided."
	msgEmptyTitle    = "Title cannot be empty."
	msgEmptyContent  = "Content cannot be empty."
	msgInvalidBody   = "Invalid request body."
)

var validate = validator.New()

// badRequest is a validation failure; its message is returned verbatim to
// the client with 400.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

type updateRequest struct {
	Title   *string `validate:"omitnil,min=1"`
	Content *string `validate:"omitnil,min=1"`
}

// decodeCreate turns a raw POST body into a validated NewCmd with
// normalized tags. Checks run in order: required fields, tag types, then
// title/content types.
func decodeCreate(raw []byte) (cmds.NewCmd, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return cmds.NewCmd{}, err
	}
	title, badTitle := stringField(fields, "title")
	content, badContent := stringField(fields, "content")
	if missing(title, badTitle) || missing(content, badContent) {
		return cmds.NewCmd{}, &badRequest{msgMissingFields}
	}
	tags, _, ok := tagsField(fields)
	if !ok {
		return cmds.NewCmd{}, &badRequest{msgInvalidTags}
	}
	if badTitle || badContent {
		return cmds.NewCmd{}, &badRequest{msgInvalidBody}
	}
	return cmds.NewCmd{Title: *title, Content: *content, Tags: cmds.NormalizeTags(tags)}, nil
}

// decodeUpdate turns a raw PUT body into a validated Patch. A body "id" is
// ignored; the path id is authoritative. Null fields count as absent.
func decodeUpdate(raw []byte) (cmds.Patch, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return cmds.Patch{}, err
	}
	delete(fields, "id")
	if len(fields) == 0 {
		return cmds.Patch{}, &badRequest{msgNoUpdateData}
	}

	tags, hasTags, ok := tagsField(fields)
	if !ok {
		return cmds.Patch{}, &badRequest{msgInvalidTags}
	}
	title, badTitle := stringField(fields, "title")
	content, badContent := stringField(fields, "content")
	if badTitle || badContent {
		return cmds.Patch{}, &badRequest{msgInvalidBody}
	}

	p := cmds.Patch{Title: title, Content: content}
	if hasTags {
		normalized := cmds.NormalizeTags(tags)
		p.Tags = &normalized
	}
	if p.IsEmpty() {
		return cmds.Patch{}, &badRequest{msgNoUpdateData}
	}

	if err := validate.Struct(updateRequest{Title: title, Content: content}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].StructField() == "Content" {
			return cmds.Patch{}, &badRequest{msgEmptyContent}
		}
		return cmds.Patch{}, &badRequest{msgEmptyTitle}
	}
	return p, nil
}

// decodeObject splits a JSON object body into its raw members.
func decodeObject(raw []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, &badRequest{msgInvalidBody}
	}
	return fields, nil
}

// stringField returns the named member when it is a JSON string. bad is
// set when the member is present, not null, and not a string.
func stringField(fields map[string]json.RawMessage, name string) (s *string, bad bool) {
	v, ok := fields[name]
	if !ok {
		return nil, false
	}
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, true
	}
	return s, false
}

// missing reports a required string that is absent, null or empty. A
// non-string value counts as supplied and is rejected later.
func missing(s *string, bad bool) bool {
	return !bad && validate.Var(s, "required,min=1") != nil
}

// tagsField decodes "tags". Absent or null tags are not present; ok is false
// unless every entry is a string.
func tagsField(fields map[string]json.RawMessage) (tags []string, present, ok bool) {
	v, has := fields["tags"]
	if !has || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false, true
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(v, &entries); err != nil || entries == nil {
		return nil, true, false
	}
	tags = make([]string, 0, len(entries))
	for _, e := range entries {
		var s *string
		if err := json.Unmarshal(e, &s); err != nil || s == nil {
			return nil, true, false
		}
		tags = append(tags, *s)
	}
	return tags, true, true
}
