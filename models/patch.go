package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Optional records whether a JSON field was sent at all, and whether it was
// sent as null.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// GamePatch - body of the update endpoint, built by ParseGamePatch.
type GamePatch struct {
	Title       Optional[string]
	Developer   Optional[string]
	ReleaseYear Optional[string]
	Platform    Optional[string]
	Rating      Optional[string]
	Picture     Optional[string]

	// Keys is the number of top level keys in the body, recognized or not.
	Keys int
}

type patchField struct {
	name  string
	value Optional[string]
	set   func(*Game, string)
}

func (p GamePatch) fields() []patchField {
	return []patchField{
		{"title", p.Title, (*Game).SetTitle},
		{"developer", p.Developer, (*Game).SetDeveloper},
		{"release_year", p.ReleaseYear, (*Game).SetReleaseYear},
		{"platform", p.Platform, (*Game).SetPlatform},
		{"rating", p.Rating, (*Game).SetRating},
		{"picture", p.Picture, (*Game).SetPicture},
	}
}

// Empty reports whether the body carried no keys at all.
func (p GamePatch) Empty() bool { return p.Keys == 0 }

// Recognized returns the names of the recognized fields present in the body.
func (p GamePatch) Recognized() []string {
	var names []string
	for _, f := range p.fields() {
		if f.value.Set {
			names = append(names, f.name)
		}
	}
	return names
}

// NullField returns the first recognized field sent as null.
func (p GamePatch) NullField() (string, bool) {
	for _, f := range p.fields() {
		if f.value.Set && f.value.Null {
			return f.name, true
		}
	}
	return "", false
}

// ApplyTo overwrites every present, non-null field on g.
func (p GamePatch) ApplyTo(g *Game) {
	for _, f := range p.fields() {
		if f.value.Set && !f.value.Null {
			f.set(g, f.value.Value)
		}
	}
}

// ParseGamePatch decodes an update body. An empty body is an empty patch.
// Field names match exactly; keys differing only in case are unrecognized.
func ParseGamePatch(raw []byte) (GamePatch, error) {
	var p GamePatch
	if len(bytes.TrimSpace(raw)) == 0 {
		return p, nil
	}
	obj, err := ParseObject(raw)
	if err != nil {
		return p, err
	}
	targets := map[string]*Optional[string]{
		"title":        &p.Title,
		"developer":    &p.Developer,
		"release_year": &p.ReleaseYear,
		"platform":     &p.Platform,
		"rating":       &p.Rating,
		"picture":      &p.Picture,
	}
	for name, dst := range targets {
		value, ok := obj[name]
		if !ok {
			continue
		}
		if err := dst.UnmarshalJSON(value); err != nil {
			return GamePatch{}, err
		}
	}
	p.Keys = len(obj)
	return p, nil
}

// ParseGameInput fills a create body from its exact keys. A field sent as
// null is left nil, the same as one not sent.
func ParseGameInput(obj map[string]json.RawMessage) (GameInput, error) {
	var in GameInput
	targets := map[string]**string{
		"title":        &in.Title,
		"developer":    &in.Developer,
		"release_year": &in.ReleaseYear,
		"platform":     &in.Platform,
		"rating":       &in.Rating,
		"picture":      &in.Picture,
	}
	for name, dst := range targets {
		value, ok := obj[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return GameInput{}, err
		}
	}
	return in, nil
}

// ParseObject decodes raw as a JSON object keyed by field name.
func ParseObject(raw []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}
