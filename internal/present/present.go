// BYZRA ⸻ internal/present/present.go
// tag set -> camera, date, gps and full views

// Package present turns a TagSet into the four display views. Every function
// here is pure: no I/O, and the TagSet is only read.
//
// Labels and values are plain, untrusted text taken from file content;
// whatever renders them into markup must escape them.
package present

import (
	"exifdrop/internal/tagset"
)

// longest string value shown in the full listing before truncation
const maxValueRunes = 200

// sentinel texts for empty views
const (
	NoCamera      = "No camera information available"
	NoDates       = "No date information available"
	NoMetadata    = "No metadata available"
	NoCameraAtAll = "No camera information"
	NoDatesAtAll  = "No date information"
	NoExifAtAll   = "No EXIF metadata found"
)

// Item is one (label, value) row.
type Item struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// View is an ordered list of rows. When Count is zero, Empty holds the
// sentinel text to show instead.
type View struct {
	Items []Item `json:"items"`
	Count int    `json:"count"`
	Empty string `json:"empty,omitempty"`
}

// Views bundles everything shown for one image. GPS is nil when absent.
type Views struct {
	Camera View     `json:"camera"`
	Dates  View     `json:"dates"`
	GPS    *GPSView `json:"gps,omitempty"`
	All    View     `json:"all"`
}

// Presenter holds the field tables used for the camera and date views.
// The zero value is not usable; see NewPresenter.
type Presenter struct {
	cameraFields []FieldSpec
	dateFields   []FieldSpec
}

// NewPresenter builds a presenter whose labels are overridden by labels
// (tag key -> label). A nil map keeps the defaults.
func NewPresenter(labels map[string]string) *Presenter {
	return &Presenter{
		cameraFields: Relabel(CameraFields, labels),
		dateFields:   Relabel(DateFields, labels),
	}
}

var defaultPresenter = NewPresenter(nil)

// Camera renders the camera view with the default labels.
func Camera(tags tagset.TagSet) View { return defaultPresenter.Camera(tags) }

// Dates renders the date view with the default labels.
func Dates(tags tagset.TagSet) View { return defaultPresenter.Dates(tags) }

// Present renders all four views with the default labels.
func Present(tags tagset.TagSet) Views { return defaultPresenter.Present(tags) }

func (p *Presenter) Camera(tags tagset.TagSet) View {
	return table(tags, p.cameraFields, NoCamera)
}

func (p *Presenter) Dates(tags tagset.TagSet) View {
	return table(tags, p.dateFields, NoDates)
}

// Present renders the four views. An empty tag set gets the whole-image
// sentinels and no GPS view.
func (p *Presenter) Present(tags tagset.TagSet) Views {
	if tags.Len() == 0 {
		return Views{
			Camera: View{Items: []Item{}, Empty: NoCameraAtAll},
			Dates:  View{Items: []Item{}, Empty: NoDatesAtAll},
			All:    View{Items: []Item{}, Empty: NoExifAtAll},
		}
	}

	v := Views{
		Camera: p.Camera(tags),
		Dates:  p.Dates(tags),
		All:    All(tags),
	}
	if gps, ok := GPS(tags); ok {
		v.GPS = &gps
	}
	return v
}

// a field is shown iff its tag exists and carries a description
func table(tags tagset.TagSet, fields []FieldSpec, empty string) View {
	items := []Item{}
	for _, f := range fields {
		t, ok := tags.Get(f.TagKey)
		if !ok || !t.HasDescription {
			continue
		}
		items = append(items, Item{Label: f.Label, Value: f.render(t)})
	}
	return finish(items, empty)
}

// All lists every described tag, sorted by name. String values longer than
// 200 characters are cut to 200 followed by "...".
func All(tags tagset.TagSet) View {
	items := []Item{}
	for _, name := range tags.Names() {
		t, _ := tags.Get(name)
		if !t.HasDescription {
			continue
		}
		text, fromString := t.Text()
		if fromString {
			text = truncate(text, maxValueRunes)
		}
		items = append(items, Item{Label: name, Value: text})
	}
	return finish(items, NoMetadata)
}

func finish(items []Item, empty string) View {
	v := View{Items: items, Count: len(items)}
	if v.Count == 0 {
		v.Empty = empty
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
