package designsystem

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"orion-os/internal/domain"
	"orion-os/internal/errors"

	"github.com/go-playground/validator/v10"
)

type FieldKind string

const (
	KindColor FieldKind = "color"
	KindFont  FieldKind = "font"
	KindText  FieldKind = "text"
)

// Field is one writable theme attribute
type Field struct {
	Name   string
	Column string
	Kind   FieldKind
	ref    func(*domain.DesignSystem) *string
}

// Value returns the field's current value on ds
func (f Field) Value(ds *domain.DesignSystem) string {
	return *f.ref(ds)
}

// Fields is the ordered theme schema. It drives request validation and CSS output.
var Fields = []Field{
	{Name: "name", Column: "name", Kind: KindText, ref: func(d *domain.DesignSystem) *string { return &d.Name }},
	{Name: "primaryColor", Column: "primary_color", Kind: KindColor, ref: func(d *domain.DesignSystem) *string { return &d.PrimaryColor }},
	{Name: "secondaryColor", Column: "secondary_color", Kind: KindColor, ref: func(d *domain.DesignSystem) *string { return &d.SecondaryColor }},
	{Name: "backgroundColor", Column: "background_color", Kind: KindColor, ref: func(d *domain.DesignSystem) *string { return &d.BackgroundColor }},
	{Name: "accentColor", Column: "accent_color", Kind: KindColor, ref: func(d *domain.DesignSystem) *string { return &d.AccentColor }},
	{Name: "textPrimary", Column: "text_primary", Kind: KindColor, ref: func(d *domain.DesignSystem) *string { return &d.TextPrimary }},
	{Name: "textAccentColor", Column: "text_accent_color", Kind: KindColor, ref: func(d *domain.DesignSystem) *string { return &d.TextAccentColor }},
	{Name: "overlayBackground", Column: "overlay_background", Kind: KindColor, ref: func(d *domain.DesignSystem) *string { return &d.OverlayBackground }},
	{Name: "overlayBorder", Column: "overlay_border", Kind: KindColor, ref: func(d *domain.DesignSystem) *string { return &d.OverlayBorder }},
	{Name: "editorBackground", Column: "editor_background", Kind: KindColor, ref: func(d *domain.DesignSystem) *string { return &d.EditorBackground }},
	{Name: "primaryFont", Column: "primary_font", Kind: KindFont, ref: func(d *domain.DesignSystem) *string { return &d.PrimaryFont }},
	{Name: "secondaryFont", Column: "secondary_font", Kind: KindFont, ref: func(d *domain.DesignSystem) *string { return &d.SecondaryFont }},
}

// readOnly keys may come back from clients echoing a record; they are ignored
var readOnly = map[string]bool{
	"id":        true,
	"profileId": true,
	"isActive":  true,
	"createdAt": true,
	"updatedAt": true,
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidations adds the themecolor rule to v
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("themecolor", func(fl validator.FieldLevel) bool {
		return hexColor.MatchString(fl.Field().String())
	})
}

var rules = map[FieldKind]string{
	KindColor: "required,themecolor",
	KindFont:  `required,max=255,excludesall=;{}<>"\`,
	KindText:  "required,max=255",
}

// FieldError reports an invalid theme value
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

func fieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks raw request values against the schema and returns the
// accepted ones keyed by field name.
func Validate(values map[string]any) (map[string]string, error) {
	accepted := make(map[string]string, len(values))
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if readOnly[key] {
			continue
		}
		field, ok := fieldByName(key)
		if !ok {
			return nil, &FieldError{Field: key, Reason: "unknown field"}
		}
		s, ok := values[key].(string)
		if !ok {
			return nil, &FieldError{Field: key, Reason: "must be a string"}
		}
		s = strings.TrimSpace(s)
		if err := validate.Var(s, rules[field.Kind]); err != nil {
			return nil, &FieldError{Field: key, Reason: reason(field.Kind)}
		}
		accepted[key] = s
	}
	return accepted, nil
}

func reason(kind FieldKind) string {
	switch kind {
	case KindColor:
		return "must be a hex color (#RGB, #RGBA, #RRGGBB or #RRGGBBAA)"
	case KindFont:
		return "must be a non-empty font reference without CSS punctuation"
	default:
		return "must be non-empty and at most 255 characters"
	}
}

// NewFromValues builds an inactive design system for profileID. Omitted
// theme values fall back to the Zenith palette; name is required.
func NewFromValues(profileID string, values map[string]any) (*domain.DesignSystem, error) {
	accepted, err := Validate(values)
	if err != nil {
		return nil, err
	}
	if _, ok := accepted["name"]; !ok {
		return nil, &FieldError{Field: "name", Reason: "is required"}
	}

	ds := Zenith()
	for _, f := range Fields {
		if v, ok := accepted[f.Name]; ok {
			*f.ref(&ds) = v
		}
	}
	ds.ProfileID = profileID
	ds.IsActive = false
	return &ds, nil
}

// Changes converts accepted values to column updates
func Changes(accepted map[string]string) map[string]any {
	changes := make(map[string]any, len(accepted))
	for _, f := range Fields {
		if v, ok := accepted[f.Name]; ok {
			changes[f.Column] = v
		}
	}
	return changes
}

// Zenith is the default palette every profile starts with
func Zenith() domain.DesignSystem {
	return domain.DesignSystem{
		Name:              "Zenith",
		PrimaryColor:      "#000000",
		SecondaryColor:    "#FFFFFF",
		BackgroundColor:   "#292929",
		AccentColor:       "#2a9a79",
		TextPrimary:       "#708394",
		TextAccentColor:   "#8069c4",
		OverlayBackground: "#01020369",
		OverlayBorder:     "#CCCCCC18",
		EditorBackground:  "#292929",
		PrimaryFont:       "Arial",
		SecondaryFont:     "Helvetica",
	}
}

// RenderCSS renders the theme as CSS custom properties on :root
func RenderCSS(ds *domain.DesignSystem) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, f := range Fields {
		v := f.Value(ds)
		if v == "" {
			continue
		}
		switch f.Kind {
		case KindColor:
			fmt.Fprintf(&b, "  --%s: %s;\n", f.Name, v)
		case KindFont:
			fmt.Fprintf(&b, "  --%s: \"%s\";\n", f.Name, v)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

type FontSlot string

const (
	SlotPrimary   FontSlot = "primary"
	SlotSecondary FontSlot = "secondary"
)

// Column returns the design system column the slot writes to
func (s FontSlot) Column() (string, bool) {
	switch s {
	case SlotPrimary:
		return "primary_font", true
	case SlotSecondary:
		return "secondary_font", true
	}
	return "", false
}

// ValidateFont checks a value against the font field rule of the slot
func (s FontSlot) ValidateFont(value string) error {
	if _, ok := s.Column(); !ok {
		return errors.UnprocessableEntity("fontSlot must be primary or secondary", nil)
	}
	if err := validate.Var(value, rules[KindFont]); err != nil {
		return errors.NewValidationError(&FieldError{Field: string(s) + "Font", Reason: reason(KindFont)})
	}
	return nil
}
