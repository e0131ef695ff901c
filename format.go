package nodegen

import (
	"fmt"
	"io"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// FormatHints is the decoded view of a per-type format hint block.
// The hint blocks in the source schemas are opaque passthrough data;
// only the keys below steer the generic derived encoders. Anything
// else is ignored here and left to hand-written encoders.
type FormatHints struct {
	// Elem names the wrapping element for markup formats (html, jats, dom).
	Elem string `json:"elem,omitempty"`
	// Attrs are fixed attributes set on the wrapping element.
	Attrs map[string]string `json:"attrs,omitempty"`
	// Template is the text template for markdown/latex, with {prop}
	// placeholders resolved against the node's canonical properties.
	Template string `json:"template,omitempty"`
	// Derive disables the generic encoder when explicitly false.
	Derive *bool `json:"derive,omitempty"`
}

// ParseFormatHints decodes a raw hint block. A nil block yields the
// zero value, which drives the fallback encoding.
func ParseFormatHints(raw json.RawMessage) (FormatHints, error) {
	var h FormatHints
	if len(raw) == 0 {
		return h, nil
	}
	if err := json.Unmarshal(raw, &h); err != nil {
		return h, err
	}
	return h, nil
}

// EncodeFormat is the generic derived encoder behind the per-format
// Encode methods of generated types. Markup formats (html, jats, dom)
// wrap the node's canonical encoding in the hinted element; text
// formats (markdown, latex) expand the hinted template. Without a
// usable hint the canonical JSON encoding is written as-is, keeping
// the encoder total.
func EncodeFormat(w io.Writer, format, typeName string, hints FormatHints, fields map[string]any) error {
	switch format {
	case "html", "jats", "dom":
		return encodeMarkup(w, typeName, hints, fields)
	case "markdown", "latex":
		return encodeTemplate(w, hints, fields)
	default:
		return encodeCanonical(w, fields)
	}
}

func encodeMarkup(w io.Writer, typeName string, hints FormatHints, fields map[string]any) error {
	if hints.Elem == "" {
		return encodeCanonical(w, fields)
	}
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(hints.Elem)
	fmt.Fprintf(&b, " data-type=%q", typeName)
	for _, k := range sortedKeys(hints.Attrs) {
		fmt.Fprintf(&b, " %s=%q", k, hints.Attrs[k])
	}
	b.WriteByte('>')
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if content, ok := fields["content"]; ok {
		raw, err := json.Marshal(content)
		if err != nil {
			return err
		}
		if _, err := w.Write(raw); err != nil {
			return err
		}
	} else if err := encodeCanonical(w, fields); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "</%s>", hints.Elem)
	return err
}

func encodeTemplate(w io.Writer, hints FormatHints, fields map[string]any) error {
	if hints.Template == "" {
		return encodeCanonical(w, fields)
	}
	out := hints.Template
	values := fieldsAsStrings(fields)
	for _, k := range sortedKeys(values) {
		out = strings.ReplaceAll(out, "{"+k+"}", values[k])
	}
	_, err := io.WriteString(w, out)
	return err
}

// encodeCanonical writes the node's properties as a JSON object.
// Map keys are encoded in sorted order, so the output is deterministic.
func encodeCanonical(w io.Writer, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

func fieldsAsStrings(fields map[string]any) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		switch t := v.(type) {
		case string:
			out[k] = t
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
