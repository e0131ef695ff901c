package nodegen

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields(t *testing.T) {
	t.Run("splits an object into raw members", func(t *testing.T) {
		fields, err := Fields([]byte(`{"type":"CodeChunk","code":"1+1","executionMode":"Auto"}`))
		require.NoError(t, err)

		assert.Len(t, fields, 3)
		assert.JSONEq(t, `"1+1"`, string(fields["code"]))
	})

	t.Run("rejects non-objects", func(t *testing.T) {
		_, err := Fields([]byte(`[1,2]`))
		assert.Error(t, err)
	})
}

func TestResolveAliases(t *testing.T) {
	aliases := map[string]string{
		"alternate-names": "alternateNames",
		"alternate_names": "alternateNames",
	}

	t.Run("alias decodes to the canonical key", func(t *testing.T) {
		fields, err := Fields([]byte(`{"alternate-names":["a"]}`))
		require.NoError(t, err)
		require.NoError(t, ResolveAliases("Thing", fields, aliases))

		assert.Contains(t, fields, "alternateNames")
		assert.NotContains(t, fields, "alternate-names")
	})

	t.Run("canonical name passes through unchanged", func(t *testing.T) {
		fields, err := Fields([]byte(`{"alternateNames":["a"]}`))
		require.NoError(t, err)
		require.NoError(t, ResolveAliases("Thing", fields, aliases))

		assert.Contains(t, fields, "alternateNames")
	})

	t.Run("alias equivalence: any spelling yields the same raw member", func(t *testing.T) {
		spellings := []string{
			`{"alternateNames":["a","b"]}`,
			`{"alternate-names":["a","b"]}`,
			`{"alternate_names":["a","b"]}`,
		}
		for _, doc := range spellings {
			fields, err := Fields([]byte(doc))
			require.NoError(t, err)
			require.NoError(t, ResolveAliases("Thing", fields, aliases))
			assert.JSONEq(t, `["a","b"]`, string(fields["alternateNames"]), doc)
		}
	})

	t.Run("canonical plus alias is an error, not a silent win", func(t *testing.T) {
		fields, err := Fields([]byte(`{"alternateNames":["a"],"alternate-names":["b"]}`))
		require.NoError(t, err)

		err = ResolveAliases("Thing", fields, aliases)
		var ae *AliasError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "alternateNames", ae.Property)
	})
}

func TestPeekType(t *testing.T) {
	t.Run("extracts the discriminant", func(t *testing.T) {
		typ, err := PeekType([]byte(`{"type":"Paragraph","content":[]}`))
		require.NoError(t, err)
		assert.Equal(t, "Paragraph", typ)
	})

	t.Run("missing discriminant", func(t *testing.T) {
		_, err := PeekType([]byte(`{"content":[]}`))
		assert.ErrorIs(t, err, ErrMissingType)
	})
}

func TestDecodeDiscriminated(t *testing.T) {
	decoders := map[string]func([]byte) (any, error){
		"Paragraph": func(data []byte) (any, error) {
			var p struct {
				Content []string `json:"content"`
			}
			if err := json.Unmarshal(data, &p); err != nil {
				return nil, err
			}
			return p, nil
		},
	}

	t.Run("accepts a member discriminant", func(t *testing.T) {
		v, err := DecodeDiscriminated("Node", []byte(`{"type":"Paragraph","content":["hi"]}`), decoders)
		require.NoError(t, err)
		assert.NotNil(t, v)
	})

	t.Run("rejects an unknown discriminant", func(t *testing.T) {
		_, err := DecodeDiscriminated("Node", []byte(`{"type":"NotAType"}`), decoders)

		var ue *UnknownTypeError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "Node", ue.Union)
		assert.Equal(t, "NotAType", ue.Type)
	})
}

func TestConstraintPredicates(t *testing.T) {
	t.Run("minimum", func(t *testing.T) {
		assert.NoError(t, CheckMinimum("ArrayValidator", "minItems", 0, 0))
		err := CheckMinimum("ArrayValidator", "minItems", -1, 0)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "minimum", ve.Constraint)
		assert.Equal(t, float64(-1), ve.Value)
	})

	t.Run("maximum", func(t *testing.T) {
		assert.NoError(t, CheckMaximum("Thing", "score", 1, 1))
		assert.ErrorIs(t, CheckMaximum("Thing", "score", 1.5, 1), ErrValidation)
	})

	t.Run("min and max items", func(t *testing.T) {
		assert.NoError(t, CheckMinItems("List", "items", 2, 1))
		assert.ErrorIs(t, CheckMinItems("List", "items", 0, 1), ErrValidation)
		assert.NoError(t, CheckMaxItems("List", "items", 2, 2))
		assert.ErrorIs(t, CheckMaxItems("List", "items", 3, 2), ErrValidation)
	})

	t.Run("pattern matches and caches", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.NoError(t, CheckPattern("Date", "value", "2026-08-23", `^\d{4}-\d{2}-\d{2}$`))
		}
		err := CheckPattern("Date", "value", "yesterday", `^\d{4}-\d{2}-\d{2}$`)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "pattern", ve.Constraint)
		assert.Equal(t, "yesterday", ve.Value)
	})

	t.Run("unique items", func(t *testing.T) {
		assert.NoError(t, CheckUniqueItems("EnumValidator", "values", []any{"a", "b", 1}))
		assert.ErrorIs(t, CheckUniqueItems("EnumValidator", "values", []any{"a", "a"}), ErrValidation)
	})

	t.Run("enum membership never defaults", func(t *testing.T) {
		variants := []string{"Hw", "MwMeMv", "Mw"}
		assert.NoError(t, CheckEnum("ProvenanceCategory", "MwMeMv", variants))

		err := CheckEnum("ProvenanceCategory", "Unknown", variants)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "enum", ve.Constraint)
		assert.Equal(t, "Unknown", ve.Value)
	})
}

// codeChunk mirrors the codec the emitter generates for a concrete
// node. Decode splits fields, resolves aliases, decodes members, runs
// constraint predicates and collects leftovers into Extra; encode
// writes canonical names plus the type discriminant.
type codeChunk struct {
	Code           string `json:"code"`
	ExecutionMode  string `json:"executionMode,omitempty"`
	ExecutionCount *int   `json:"executionCount,omitempty"`
	Outputs        []any  `json:"outputs,omitempty"`
	Extra          Extra  `json:"-"`
}

var codeChunkAliases = map[string]string{
	"execution-mode":  "executionMode",
	"execution_mode":  "executionMode",
	"execution-count": "executionCount",
	"execution_count": "executionCount",
}

func (c *codeChunk) UnmarshalJSON(data []byte) error {
	fields, err := Fields(data)
	if err != nil {
		return err
	}
	if err := ResolveAliases("CodeChunk", fields, codeChunkAliases); err != nil {
		return err
	}
	delete(fields, "type")
	if raw, ok := fields["code"]; ok {
		if err := json.Unmarshal(raw, &c.Code); err != nil {
			return err
		}
		delete(fields, "code")
	}
	if raw, ok := fields["executionMode"]; ok {
		if err := json.Unmarshal(raw, &c.ExecutionMode); err != nil {
			return err
		}
		delete(fields, "executionMode")
	}
	if raw, ok := fields["executionCount"]; ok {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if err := CheckMinimum("CodeChunk", "executionCount", float64(v), 0); err != nil {
			return err
		}
		c.ExecutionCount = &v
		delete(fields, "executionCount")
	}
	if raw, ok := fields["outputs"]; ok {
		if err := json.Unmarshal(raw, &c.Outputs); err != nil {
			return err
		}
		delete(fields, "outputs")
	}
	if len(fields) > 0 {
		c.Extra = make(Extra, len(fields))
		for k, raw := range fields {
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			c.Extra[k] = v
		}
	}
	return nil
}

func (c *codeChunk) canonicalFields() map[string]any {
	fields := make(map[string]any, len(c.Extra)+4)
	for k, v := range c.Extra {
		fields[k] = v
	}
	fields["code"] = c.Code
	if c.ExecutionMode != "" {
		fields["executionMode"] = c.ExecutionMode
	}
	if c.ExecutionCount != nil {
		fields["executionCount"] = *c.ExecutionCount
	}
	if c.Outputs != nil {
		fields["outputs"] = c.Outputs
	}
	return fields
}

func (c *codeChunk) MarshalJSON() ([]byte, error) {
	fields := c.canonicalFields()
	fields["type"] = "CodeChunk"
	return json.Marshal(fields)
}

func TestCodeChunkDecode(t *testing.T) {
	t.Run("minimal document populates declared members only", func(t *testing.T) {
		var c codeChunk
		err := json.Unmarshal([]byte(`{"type":"CodeChunk","code":"1+1","executionMode":"Auto"}`), &c)
		require.NoError(t, err)

		assert.Equal(t, "1+1", c.Code)
		assert.Equal(t, "Auto", c.ExecutionMode)
		assert.Empty(t, c.Outputs)
		assert.Nil(t, c.ExecutionCount)
	})

	t.Run("aliased spelling decodes identically", func(t *testing.T) {
		var canonical, aliased codeChunk
		require.NoError(t, json.Unmarshal([]byte(`{"code":"x","executionMode":"Auto"}`), &canonical))
		require.NoError(t, json.Unmarshal([]byte(`{"code":"x","execution-mode":"Auto"}`), &aliased))

		assert.Equal(t, canonical, aliased)
	})

	t.Run("constraint violation fails decode, no clamping", func(t *testing.T) {
		var c codeChunk
		err := json.Unmarshal([]byte(`{"code":"x","executionCount":-3}`), &c)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "executionCount", ve.Property)
		assert.Nil(t, c.ExecutionCount)
	})

	t.Run("unknown members land in the extension side-map", func(t *testing.T) {
		var c codeChunk
		require.NoError(t, json.Unmarshal([]byte(`{"type":"CodeChunk","code":"x","depth":2}`), &c))
		assert.Equal(t, Extra{"depth": float64(2)}, c.Extra)
	})
}

func TestCodeChunkRoundTrip(t *testing.T) {
	t.Run("encode writes canonical names and the discriminant", func(t *testing.T) {
		c := codeChunk{Code: "1+1", ExecutionMode: "Auto"}
		data, err := json.Marshal(&c)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"CodeChunk","code":"1+1","executionMode":"Auto"}`, string(data))
	})

	t.Run("decode of encode is the identity", func(t *testing.T) {
		count := 3
		in := codeChunk{
			Code:           "plot(x)",
			ExecutionMode:  "Auto",
			ExecutionCount: &count,
			Outputs:        []any{"figure"},
			Extra:          Extra{"depth": float64(2)},
		}
		data, err := json.Marshal(&in)
		require.NoError(t, err)

		var out codeChunk
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})

	t.Run("aliased input re-encodes canonically", func(t *testing.T) {
		var c codeChunk
		require.NoError(t, json.Unmarshal([]byte(`{"code":"x","execution-mode":"Auto"}`), &c))

		data, err := json.Marshal(&c)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"CodeChunk","code":"x","executionMode":"Auto"}`, string(data))
	})
}
