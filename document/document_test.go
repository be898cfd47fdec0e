package document

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

// mapDocument is a minimal Document used by tests in this package (the
// solver and detect tests keep their own copy), matching the teacher's habit of
// keeping a tiny in-memory fixture type (sql/test_util) alongside the real
// production implementations.
type mapDocument map[string]Value

func (m mapDocument) Find(path string) (Value, bool) {
	v, ok := m[path]
	return v, ok
}

func TestToInt64(t *testing.T) {
	var testCases = []struct {
		name     string
		value    Value
		expected int64
		ok       bool
	}{
		{"int", Int(42), 42, true},
		{"float truncates", FloatVal(3.9), 3, true},
		{"numeric string", String("17"), 17, true},
		{"non-numeric string", String("abc"), 0, false},
		{"true is one", Bool(true), 1, true},
		{"false is zero", Bool(false), 0, true},
		{"null", Null(), 0, false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			i, ok := tt.value.ToInt64()
			require.Equal(tt.ok, ok)
			if tt.ok {
				require.Equal(tt.expected, i)
			}
		})
	}
}

func TestToString(t *testing.T) {
	var testCases = []struct {
		name     string
		value    Value
		expected string
		ok       bool
	}{
		{"string passthrough", String("hello"), "hello", true},
		{"int stringifies", Int(7), "7", true},
		{"bool stringifies", Bool(true), "true", true},
		{"null does not coerce", Null(), "", false},
		{"array does not coerce", Array(nil), "", false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			s, ok := tt.value.ToString()
			require.Equal(tt.ok, ok)
			if tt.ok {
				require.Equal(tt.expected, s)
			}
		})
	}
}

func TestAsStringDoesNotCoerce(t *testing.T) {
	require := require.New(t)

	_, ok := Int(7).AsString()
	require.False(ok)

	s, ok := String("hi").AsString()
	require.True(ok)
	require.Equal("hi", s)
}

func TestFind(t *testing.T) {
	require := require.New(t)

	doc := mapDocument{
		"Ex.Name": String("powershell.exe"),
		"Ex.Args": String("one$two$"),
	}

	v, ok := doc.Find("Ex.Name")
	require.True(ok)
	s, ok := v.AsString()
	require.True(ok)
	require.Equal("powershell.exe", s)

	_, ok = doc.Find("Ex.Missing")
	require.False(ok)
}

// yamlFixture decodes a flat YAML mapping into a mapDocument, giving tests a
// compact way to spell out sample documents instead of building Value
// literals by hand.
func yamlFixture(t *testing.T, src string) mapDocument {
	t.Helper()
	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))

	doc := make(mapDocument, len(raw))
	for k, v := range raw {
		doc[k] = fromYAML(v)
	}
	return doc
}

func fromYAML(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case float64:
		return FloatVal(x)
	case string:
		return String(x)
	case []interface{}:
		vs := make([]Value, len(x))
		for i, item := range x {
			vs[i] = fromYAML(item)
		}
		return Array(vs)
	default:
		return Null()
	}
}

func TestFindFromYAMLFixture(t *testing.T) {
	require := require.New(t)

	doc := yamlFixture(t, `
Ex.Name: powershell.exe
Ex.PID: 4242
Ex.Args:
  - -NoProfile
  - -Command
`)

	v, ok := doc.Find("Ex.Name")
	require.True(ok)
	s, ok := v.AsString()
	require.True(ok)
	require.Equal("powershell.exe", s)

	v, ok = doc.Find("Ex.PID")
	require.True(ok)
	i, ok := v.ToInt64()
	require.True(ok)
	require.EqualValues(4242, i)

	v, ok = doc.Find("Ex.Args")
	require.True(ok)
	arr, ok := v.AsArray()
	require.True(ok)
	require.Len(arr, 2)

	_, ok = doc.Find("Ex.Missing")
	require.False(ok)
}
