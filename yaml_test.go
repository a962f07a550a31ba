package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	yaml "go.yamlcore.dev/yaml"
	"go.yamlcore.dev/yaml/ast"
	"go.yamlcore.dev/yaml/schema"
)

type config struct {
	Name  string   `yaml:"name"`
	Ports []int    `yaml:"ports"`
	Tags  []string `yaml:"tags,omitempty"`
}

func TestUnmarshalIntoStruct(t *testing.T) {
	var c config
	src := "name: svc\nports: [80, 443]\ntags:\n  - web\n  - prod\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &c))
	assert.Equal(t, "svc", c.Name)
	assert.Equal(t, []int{80, 443}, c.Ports)
	assert.Equal(t, []string{"web", "prod"}, c.Tags)
}

func TestUnmarshalMergeKeyAndAnchors(t *testing.T) {
	src := "base: &b\n  a: 1\nchild:\n  <<: *b\n  b: 2\n"
	var out map[string]map[string]int
	require.NoError(t, yaml.Unmarshal([]byte(src), &out))
	assert.Equal(t, 1, out["child"]["a"])
	assert.Equal(t, 2, out["child"]["b"])
}

func TestDecoderWithJSONSchemaRejectsPlainWord(t *testing.T) {
	dec := yaml.NewDecoder(yaml.WithSchema(schema.JSON))
	var v interface{}
	err := dec.Decode([]byte("a: hello\n"), &v)
	assert.Error(t, err)
}

func TestDecoderWithBestEffortRecoversDocuments(t *testing.T) {
	dec := yaml.NewDecoder(yaml.WithBestEffort(true))
	docs, err := dec.Documents([]byte("good: 1\n---\nbad: [1, 2\n"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
}

func TestDecodeAllMultipleDocuments(t *testing.T) {
	dec := yaml.NewDecoder()
	var seen int
	err := dec.DecodeAll([]byte("a: 1\n---\na: 2\n"), func(doc *ast.Document) error {
		seen++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, seen)
}

func TestWithExpansionLimitsAppliesToDecode(t *testing.T) {
	dec := yaml.NewDecoder(yaml.WithExpansionLimits(1, 1000))
	src := "a: &x 1\nb: *x\nc: *x\n"
	var out map[string]int
	err := dec.Decode([]byte(src), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, out["a"])
	assert.Equal(t, 1, out["b"])
}
