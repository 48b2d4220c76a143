package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/forumcore/internal/data/schema"
)

func TestWriteCatalogFormats(t *testing.T) {
	cat, err := schema.Describe()
	require.NoError(t, err)

	var js bytes.Buffer
	require.NoError(t, writeCatalog(&js, "json", cat))
	var fromJSON schema.Catalog
	require.NoError(t, json.Unmarshal(js.Bytes(), &fromJSON))
	assert.Len(t, fromJSON.Tables, len(cat.Tables))

	var ym bytes.Buffer
	require.NoError(t, writeCatalog(&ym, "yaml", cat))
	var fromYAML schema.Catalog
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &fromYAML))
	assert.Len(t, fromYAML.Rules, len(cat.Rules))

	assert.Error(t, writeCatalog(&bytes.Buffer{}, "toml", cat))
}

func TestSchemaCommandPrintsJSON(t *testing.T) {
	cmd := schemaCMD()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--format", "json"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"message_embeddings"`)
}
