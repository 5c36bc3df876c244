package collection

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: "1"
name: community-pack
resources:
  - descriptor:
      code: gift_cards
      name: Gift Cards
      description: Prepaid cards sold alongside products.
      search_fields: ["title", "sku"]
      required_fields: ["title", "amount"]
      actions: ["favorite", "publish"]
    maintainers: ["ops@example.com"]
    tags: ["commerce"]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Resources, 1)

	res := doc.Resources[0]
	assert.Equal(t, "gift_cards", res.Descriptor.Code)
	assert.Equal(t, "Gift Cards", res.Descriptor.Name)
	assert.Equal(t, []string{"title", "sku"}, res.Descriptor.SearchFields)
	assert.Equal(t, []string{"favorite", "publish"}, res.Descriptor.Actions)
	assert.Equal(t, []string{"ops@example.com"}, res.Maintainers)
}

func TestDecodeManifestRejectsUnknownFields(t *testing.T) {
	const payload = `
version: "1"
resources:
  - descriptor:
      code: gift_cards
      name: Gift Cards
    surprise: true
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
}

func TestDecodeManifestRejectsEmptyInput(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest is empty")
}

func TestManifestValidateDuplicates(t *testing.T) {
	doc := &ManifestDocument{
		Version: ManifestVersion,
		Resources: []ManifestResource{
			{Descriptor: ResourceDescriptor{Code: "a", Name: "A"}},
			{Descriptor: ResourceDescriptor{Code: "a", Name: "A again"}},
		},
	}
	err := doc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates")
}

func TestManifestValidateVersion(t *testing.T) {
	doc := &ManifestDocument{Version: "2"}
	require.Error(t, doc.Validate())
}

func TestRegistryLoadManifestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resources.yaml")
	const payload = `
version: "1"
resources:
  - descriptor:
      code: gift_cards
      name: Gift Cards
`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	reg := NewRegistry()
	doc, err := reg.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	desc, ok := reg.Descriptor("gift_cards")
	require.True(t, ok)
	assert.Equal(t, "Gift Cards", desc.Name)
}

func TestWriteManifestRoundTrip(t *testing.T) {
	doc := &ManifestDocument{
		Version: ManifestVersion,
		Name:    "workspace",
		Resources: []ManifestResource{
			{
				Descriptor: ResourceDescriptor{
					Code:           "gift_cards",
					Name:           "Gift Cards",
					RequiredFields: []string{"title"},
				},
				Tags: []string{"commerce"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, doc))

	decoded, err := DecodeManifest(&buf)
	require.NoError(t, err)
	require.Len(t, decoded.Resources, 1)
	assert.Equal(t, doc.Resources[0].Descriptor, decoded.Resources[0].Descriptor)
	assert.Equal(t, doc.Resources[0].Tags, decoded.Resources[0].Tags)
}
