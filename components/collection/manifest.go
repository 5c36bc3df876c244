package collection

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ManifestDocument models a YAML/JSON manifest describing the resources a
// workspace manages.
type ManifestDocument struct {
	Version   string             `json:"version" yaml:"version"`
	Name      string             `json:"name,omitempty" yaml:"name,omitempty"`
	Homepage  string             `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Resources []ManifestResource `json:"resources" yaml:"resources"`
	Source    string             `json:"-" yaml:"-"`
}

// ManifestResource describes a single resource entry within a manifest.
type ManifestResource struct {
	Descriptor  ResourceDescriptor `json:"descriptor" yaml:"descriptor"`
	Maintainers []string           `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string           `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// LoadManifestFile reads a manifest from disk, registers it against the
// registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*ManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers descriptors from a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *ManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("collection: manifest document is nil")
	}
	for _, res := range doc.Resources {
		if err := r.RegisterDescriptor(res.Descriptor); err != nil {
			return fmt.Errorf("collection: register resource %s from %s: %w", res.Descriptor.Code, doc.Source, err)
		}
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*ManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("collection: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("collection: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("collection: manifest is empty")
		}
		return nil, fmt.Errorf("collection: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// WriteManifest renders the document as YAML to the writer.
func WriteManifest(w io.Writer, doc *ManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("collection: manifest document is nil")
	}
	out := *doc
	out.Source = ""
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&out); err != nil {
		return fmt.Errorf("collection: encode manifest: %w", err)
	}
	return encoder.Close()
}

// Validate ensures the manifest satisfies required fields.
func (doc *ManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("collection: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Resources))
	for idx, res := range doc.Resources {
		if res.Descriptor.Code == "" {
			return fmt.Errorf("collection: manifest resource at index %d is missing descriptor.code", idx)
		}
		if res.Descriptor.Name == "" {
			return fmt.Errorf("collection: manifest resource %s missing descriptor.name", res.Descriptor.Code)
		}
		if _, exists := seen[res.Descriptor.Code]; exists {
			return fmt.Errorf("collection: manifest duplicates resource code %s", res.Descriptor.Code)
		}
		seen[res.Descriptor.Code] = struct{}{}
	}
	return nil
}

func (doc *ManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if doc.Resources == nil {
		doc.Resources = []ManifestResource{}
	}
}
