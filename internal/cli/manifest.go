package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/bgserve"
	"github.com/dmitrymomot/bgserve/pkg/resource"
)

var (
	ErrInvalidManifest = errors.New("invalid manifest")
	ErrNothingToServe  = errors.New("nothing to serve")
)

// Manifest lists resources to serve.
//
//	resources:
//	  - path: data/sample.bam
//	  - content: "chr1\t248956422"
//	    extension: .tsv
//	  - s3: {bucket: tracks, key: hg38/genes.bed}
//	    headers:
//	      Cache-Control: max-age=60
type Manifest struct {
	Resources []Entry `yaml:"resources"`
}

// Entry is a single manifest source. Exactly one of Path, Content or S3 is set.
type Entry struct {
	Path      string            `yaml:"path,omitempty"`
	Content   *string           `yaml:"content,omitempty"`
	Extension string            `yaml:"extension,omitempty"`
	S3        *ObjectRef        `yaml:"s3,omitempty"`
	MediaType string            `yaml:"media_type,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
}

// ObjectRef names an object in the configured store.
type ObjectRef struct {
	Bucket string `yaml:"bucket"`
	Key    string `yaml:"key"`
}

// ParseManifest decodes a manifest. Unknown fields are rejected. Relative
// paths are resolved against baseDir.
func ParseManifest(r io.Reader, baseDir string) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidManifest, err)
	}
	for i := range m.Resources {
		e := &m.Resources[i]
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidManifest, i, err)
		}
		if e.Path != "" && !filepath.IsAbs(e.Path) && baseDir != "" {
			e.Path = filepath.Join(baseDir, e.Path)
		}
	}
	return &m, nil
}

// LoadManifest reads the manifest at path; relative entries resolve against its directory.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidManifest, err)
	}
	defer f.Close()
	return ParseManifest(f, filepath.Dir(path))
}

// Validate checks that the entry names exactly one source.
func (e Entry) Validate() error {
	sources := 0
	if e.Path != "" {
		sources++
	}
	if e.Content != nil {
		sources++
	}
	if e.S3 != nil {
		sources++
		if e.S3.Bucket == "" || e.S3.Key == "" {
			return errors.New("s3 requires bucket and key")
		}
	}
	switch sources {
	case 0:
		return errors.New("one of path, content or s3 is required")
	case 1:
		return nil
	default:
		return errors.New("path, content and s3 are mutually exclusive")
	}
}

func (e Entry) options() []resource.Option {
	var opts []resource.Option
	if len(e.Headers) > 0 {
		opts = append(opts, resource.WithHeaders(e.Headers))
	}
	if e.MediaType != "" {
		opts = append(opts, resource.WithMediaType(e.MediaType))
	}
	return opts
}

// Create registers the entry with p.
func (e Entry) Create(ctx context.Context, p *bgserve.Provider) (*bgserve.Handle, error) {
	switch {
	case e.Path != "":
		return p.Create(ctx, e.Path, e.options()...)
	case e.Content != nil:
		return p.CreateString(ctx, *e.Content, e.Extension, e.options()...)
	case e.S3 != nil:
		return p.CreateObject(ctx, e.S3.Bucket, e.S3.Key, e.options()...)
	default:
		return nil, e.Validate()
	}
}
