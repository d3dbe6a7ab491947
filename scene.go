package goom

import (
	"bytes"
	"fmt"
	"os"

	"cogentcore.org/core/base/errors"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// Scene is the content of a scene file: bodies and world planes.
//
//	bodies:
//	  - id: crate
//	    position: [0, 2, 0]
//	    weight: 2
//	    inertia_tensor: [0.67, 0.67, 0.67]
//	    primitives:
//	      - type: box
//	        half_size: [0.5, 0.5, 0.5]
//	    copies: 3
//	    spacing: [0, 1.1, 0]
//	planes:
//	  - normal: [0, 1, 0]
//	    offset: 0
type Scene struct {
	Bodies []BodyDescriptor  `yaml:"bodies"`
	Planes []PlaneDescriptor `yaml:"planes"`
}

// ParseScene decodes a YAML scene. Unknown keys are an error.
func ParseScene(data []byte) (*Scene, error) {
	scene := &Scene{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(scene); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
	}
	return scene, nil
}

// LoadScene reads and parses the YAML file at path.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScene(data)
}

// Expand returns the body descriptors with copies spelled out. Copy n of a
// descriptor is shifted by n times its spacing and gets the id "<id>-<n>".
func (s *Scene) Expand() ([]BodyDescriptor, error) {
	var out []BodyDescriptor
	for _, desc := range s.Bodies {
		if desc.Copies < 0 {
			return nil, fmt.Errorf("%w: body %q copies %d", ErrInvalidDescriptor, desc.ID, desc.Copies)
		}
		for n := 0; n <= desc.Copies; n++ {
			var c BodyDescriptor
			if err := copier.CopyWithOption(&c, &desc, copier.Option{DeepCopy: true}); err != nil {
				return nil, err
			}
			c.Copies = 0
			c.Spacing = [3]float64{}
			if n > 0 {
				c.Position = desc.Position.Add(desc.Spacing.Mul(float64(n)))
				if desc.ID != "" {
					c.ID = fmt.Sprintf("%s-%d", desc.ID, n)
				}
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// Populate adds the scene to world. Invalid bodies and planes are logged and
// skipped; the returned error joins all of them.
func (s *Scene) Populate(world *World) error {
	descs, err := s.Expand()
	if err != nil {
		return err
	}

	var errs []error
	for _, desc := range descs {
		_, err := world.AddBody(desc)
		if errors.Log(err) != nil {
			errs = append(errs, err)
		}
	}
	if err := world.AddPlanes(s.Planes...); errors.Log(err) != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
