package registry

import (
	"github.com/neurosim-cloud/neurosim/pkg/fault"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Artifact is the parsed form of an uploaded model description.
// Cell morphology and mechanics are opaque to the orchestrator;
// the registry only enforces enough structure to reject garbage
// uploads.
type Artifact struct {
	Name     string    `yaml:"name"`
	Sections []Section `yaml:"sections"`
}

// Section is one named compartment of a cell model.
type Section struct {
	Name       string   `yaml:"name"`
	Length     float64  `yaml:"length,omitempty"`
	Diameter   float64  `yaml:"diameter,omitempty"`
	Mechanisms []string `yaml:"mechanisms,omitempty"`
}

// ParseArtifact runs the structural checks on uploaded artifact
// bytes: non-empty, parseable YAML, a name, and at least one
// named section.
func ParseArtifact(raw []byte) (*Artifact, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(fault.ErrInvalidArtifact, "artifact is empty")
	}

	artifact := &Artifact{}
	if err := yaml.Unmarshal(raw, artifact); err != nil {
		return nil, errors.Wrapf(fault.ErrInvalidArtifact, "artifact is not valid yaml: %v", err)
	}

	if artifact.Name == "" {
		return nil, errors.Wrap(fault.ErrInvalidArtifact, "artifact has no name")
	}
	if len(artifact.Sections) == 0 {
		return nil, errors.Wrap(fault.ErrInvalidArtifact, "artifact has no sections")
	}
	for _, section := range artifact.Sections {
		if section.Name == "" {
			return nil, errors.Wrap(fault.ErrInvalidArtifact, "artifact section has no name")
		}
	}

	return artifact, nil
}
