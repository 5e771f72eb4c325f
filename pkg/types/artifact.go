// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ArtifactFormat identifies one output format of a generation run.
type ArtifactFormat string

const (
	FormatMarkdown ArtifactFormat = "markdown"
	FormatHTML     ArtifactFormat = "html"
	FormatEPUB     ArtifactFormat = "epub"
	FormatPDF      ArtifactFormat = "pdf"
)

// AllFormats lists the supported formats in production order: the markdown
// base first, then the formats converted from it, then pdf, which derives
// from the html artifact.
func AllFormats() []ArtifactFormat {
	return []ArtifactFormat{FormatMarkdown, FormatHTML, FormatEPUB, FormatPDF}
}

// Ext returns the file extension for the format, without the dot.
func (f ArtifactFormat) Ext() string {
	switch f {
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

// ArtifactStatus records the outcome of producing one artifact.
type ArtifactStatus string

const (
	// ArtifactSkipped means the target file already existed and force was
	// not set.
	ArtifactSkipped ArtifactStatus = "skipped"

	// ArtifactProduced means the artifact was written during this run.
	ArtifactProduced ArtifactStatus = "produced"

	// ArtifactFailed means production was attempted and failed; the
	// diagnostic explains why. Other formats are unaffected.
	ArtifactFailed ArtifactStatus = "failed"
)

// Artifact is the outcome record for one requested format.
type Artifact struct {
	Format ArtifactFormat `json:"format" yaml:"format"`

	// Path is the canonical output path, set regardless of status.
	Path string `json:"path" yaml:"path"`

	Status ArtifactStatus `json:"status" yaml:"status"`

	// Diagnostic describes the failure when Status is failed.
	Diagnostic string `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

// ArtifactSet holds one record per requested format for a single run.
// It is rebuilt on every run and never persisted.
type ArtifactSet struct {
	Artifacts []Artifact `json:"artifacts" yaml:"artifacts"`
}

// Add appends a record to the set.
func (s *ArtifactSet) Add(a Artifact) {
	s.Artifacts = append(s.Artifacts, a)
}

// Count returns how many records carry the given status.
func (s *ArtifactSet) Count(status ArtifactStatus) int {
	n := 0
	for _, a := range s.Artifacts {
		if a.Status == status {
			n++
		}
	}
	return n
}

// HasFailures reports whether any format failed.
func (s *ArtifactSet) HasFailures() bool {
	return s.Count(ArtifactFailed) > 0
}
