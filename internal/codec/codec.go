package codec

import (
	"io"

	"switchyard/internal/domain"
)

// DeploymentExport is the portable snapshot handed to exporters
type DeploymentExport struct {
	Deployment *domain.Deployment `json:"deployment"`
	Nodes      []*domain.Node     `json:"nodes"`
}

// Exporter interface for exporting deployment data to various formats
type Exporter interface {
	Export(export *DeploymentExport, w io.Writer) error
	Format() string
}
