package codec

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlExport represents the YAML structure for deployment data
type yamlExport struct {
	Deployment yamlDeployment `yaml:"deployment"`
	Nodes      []yamlNode     `yaml:"nodes"`
}

type yamlDeployment struct {
	ID              int64     `yaml:"id"`
	Name            string    `yaml:"name"`
	Description     string    `yaml:"description,omitempty"`
	TargetNodeCount int       `yaml:"target_node_count"`
	CreatedAt       time.Time `yaml:"created_at"`
}

type yamlNode struct {
	NodeID    string    `yaml:"node_id"`
	State     string    `yaml:"state"`
	Hostname  string    `yaml:"hostname,omitempty"`
	IPAddress string    `yaml:"ip_address,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Export writes the deployment snapshot as YAML
func (c *YAMLCodec) Export(export *DeploymentExport, w io.Writer) error {
	ye := yamlExport{
		Deployment: yamlDeployment{
			ID:              export.Deployment.ID,
			Name:            export.Deployment.Name,
			Description:     export.Deployment.Description,
			TargetNodeCount: export.Deployment.TargetNodeCount,
			CreatedAt:       export.Deployment.CreatedAt,
		},
		Nodes: make([]yamlNode, 0, len(export.Nodes)),
	}

	for _, node := range export.Nodes {
		ye.Nodes = append(ye.Nodes, yamlNode{
			NodeID:    node.NodeID,
			State:     string(node.State),
			Hostname:  node.Hostname,
			IPAddress: node.IPAddress,
			CreatedAt: node.CreatedAt,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&ye); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
