package codec

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// AnsibleCodec handles Ansible inventory export
type AnsibleCodec struct{}

// NewAnsibleCodec creates a new Ansible codec
func NewAnsibleCodec() *AnsibleCodec {
	return &AnsibleCodec{}
}

// Format returns the codec format identifier
func (c *AnsibleCodec) Format() string {
	return "ansible-inventory"
}

// ansibleInventory represents the Ansible inventory structure
type ansibleInventory struct {
	All ansibleGroup `yaml:"all"`
}

type ansibleGroup struct {
	Children map[string]ansibleGroupDef `yaml:"children,omitempty"`
	Vars     map[string]interface{}     `yaml:"vars,omitempty"`
}

type ansibleGroupDef struct {
	Hosts map[string]ansibleHost `yaml:"hosts,omitempty"`
}

type ansibleHost struct {
	AnsibleHost string `yaml:"ansible_host,omitempty"`
	NodeID      string `yaml:"node_id"`
}

// Export writes the deployment's nodes as an Ansible inventory, grouped by
// lifecycle state. Nodes that have not been provisioned yet appear under
// their node identifier, since no hostname exists for them.
func (c *AnsibleCodec) Export(export *DeploymentExport, w io.Writer) error {
	inv := ansibleInventory{
		All: ansibleGroup{
			Children: make(map[string]ansibleGroupDef),
			Vars: map[string]interface{}{
				"deployment_id":   export.Deployment.ID,
				"deployment_name": export.Deployment.Name,
			},
		},
	}

	for _, node := range export.Nodes {
		groupName := strings.ToLower(string(node.State))
		group, ok := inv.All.Children[groupName]
		if !ok {
			group = ansibleGroupDef{Hosts: make(map[string]ansibleHost)}
		}

		hostKey := node.Hostname
		if hostKey == "" {
			hostKey = node.NodeID
		}
		group.Hosts[hostKey] = ansibleHost{
			AnsibleHost: node.IPAddress,
			NodeID:      node.NodeID,
		}

		inv.All.Children[groupName] = group
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&inv); err != nil {
		return fmt.Errorf("failed to encode Ansible inventory: %w", err)
	}

	return nil
}
