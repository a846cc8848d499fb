// Package inventory resolves lab hosts from a YAML inventory file.
//
// The inventory decouples the CLI from per-host credentials the same
// way test cases are decoupled from their lab: commands name a host
// and the inventory supplies the connection details.
package inventory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SSH holds the SSH connection settings for a host.
type SSH struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	KeyFile  string `yaml:"key_file"`
	Port     int    `yaml:"port"`
}

// BMC holds the Redfish connection settings for a host's BMC.
type BMC struct {
	Addr     string `yaml:"addr"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Port     int    `yaml:"port"`
}

// Host is one lab machine.
type Host struct {
	Name string `yaml:"name"`
	Addr string `yaml:"addr"`
	SSH  SSH    `yaml:"ssh"`
	BMC  BMC    `yaml:"bmc"`
}

// Inventory is the set of known lab hosts.
type Inventory struct {
	Hosts []Host `yaml:"hosts"`
}

// Load reads an inventory file.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	inv := &Inventory{}
	if err := yaml.Unmarshal(data, inv); err != nil {
		return nil, fmt.Errorf("could not parse inventory %s: %w", path, err)
	}
	return inv, nil
}

// Host resolves a host by name.
func (inv *Inventory) Host(name string) (Host, error) {
	for _, h := range inv.Hosts {
		if h.Name == name {
			return h, nil
		}
	}
	return Host{}, fmt.Errorf("no such host %q in inventory", name)
}
