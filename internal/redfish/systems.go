package redfish

import (
	"fmt"
	"path"
	"sort"

	"github.com/golang/glog"
)

// collection is the generic Redfish Members listing.
type collection struct {
	Members []struct {
		ID      string `json:"Id"`
		Name    string `json:"Name"`
		ODataID string `json:"@odata.id"`
	} `json:"Members"`
}

// Systems returns the IDs of the computer systems the BMC manages.
func (c *Client) Systems() ([]string, error) {
	res, err := c.Get(Prefix + "/Systems")
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("list systems: status %d", res.StatusCode)
	}
	var col collection
	if err := res.JSON(&col); err != nil {
		return nil, err
	}
	var ids []string
	for _, m := range col.Members {
		switch {
		case m.ID != "":
			ids = append(ids, m.ID)
		case m.ODataID != "":
			ids = append(ids, path.Base(m.ODataID))
		}
	}
	return ids, nil
}

// Chassis returns the names of the chassis the BMC manages.
func (c *Client) Chassis() ([]string, error) {
	res, err := c.Get(Prefix + "/Chassis")
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("list chassis: status %d", res.StatusCode)
	}
	var col collection
	if err := res.JSON(&col); err != nil {
		return nil, err
	}
	var names []string
	for _, m := range col.Members {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// ResetTypes returns the reset actions the system supports, such as
// On, ForceOff, or GracefulRestart.
func (c *Client) ResetTypes(system string) ([]string, error) {
	res, err := c.Get(Prefix + "/Systems/" + system + "/ResetActionInfo")
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("reset types for %s: status %d", system, res.StatusCode)
	}
	var info struct {
		Parameters []struct {
			Name            string   `json:"Name"`
			AllowableValues []string `json:"AllowableValues"`
		} `json:"Parameters"`
	}
	if err := res.JSON(&info); err != nil {
		return nil, err
	}
	var types []string
	for _, p := range info.Parameters {
		if p.Name == "ResetType" {
			types = append(types, p.AllowableValues...)
		}
	}
	sort.Strings(types)
	return types, nil
}

// Reset requests a power state change on the system and reports
// whether the BMC accepted it.
func (c *Client) Reset(system, resetType string) (bool, error) {
	res, err := c.Post(
		Prefix+"/Systems/"+system+"/Actions/ComputerSystem.Reset",
		map[string]string{"ResetType": resetType},
	)
	if err != nil {
		return false, err
	}
	if !successReply(res) {
		glog.Warningf("Reset %s on %s: status %d: %s", resetType, system, res.StatusCode, res.Body)
		return false, nil
	}
	return true, nil
}

// BootOption is one entry of the system boot option collection.
type BootOption struct {
	ID          string
	DisplayName string
}

// BootOptions returns the boot options the system reports, fetching
// each collection member for its display name.
func (c *Client) BootOptions(system string) ([]BootOption, error) {
	res, err := c.Get(Prefix + "/Systems/" + system + "/BootOptions")
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("boot options for %s: status %d", system, res.StatusCode)
	}
	var col collection
	if err := res.JSON(&col); err != nil {
		return nil, err
	}
	var opts []BootOption
	for _, m := range col.Members {
		if m.ODataID == "" {
			continue
		}
		res, err := c.Get(m.ODataID)
		if err != nil {
			return nil, err
		}
		if !res.OK() {
			glog.Warningf("boot option %s: status %d", m.ODataID, res.StatusCode)
			continue
		}
		var opt struct {
			ID          string `json:"Id"`
			DisplayName string `json:"DisplayName"`
		}
		if err := res.JSON(&opt); err != nil {
			return nil, err
		}
		opts = append(opts, BootOption{ID: opt.ID, DisplayName: opt.DisplayName})
	}
	return opts, nil
}

// BootOrder returns the current boot order of the system.
func (c *Client) BootOrder(system string) ([]string, error) {
	res, err := c.Get(Prefix + "/Systems/" + system)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("boot order for %s: status %d", system, res.StatusCode)
	}
	var sys struct {
		Boot struct {
			BootOrder []string `json:"BootOrder"`
		} `json:"Boot"`
	}
	if err := res.JSON(&sys); err != nil {
		return nil, err
	}
	return sys.Boot.BootOrder, nil
}

// SetBootOrder stages a new boot order in the system settings and
// confirms the pending value matches.  The order takes effect on the
// next reboot.
func (c *Client) SetBootOrder(system string, order []string) (bool, error) {
	settings := Prefix + "/Systems/" + system + "/Settings"
	res, err := c.Patch(settings, map[string]any{
		"Boot": map[string]any{"BootOrder": order},
	})
	if err != nil {
		return false, err
	}
	if !res.OK() {
		glog.Warningf("set boot order on %s: status %d: %s", system, res.StatusCode, res.Body)
		return false, nil
	}

	res, err = c.Get(settings)
	if err != nil {
		return false, err
	}
	if !res.OK() {
		return false, fmt.Errorf("confirm boot order on %s: status %d", system, res.StatusCode)
	}
	var pending struct {
		Boot struct {
			BootOrder []string `json:"BootOrder"`
		} `json:"Boot"`
	}
	if err := res.JSON(&pending); err != nil {
		return false, err
	}
	if len(pending.Boot.BootOrder) != len(order) {
		return false, nil
	}
	for i, id := range order {
		if pending.Boot.BootOrder[i] != id {
			return false, nil
		}
	}
	return true, nil
}
