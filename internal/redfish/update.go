package redfish

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"
)

// Component is an UpdateService inventory member.
type Component struct {
	ID       string
	Endpoint string
}

// getInventory lists the Id and endpoint of every member of an
// UpdateService inventory collection.
func (c *Client) getInventory(endpoint string) ([]Component, error) {
	res, err := c.Get(endpoint)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("inventory %s: status %d", endpoint, res.StatusCode)
	}
	var col collection
	if err := res.JSON(&col); err != nil {
		return nil, err
	}
	var inv []Component
	for _, m := range col.Members {
		if m.ID != "" && m.ODataID != "" {
			inv = append(inv, Component{ID: m.ID, Endpoint: m.ODataID})
		}
	}
	return inv, nil
}

// FirmwareInventory returns the UpdateService firmware inventory.
func (c *Client) FirmwareInventory() ([]Component, error) {
	return c.getInventory(Prefix + "/UpdateService/FirmwareInventory?$expand=.")
}

// SoftwareInventory returns the UpdateService software inventory.
func (c *Client) SoftwareInventory() ([]Component, error) {
	return c.getInventory(Prefix + "/UpdateService/SoftwareInventory?$expand=.")
}

// normalizeUpdateTargets maps UpdateService member Ids to their
// endpoints.  Entries already carrying the API prefix pass through
// untouched.  The API happily accepts nonsense targets and reports
// success, so unknown Ids are an error here.
func (c *Client) normalizeUpdateTargets(targets []string) ([]string, error) {
	firmware, err := c.FirmwareInventory()
	if err != nil {
		return nil, err
	}
	software, err := c.SoftwareInventory()
	if err != nil {
		return nil, err
	}
	inventory := append(firmware, software...)

	var normalized []string
	for _, t := range targets {
		if t != "" && strings.Contains(t, Prefix) {
			normalized = append(normalized, t)
			continue
		}
		if t == "" {
			return nil, fmt.Errorf("invalid UpdateService component: empty member")
		}
		found := false
		for _, comp := range inventory {
			if comp.ID == t {
				normalized = append(normalized, comp.Endpoint)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("invalid UpdateService component: no such member %q", t)
		}
	}
	return normalized, nil
}

// inventoryMembers returns the raw firmware and software inventory
// members for attribute matching.
func (c *Client) inventoryMembers() ([]map[string]any, error) {
	var members []map[string]any
	for _, endpoint := range []string{
		Prefix + "/UpdateService/FirmwareInventory?$expand=.",
		Prefix + "/UpdateService/SoftwareInventory?$expand=.",
	} {
		res, err := c.Get(endpoint)
		if err != nil {
			return nil, err
		}
		if !res.OK() {
			return nil, fmt.Errorf("inventory %s: status %d", endpoint, res.StatusCode)
		}
		var col struct {
			Members []map[string]any `json:"Members"`
		}
		if err := res.JSON(&col); err != nil {
			return nil, err
		}
		members = append(members, col.Members...)
	}
	return members, nil
}

// relatedCache memoizes RelatedItem endpoint lookups within one
// UpdateTargets call.
type relatedCache map[string]map[string]any

func (c *Client) related(cache relatedCache, endpoint string) (map[string]any, error) {
	if data, ok := cache[endpoint]; ok {
		return data, nil
	}
	res, err := c.Get(endpoint)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if err := res.JSON(&data); err != nil {
		return nil, err
	}
	cache[endpoint] = data
	return data, nil
}

func relatedEndpoints(member map[string]any) []string {
	items, _ := member["RelatedItem"].([]any)
	var endpoints []string
	for _, it := range items {
		m, _ := it.(map[string]any)
		if ep, _ := m["@odata.id"].(string); ep != "" {
			endpoints = append(endpoints, ep)
		}
	}
	return endpoints
}

func attrsMatch(data map[string]any, attrs map[string]any) bool {
	for k, v := range attrs {
		if data[k] != v {
			return false
		}
	}
	return true
}

// UpdateTargets resolves UpdateService target endpoints matching the
// given criteria.  Entries of targets match a member explicitly by Id
// or endpoint, entries of attrs match implicitly when every key/value
// pair of one entry matches a member.  Both checks also consult the
// member's RelatedItem components, since the Id the UpdateService uses
// often differs from the chassis Id.  With no criteria at all, every
// inventory endpoint is returned.
func (c *Client) UpdateTargets(targets []string, attrs []map[string]any) ([]string, error) {
	members, err := c.inventoryMembers()
	if err != nil {
		return nil, err
	}

	var found []string
	seen := map[string]bool{}
	add := func(endpoint string) {
		if !seen[endpoint] {
			seen[endpoint] = true
			found = append(found, endpoint)
		}
	}
	cache := relatedCache{}

	for _, t := range targets {
		if t == "" {
			continue
		}
	explicit:
		for _, member := range members {
			endpoint, _ := member["@odata.id"].(string)
			if seen[endpoint] {
				continue
			}
			if member["Id"] == t || endpoint == t {
				add(endpoint)
				break
			}
			for _, rel := range relatedEndpoints(member) {
				data, err := c.related(cache, rel)
				if err != nil {
					return nil, err
				}
				if data["@odata.id"] == t || data["Id"] == t {
					add(endpoint)
					break explicit
				}
			}
		}
	}

	for _, attr := range attrs {
		if len(attr) == 0 {
			continue
		}
	implicit:
		for _, member := range members {
			endpoint, _ := member["@odata.id"].(string)
			if seen[endpoint] {
				continue
			}
			if attrsMatch(member, attr) {
				add(endpoint)
				break
			}
			for _, rel := range relatedEndpoints(member) {
				data, err := c.related(cache, rel)
				if err != nil {
					return nil, err
				}
				if attrsMatch(data, attr) {
					add(endpoint)
					break implicit
				}
			}
		}
	}

	if len(targets) == 0 && len(attrs) == 0 {
		for _, member := range members {
			if endpoint, _ := member["@odata.id"].(string); endpoint != "" {
				add(endpoint)
			}
		}
	}
	return found, nil
}

// DefaultUpdateTarget returns the endpoint of the chassis component of
// type Zone, which commonly manages firmware updates for the whole
// system.  Without a chassis Zone it falls back to the BMC.
func (c *Client) DefaultUpdateTarget() (string, error) {
	res, err := c.Get(Prefix + "/Chassis?$expand=.")
	if err != nil {
		return "", err
	}
	var col struct {
		Members []struct {
			ChassisType string `json:"ChassisType"`
			ODataID     string `json:"@odata.id"`
		} `json:"Members"`
	}
	if err := res.JSON(&col); err != nil {
		return "", err
	}
	for _, m := range col.Members {
		if strings.EqualFold(m.ChassisType, "Zone") {
			return m.ODataID, nil
		}
	}

	targets, err := c.UpdateTargets(nil, []map[string]any{
		{"Id": "BMC"},
		{"ManagerType": "BMC"},
	})
	if err != nil {
		return "", err
	}
	if len(targets) == 0 {
		return "", fmt.Errorf("no default update target")
	}
	return targets[0], nil
}

const multipartEndpoint = Prefix + "/UpdateService/update-multipart"

// SetUpdateTargets stages the components to update ahead of a
// firmware flash and confirms the BMC recorded them.  An empty
// endpoint selects the multipart update endpoint.
func (c *Client) SetUpdateTargets(targets []string, endpoint string) (bool, error) {
	if endpoint == "" {
		endpoint = multipartEndpoint
	}
	normalized, err := c.normalizeUpdateTargets(targets)
	if err != nil {
		return false, err
	}

	res, err := c.Patch(endpoint, map[string]any{"HttpPushUriTargets": normalized})
	if err != nil {
		return false, err
	}
	if !res.OK() {
		glog.Warningf("set update targets: status %d: %s", res.StatusCode, res.Body)
		return false, nil
	}

	res, err = c.Get(endpoint)
	if err != nil {
		return false, err
	}
	var reply struct {
		HttpPushUriTargets []string `json:"HttpPushUriTargets"`
	}
	if err := res.JSON(&reply); err != nil {
		return false, err
	}
	sort.Strings(normalized)
	sort.Strings(reply.HttpPushUriTargets)
	if len(reply.HttpPushUriTargets) != len(normalized) {
		return false, nil
	}
	for i, t := range normalized {
		if reply.HttpPushUriTargets[i] != t {
			return false, nil
		}
	}
	return true, nil
}

// taskStatus is the slice of a task reply the update poll inspects.
type taskStatus struct {
	ID              string `json:"Id"`
	PercentComplete int    `json:"PercentComplete"`
	TaskState       string `json:"TaskState"`
	TaskStatus      string `json:"TaskStatus"`
}

// UpdateFirmware uploads a firmware image for flashing and, when wait
// is set, polls the resulting task until it completes or 30 minutes
// pass.  An empty endpoint selects the multipart update endpoint.
func (c *Client) UpdateFirmware(path, endpoint string, wait bool) (bool, error) {
	if endpoint == "" {
		endpoint = multipartEndpoint
	}

	payload, contentType, err := multipartUpdate(path)
	if err != nil {
		return false, err
	}
	res, err := c.do(http.MethodPost, endpoint, payload, contentType)
	if err != nil {
		return false, err
	}
	var task taskStatus
	if err := res.JSON(&task); err != nil {
		return false, err
	}

	taskEndpoint := Prefix + "/TaskService/Tasks/" + task.ID
	deadline := time.Now().Add(30 * time.Minute)
	for wait && task.PercentComplete < 100 &&
		strings.EqualFold(task.TaskState, "Running") &&
		time.Now().Before(deadline) {
		time.Sleep(30 * time.Second)
		res, err := c.Get(taskEndpoint)
		if err != nil {
			// The task endpoint can become unreachable during the
			// initial stages of the multipart push.  It recovers, so
			// keep polling.
			glog.Warning(err)
			task = taskStatus{}
			continue
		}
		if err := res.JSON(&task); err != nil {
			glog.Warning(err)
			task = taskStatus{}
		}
	}

	switch {
	case wait && task.PercentComplete == 100 &&
		strings.EqualFold(task.TaskState, "Completed") &&
		strings.EqualFold(task.TaskStatus, "OK"):
		return true, nil
	case strings.EqualFold(task.TaskState, "Running") &&
		strings.EqualFold(task.TaskStatus, "OK"):
		// Not waiting for the task, so getting this far is fine.
		return true, nil
	}
	return false, nil
}

// multipartUpdate builds the UpdateParameters and UpdateFile parts of
// a multipart firmware push.
func multipartUpdate(path string) (payload []byte, contentType string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	params, err := json.Marshal(map[string]any{
		"ForceUpdate": true,
		"Targets":     []string{},
	})
	if err != nil {
		return nil, "", err
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="UpdateParameters"`)
	hdr.Set("Content-Type", "application/json")
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(params); err != nil {
		return nil, "", err
	}

	hdr = textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="UpdateFile"; filename=%q`, filepath.Base(path)))
	hdr.Set("Content-Type", "application/octet-stream")
	part, err = w.CreatePart(hdr)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// Tasks returns the task endpoints of the TaskService.  Comparing the
// list before and after starting an update indirectly identifies the
// active task.
func (c *Client) Tasks() ([]string, error) {
	res, err := c.Get(Prefix + "/TaskService/Tasks")
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("list tasks: status %d", res.StatusCode)
	}
	var col collection
	if err := res.JSON(&col); err != nil {
		return nil, err
	}
	var tasks []string
	for _, m := range col.Members {
		if m.ODataID != "" {
			tasks = append(tasks, m.ODataID)
		}
	}
	return tasks, nil
}
