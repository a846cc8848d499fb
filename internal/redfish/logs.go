package redfish

import (
	"fmt"
	"net/http"
	"regexp"
)

var postCodeRE = regexp.MustCompile(`POST Code[:\s]+(\w+)\b`)

// PostCodes returns the POST codes recorded in the system's PostCodes
// log service, in log order.
func (c *Client) PostCodes(system string) ([]string, error) {
	res, err := c.Get(Prefix + "/Systems/" + system + "/LogServices/PostCodes/Entries")
	if err != nil {
		return nil, err
	}
	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, fmt.Errorf("post codes for %s: status %d", system, res.StatusCode)
	}

	var col struct {
		Members []struct {
			Message string `json:"Message"`
		} `json:"Members"`
	}
	if err := res.JSON(&col); err != nil {
		return nil, err
	}
	var codes []string
	for _, m := range col.Members {
		if match := postCodeRE.FindStringSubmatch(m.Message); match != nil {
			codes = append(codes, match[1])
		}
	}
	return codes, nil
}

// ClearPostCodes clears the system's PostCodes log service and
// reports whether the BMC acknowledged it.
func (c *Client) ClearPostCodes(system string) (bool, error) {
	res, err := c.Post(
		Prefix+"/Systems/"+system+"/LogServices/PostCodes/Actions/LogService.ClearLog",
		nil,
	)
	if err != nil {
		return false, err
	}
	return successReply(res), nil
}
