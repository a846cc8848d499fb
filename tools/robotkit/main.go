// Command robotkit bundles the suite maintenance and lab automation
// helpers for Robot Framework test trees: impact analysis for keyword
// changes, bulk retagging, xlsx run reports, SSH command execution,
// Redfish power control, and a throwaway HTTP file server.
package main

import "github.com/elainajones/robotkit/tools/robotkit/cmd"

func main() {
	cmd.Execute()
}
