package inventory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const inventoryYAML = `hosts:
  - name: dut1
    addr: 10.0.0.10
    ssh:
      user: root
      password: hunter2
      port: 22
    bmc:
      addr: 10.0.1.10
      user: admin
      password: secret
  - name: dut2
    addr: 10.0.0.11
    ssh:
      user: tester
      key_file: ~/.ssh/lab
`

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "hosts.yaml")
	if err := os.WriteFile(p, []byte(inventoryYAML), 0600); err != nil {
		t.Fatal(err)
	}

	inv, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	host, err := inv.Host("dut1")
	if err != nil {
		t.Fatalf("Host: %v", err)
	}
	want := Host{
		Name: "dut1",
		Addr: "10.0.0.10",
		SSH:  SSH{User: "root", Password: "hunter2", Port: 22},
		BMC:  BMC{Addr: "10.0.1.10", User: "admin", Password: "secret"},
	}
	if diff := cmp.Diff(want, host); diff != "" {
		t.Errorf("Host -want,+got:\n%s", diff)
	}

	if _, err := inv.Host("dut9"); err == nil || !strings.Contains(err.Error(), "dut9") {
		t.Errorf("Host for unknown name got error %v, want name in error", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("Load of missing file got nil error")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "hosts.yaml")
	if err := os.WriteFile(p, []byte("hosts: {not a list"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Error("Load of malformed yaml got nil error")
	}
}
