package robot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBlocks(t *testing.T) {
	tests := []struct {
		desc    string
		section string
		want    []Block
	}{{
		desc:    "empty",
		section: "",
		want:    nil,
	}, {
		desc:    "single block",
		section: "Boot Host\n    Log  boot\n",
		want: []Block{
			{Name: "Boot Host", Text: "Boot Host\n    Log  boot\n"},
		},
	}, {
		desc:    "two blocks",
		section: "Boot Host\n    Log  boot\n\nCheck Power\n    Log  power\n",
		want: []Block{
			{Name: "Boot Host", Text: "Boot Host\n    Log  boot\n\n"},
			{Name: "Check Power", Text: "Check Power\n    Log  power\n"},
		},
	}, {
		desc:    "trailing comment stripped from name",
		section: "Boot Host  # flaky\n    Log  boot\n",
		want: []Block{
			{Name: "Boot Host", Text: "Boot Host  # flaky\n    Log  boot\n"},
		},
	}, {
		desc:    "comment line kept in body",
		section: "Boot Host\n# wait for BMC\n    Log  boot\n",
		want: []Block{
			{Name: "Boot Host", Text: "Boot Host\n# wait for BMC\n    Log  boot\n"},
		},
	}, {
		desc:    "leading comment ignored",
		section: "# suite keywords\nBoot Host\n    Log  boot\n",
		want: []Block{
			{Name: "Boot Host", Text: "Boot Host\n    Log  boot\n"},
		},
	}, {
		desc:    "bracket start",
		section: "[Documentation]  shared\nBoot Host\n    Log  boot\n",
		want: []Block{
			{Name: "[Documentation]  shared", Text: "[Documentation]  shared\n"},
			{Name: "Boot Host", Text: "Boot Host\n    Log  boot\n"},
		},
	}}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			got := Blocks(test.section)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Blocks -want,+got:\n%s", diff)
			}
		})
	}
}
