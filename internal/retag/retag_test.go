package retag

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/elainajones/robotkit/internal/robot"
)

func TestReadPlan(t *testing.T) {
	plan := "TC_001,TC_001 Cold Boot,bios regression,smoke,reviewed\n" +
		"TC_002,TC_002 Warm Boot,smoke,\n"

	got, err := ReadPlan(strings.NewReader(plan))
	if err != nil {
		t.Fatalf("ReadPlan: %v", err)
	}
	want := Plan{
		"tc_001 cold boot": {
			NewTags:    []string{"bios", "regression"},
			RemoveTags: []string{"smoke"},
		},
		"tc_002 warm boot": {
			NewTags: []string{"smoke"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadPlan -want,+got:\n%s", diff)
	}
}

func TestReadPlan_BadCSV(t *testing.T) {
	if _, err := ReadPlan(strings.NewReader("a,\"b\n")); err == nil {
		t.Error("ReadPlan on malformed CSV got nil error")
	}
}

func TestMergeTags(t *testing.T) {
	tests := []struct {
		desc string
		tc   robot.TestCase
		e    Entry
		want []string
	}{{
		desc: "add and remove",
		tc: robot.TestCase{
			ID:   "TC_001",
			Tags: []string{"smoke", "TC_001"},
		},
		e: Entry{
			NewTags:    []string{"bios"},
			RemoveTags: []string{"SMOKE"},
		},
		want: []string{"TC_001", "bios"},
	}, {
		desc: "id reinserted after removal",
		tc: robot.TestCase{
			ID:   "TC_001",
			Tags: []string{"TC_001", "smoke"},
		},
		e: Entry{
			RemoveTags: []string{"tc_001"},
		},
		want: []string{"smoke", "TC_001"},
	}, {
		desc: "duplicates dropped in first seen order",
		tc: robot.TestCase{
			Tags: []string{"smoke", "bios"},
		},
		e: Entry{
			NewTags: []string{"bios", "smoke", "new"},
		},
		want: []string{"smoke", "bios", "new"},
	}, {
		desc: "no changes",
		tc: robot.TestCase{
			ID:   "TC_001",
			Tags: []string{"TC_001"},
		},
		want: []string{"TC_001"},
	}}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			got := MergeTags(test.tc, test.e)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("MergeTags -want,+got:\n%s", diff)
			}
		})
	}
}
