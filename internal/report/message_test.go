package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitMessages(t *testing.T) {
	tests := []struct {
		desc string
		msg  string
		want []string
	}{{
		desc: "empty",
		msg:  "",
		want: nil,
	}, {
		desc: "plain message",
		msg:  "  ConnectionError: BMC unreachable  ",
		want: []string{"ConnectionError: BMC unreachable"},
	}, {
		desc: "several failures",
		msg: "Several failures occurred:\n\n" +
			"1) AssertionError: expected On\n\n" +
			"2) Timeout waiting for POST\n",
		want: []string{
			"AssertionError: expected On",
			"Timeout waiting for POST",
		},
	}, {
		desc: "skipped in teardown with earlier message",
		msg: "Skipped in suite teardown:\nCleanup failed\n" +
			"Earlier message:\nAssertionError: expected On",
		want: []string{
			"AssertionError: expected On",
			"Cleanup failed",
		},
	}, {
		desc: "teardown failed",
		msg:  "Teardown failed:\nConnectionError: host gone",
		want: []string{"ConnectionError: host gone"},
	}, {
		desc: "setup failed",
		msg:  "Setup failed: power not reached",
		want: []string{"power not reached"},
	}}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			got := SplitMessages(test.msg)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("SplitMessages -want,+got:\n%s", diff)
			}
		})
	}
}
