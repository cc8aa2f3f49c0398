package status

import (
	"context"
	"fmt"
	"testing"
	"time"

	"agentmon/internal/gitx"
)

func TestRollupChecks(t *testing.T) {
	tests := []struct {
		name   string
		checks []ghCheck
		want   CheckState
	}{
		{"no checks", nil, ChecksUnknown},
		{"all success", []ghCheck{
			{Status: "COMPLETED", Conclusion: "SUCCESS"},
			{Status: "COMPLETED", Conclusion: "SUCCESS"},
		}, ChecksPassing},
		{"failure beats pending and success", []ghCheck{
			{Status: "COMPLETED", Conclusion: "SUCCESS"},
			{Status: "IN_PROGRESS"},
			{Status: "COMPLETED", Conclusion: "FAILURE"},
		}, ChecksFailing},
		{"pending beats success", []ghCheck{
			{Status: "COMPLETED", Conclusion: "SUCCESS"},
			{Status: "QUEUED"},
		}, ChecksPending},
		{"status context failure", []ghCheck{
			{State: "FAILURE"},
		}, ChecksFailing},
		{"status context pending", []ghCheck{
			{State: "PENDING"},
			{State: "SUCCESS"},
		}, ChecksPending},
		{"timed out is a failure", []ghCheck{
			{Status: "COMPLETED", Conclusion: "TIMED_OUT"},
		}, ChecksFailing},
		{"only skipped checks", []ghCheck{
			{Status: "COMPLETED", Conclusion: "SKIPPED"},
		}, ChecksUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RollupChecks(tt.checks); got != tt.want {
				t.Errorf("RollupChecks = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckStateString(t *testing.T) {
	tests := []struct {
		state CheckState
		want  string
	}{
		{ChecksPassing, "passing"},
		{ChecksFailing, "failing"},
		{ChecksPending, "pending"},
		{ChecksUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestLookupPR(t *testing.T) {
	gh := func(_ context.Context, _ string, args ...string) ([]byte, error) {
		return []byte(`[{"number":42,"state":"OPEN","headRefName":"feature/x","statusCheckRollup":[{"status":"COMPLETED","conclusion":"SUCCESS"}]}]`), nil
	}
	probe := NewProbe(gitx.NewRunnerWithExecutor("", nil), gh, nil, time.Second, 1000)

	pr, err := probe.lookupPR(context.Background(), "/repo", "feature/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pr.Number != 42 {
		t.Errorf("number = %d, want 42", pr.Number)
	}
	if pr.State != "open" {
		t.Errorf("state = %q, want open", pr.State)
	}
	if pr.Checks != ChecksPassing {
		t.Errorf("checks = %v, want passing", pr.Checks)
	}
}

func TestLookupPR_NoOpenPR(t *testing.T) {
	gh := func(_ context.Context, _ string, args ...string) ([]byte, error) {
		return []byte(`[]`), nil
	}
	probe := NewProbe(gitx.NewRunnerWithExecutor("", nil), gh, nil, time.Second, 1000)

	if _, err := probe.lookupPR(context.Background(), "/repo", "main"); err == nil {
		t.Fatal("expected error for no open PR")
	}
}

func TestLookupPR_GHFailure(t *testing.T) {
	gh := func(_ context.Context, _ string, args ...string) ([]byte, error) {
		return nil, fmt.Errorf("gh not found in PATH")
	}
	probe := NewProbe(gitx.NewRunnerWithExecutor("", nil), gh, nil, time.Second, 1000)

	if _, err := probe.lookupPR(context.Background(), "/repo", "main"); err == nil {
		t.Fatal("expected error when gh is missing")
	}
}
