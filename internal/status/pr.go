// pattern: Imperative Shell

package status

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// CheckState is the coarse rollup of a pull request's CI checks.
type CheckState int

const (
	ChecksUnknown CheckState = iota
	ChecksPassing
	ChecksFailing
	ChecksPending
)

func (s CheckState) String() string {
	switch s {
	case ChecksPassing:
		return "passing"
	case ChecksFailing:
		return "failing"
	case ChecksPending:
		return "pending"
	default:
		return "unknown"
	}
}

// PullRequest is the open PR associated with a branch.
type PullRequest struct {
	Number int
	State  string
	Checks CheckState
}

// GHExecutor runs the gh CLI in a directory and returns raw stdout.
type GHExecutor func(ctx context.Context, dir string, args ...string) ([]byte, error)

// DefaultGHExecutor shells out to gh.
func DefaultGHExecutor(ctx context.Context, dir string, args ...string) ([]byte, error) {
	path, err := exec.LookPath("gh")
	if err != nil {
		return nil, fmt.Errorf("gh not found in PATH")
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return out, nil
}

type ghPR struct {
	Number            int       `json:"number"`
	State             string    `json:"state"`
	HeadRefName       string    `json:"headRefName"`
	StatusCheckRollup []ghCheck `json:"statusCheckRollup"`
}

type ghCheck struct {
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	State      string `json:"state"`
}

// lookupPR queries gh for an open PR whose head is the given branch.
// Any failure (gh missing, unauthenticated, no PR) returns an error the
// caller logs at debug and renders as "no PR".
func (p *Probe) lookupPR(ctx context.Context, dir, branch string) (*PullRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.gh(ctx, dir, "pr", "list",
		"--head", branch,
		"--state", "open",
		"--limit", "1",
		"--json", "number,state,headRefName,statusCheckRollup")
	if err != nil {
		return nil, err
	}

	var prs []ghPR
	if err := json.Unmarshal(out, &prs); err != nil {
		return nil, fmt.Errorf("parsing gh output: %w", err)
	}
	if len(prs) == 0 {
		return nil, fmt.Errorf("no open pull request for %s", branch)
	}

	pr := prs[0]
	return &PullRequest{
		Number: pr.Number,
		State:  strings.ToLower(pr.State),
		Checks: RollupChecks(pr.StatusCheckRollup),
	}, nil
}

// RollupChecks collapses individual check results into one state.
// Precedence: any failure wins, then any pending, then any success.
func RollupChecks(checks []ghCheck) CheckState {
	var pending, success bool
	for _, c := range checks {
		switch normalizeCheck(c) {
		case "FAILURE":
			return ChecksFailing
		case "PENDING":
			pending = true
		case "SUCCESS":
			success = true
		}
	}
	if pending {
		return ChecksPending
	}
	if success {
		return ChecksPassing
	}
	return ChecksUnknown
}

// normalizeCheck maps gh's mixed check/status-context shapes to one of
// FAILURE, PENDING, SUCCESS, or "".
func normalizeCheck(c ghCheck) string {
	// Status contexts report via "state"; check runs via status/conclusion.
	if state := strings.ToUpper(strings.TrimSpace(c.State)); state != "" {
		switch state {
		case "FAILURE", "ERROR":
			return "FAILURE"
		case "PENDING", "EXPECTED":
			return "PENDING"
		case "SUCCESS":
			return "SUCCESS"
		}
		return ""
	}

	status := strings.ToUpper(strings.TrimSpace(c.Status))
	if status != "" && status != "COMPLETED" {
		return "PENDING"
	}

	switch strings.ToUpper(strings.TrimSpace(c.Conclusion)) {
	case "FAILURE", "TIMED_OUT", "CANCELLED", "ACTION_REQUIRED", "STARTUP_FAILURE":
		return "FAILURE"
	case "SUCCESS":
		return "SUCCESS"
	case "":
		if status == "COMPLETED" {
			return ""
		}
		return "PENDING"
	}
	return ""
}
