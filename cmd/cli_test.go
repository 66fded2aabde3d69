package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/ponto/internal/kanban"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("PONTO_CONFIG", filepath.Join(t.TempDir(), "config.json"))
	t.Setenv("PONTO_USER_ID", "ana")
	t.Setenv("PONTO_SESSION_STORE", "memory")
}

func TestPunchAllocateAndList(t *testing.T) {
	isolate(t)

	out, err := execute(t, "punch")
	if err != nil {
		t.Fatalf("punch: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Registered entrada1 at ") {
		t.Errorf("punch output = %q", out)
	}

	out, err = execute(t, "allocate", "payroll", "--start", "08:00", "--end", "09:30", "--name", "Payroll")
	if err != nil {
		t.Fatalf("allocate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "payroll (Payroll)") || !strings.Contains(out, "1.50h") {
		t.Errorf("allocate output = %q", out)
	}

	out, err = execute(t, "today")
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if !strings.Contains(out, timecalc.DateKey(time.Now())) || !strings.Contains(out, "payroll") {
		t.Errorf("today output = %q", out)
	}

	out, err = execute(t, "allocate", "remove", "no-such-id")
	if err == nil || exitCode(err) != 2 {
		t.Errorf("remove unknown allocation: err = %v, out = %q", err, out)
	}
}

func TestCorrectionReviewFlow(t *testing.T) {
	isolate(t)

	out, err := execute(t, "correction", "submit",
		"--date", "2026-10-16",
		"--pair", "08:00-12:00",
		"--pair", "13:00-17:00",
		"--justification", "badge reader offline")
	if err != nil {
		t.Fatalf("submit: %v\n%s", err, out)
	}
	fields := strings.Fields(out)
	cardID := fields[len(fields)-1]

	out, err = execute(t, "board")
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if !strings.Contains(out, "Requested (1)") || !strings.Contains(out, cardID) {
		t.Errorf("board output = %q", out)
	}

	_, err = execute(t, "review", "approve", cardID)
	if !errors.Is(err, kanban.ErrIllegalTransition) || exitCode(err) != 1 {
		t.Errorf("approve requested card: err = %v", err)
	}

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"review", "select", cardID}, "In analysis"},
		{[]string{"review", "correct", cardID}, "Needs correction"},
		{[]string{"review", "edit", cardID, "--justification", "reader replaced"}, "Saved card"},
		{[]string{"review", "show", cardID}, "reader replaced"},
		{[]string{"review", "reanalyze", cardID}, "Requested"},
	}
	for _, s := range steps {
		out, err := execute(t, s.args...)
		if err != nil {
			t.Fatalf("%v: %v\n%s", s.args, err, out)
		}
		if !strings.Contains(out, s.want) {
			t.Errorf("%v output = %q, want it to contain %q", s.args, out, s.want)
		}
	}
}
