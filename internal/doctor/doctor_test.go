package doctor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbench/devbench/internal/executor"
	"github.com/devbench/devbench/pkg/catalog"
)

type fakeExecutor struct {
	mu      sync.Mutex
	outputs map[string]*executor.ExecResult
	calls   []string
}

func (f *fakeExecutor) Execute(ctx context.Context, command string, args []string, options executor.ExecOptions) (*executor.ExecResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := command
	for _, a := range args {
		key += " " + a
	}
	f.calls = append(f.calls, key)
	if r, ok := f.outputs[key]; ok {
		return r, nil
	}
	return &executor.ExecResult{ExitCode: 2}, nil
}

func testCatalog() *catalog.Catalog {
	return catalog.MustNew(
		catalog.Target{Name: "C", Invocation: catalog.Invocation{Command: "gcc"}},
		catalog.Target{Name: "Go", Invocation: catalog.Invocation{Command: "go"}},
		catalog.Target{Name: "Java", Invocation: catalog.Invocation{Command: "javac"}},
		catalog.Target{Name: "Zig", Invocation: catalog.Invocation{Command: "zig"}},
	)
}

func newTestDoctor(f *fakeExecutor) *Doctor {
	d := New(f, nil)
	d.lookPath = func(name string) (string, error) {
		if name == "zig" {
			return "", exec.ErrNotFound
		}
		return "/usr/bin/" + name, nil
	}
	return d
}

func TestCheck(t *testing.T) {
	f := &fakeExecutor{outputs: map[string]*executor.ExecResult{
		"gcc --version":  {Stdout: "gcc (GCC) 12.2.0\n"},
		"go version":     {Stdout: "go version go1.22.5 linux/amd64\n"},
		"javac -version": {Stderr: "javac 17.0.9\n"},
	}}

	statuses := newTestDoctor(f).Check(context.Background(), testCatalog())
	require.Len(t, statuses, 4)

	assert.Equal(t, Status{Target: "C", Command: "gcc", Path: "/usr/bin/gcc", Version: "12.2.0", Available: true}, statuses[0])
	assert.Equal(t, "1.22.5", statuses[1].Version)
	assert.Equal(t, "17.0.9", statuses[2].Version)
	assert.False(t, statuses[3].Available)
	assert.Empty(t, statuses[3].Path)

	for _, call := range f.calls {
		assert.NotContains(t, call, "zig", "missing tools are not executed")
	}
}

func TestCheck_FallsBackToNextVersionFlag(t *testing.T) {
	f := &fakeExecutor{outputs: map[string]*executor.ExecResult{
		"gcc version": {Stdout: "12.1"},
	}}
	c := catalog.MustNew(catalog.Target{Name: "C", Invocation: catalog.Invocation{Command: "gcc"}})

	statuses := newTestDoctor(f).Check(context.Background(), c)
	assert.Equal(t, "12.1.0", statuses[0].Version)
	assert.True(t, statuses[0].Available)
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"rustc 1.79.0 (129f3b996 2024-06-10)", "1.79.0"},
		{"go version go1.22 linux/amd64", "1.22.0"},
		{"g++ (GCC) 13.2.1 20230801", "13.2.1"},
		{"openjdk 21.0.2-ea", "21.0.2"},
		{"gcc (Ubuntu 11.4.0-1ubuntu1~22.04) 11.4.0", "11.4.0"},
		{"no version here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVersion(tt.output))
		})
	}
}

func TestSummaryAndTable(t *testing.T) {
	statuses := []Status{
		{Target: "C", Command: "gcc", Available: true, Version: "12.2.0", Path: "/usr/bin/gcc"},
		{Target: "Zig", Command: "zig"},
	}

	assert.Equal(t, "1 of 2 toolchains missing: Zig", Summary(statuses))
	assert.Equal(t, "All 1 toolchains are available.", Summary(statuses[:1]))
	assert.Len(t, Missing(statuses), 1)

	var buf bytes.Buffer
	WriteTable(&buf, statuses)
	assert.Contains(t, buf.String(), "missing")
	assert.Contains(t, buf.String(), "12.2.0")
}

func TestNew_UsesRealLookPath(t *testing.T) {
	d := New(&fakeExecutor{}, nil)
	_, err := d.lookPath("devbench-no-such-tool")
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}
