package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runApp(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.Reader = strings.NewReader(input)
	cmd.Writer = &out
	cmd.ErrWriter = &errOut

	err := cmd.Run(context.Background(), append([]string{"todo"}, args...))
	return out.String(), errOut.String(), err
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TODO_DB_DRIVER", "TODO_DB_DSN", "TODO_STORE_BACKEND", "TODO_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestRootCommand_PersistsAcrossRuns(t *testing.T) {
	clearEnv(t)
	dsn := filepath.Join(t.TempDir(), "todo.db")

	tests := []struct {
		name  string
		input string
		args  []string
		want  []string
	}{
		{
			name:  "add with sql backend",
			input: "1\nBuy lunch\n1\nCall mom\n0\n",
			args:  []string{"--dsn", dsn},
			want:  []string{"Task added successfully!", "Goodbye"},
		},
		{
			name:  "read back with gorm backend",
			input: "2\n0\n",
			args:  []string{"--dsn", dsn, "--backend", "gorm"},
			want:  []string{"Buy lunch", "Call mom", "PENDING"},
		},
		{
			name:  "update and search",
			input: "3\n1\n\nCOMPLETED\n5\nlunch\n0\n",
			args:  []string{"--driver", "sqlite3", "--dsn", dsn},
			want:  []string{"Task updated successfully!", "--- Search Results ---", "COMPLETED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := runApp(t, tt.input, tt.args...)
			if err != nil {
				t.Fatalf("run: %v (stderr %q)", err, errOut)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output is missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestRootCommand_ConfigErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown backend", []string{"--dsn", ":memory:", "--backend", "bolt"}},
		{"unknown driver", []string{"--driver", "oracle"}},
		{"missing explicit env file", []string{"--env-file", filepath.Join(t.TempDir(), "absent.env")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runApp(t, "0\n", tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRootCommand_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("TODO_DB_DSN")
	dir := t.TempDir()
	envFile := filepath.Join(dir, "todo.env")
	dsn := filepath.Join(dir, "from-env.db")
	if err := os.WriteFile(envFile, []byte("TODO_DB_DSN="+dsn+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, errOut, err := runApp(t, "1\nFrom env file\n0\n", "--env-file", envFile); err != nil {
		t.Fatalf("run: %v (stderr %q)", err, errOut)
	}
	if _, err := os.Stat(dsn); err != nil {
		t.Errorf("expected database at %s: %v", dsn, err)
	}
}
