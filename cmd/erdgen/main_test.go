package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/erdgen/internal/cli"
	"github.com/leapstack-labs/erdgen/internal/cli/config"
	"github.com/leapstack-labs/erdgen/internal/cli/output"
	clitestutil "github.com/leapstack-labs/erdgen/internal/cli/testutil"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "erdgen v")
}

func TestHelpCommand(t *testing.T) {
	out, _, err := run(t, "--help")
	require.NoError(t, err)

	for _, cmd := range []string{"translate", "translators", "dialects", "inspect", "order", "fmt", "prefs", "doctor", "init"} {
		assert.Contains(t, out, cmd)
	}
}

func TestTranslateCommand_SQL(t *testing.T) {
	doc := clitestutil.WriteShopDocument(t)
	out := t.TempDir()

	_, stderr, err := run(t, "translate", doc, "-T", "sql", "--out", out, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, stderr, "ERD to SQL: shop -> "+out)

	script, err := os.ReadFile(filepath.Join(out, "GeneratedDDL.sql"))
	require.NoError(t, err)
	// The document stores PostgreSQL as its dialect.
	assert.Contains(t, string(script), "CREATE TABLE Customer (")
	assert.Contains(t, string(script), "DECIMAL(19, 0) NOT NULL UNIQUE PRIMARY KEY")
}

func TestTranslateCommand_JavaAndJSON(t *testing.T) {
	doc := clitestutil.WriteShopDocument(t)
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "data"), 0o750))

	stdout, _, err := run(t, "translate", doc, "-T", "java", "-T", "ERD to SQL", "--out", out, "-o", "json")
	require.NoError(t, err)

	var result output.TranslateOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "shop", result.Schema)
	assert.ElementsMatch(t, []string{"ERD to JPA", "ERD to SQL"}, result.Translators)

	assert.FileExists(t, filepath.Join(out, "data", "Customer.java"))
	assert.FileExists(t, filepath.Join(out, "data", "Invoice.java"))
	assert.FileExists(t, filepath.Join(out, "GeneratedDDL.sql"))
}

func TestTranslateCommand_SavePreferences(t *testing.T) {
	doc := clitestutil.WriteShopDocument(t)
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "data"), 0o750))

	_, _, err := run(t, "translate", doc, "-T", "java", "--out", out, "--save-preferences")
	require.NoError(t, err)

	stdout, _, err := run(t, "prefs", "show", doc, "-o", "json")
	require.NoError(t, err)

	var prefs []output.PreferencesOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &prefs))
	names := make([]string, len(prefs))
	for i, p := range prefs {
		names[i] = p.Translator
	}
	assert.ElementsMatch(t, []string{"ERD to SQL", "ERD to JPA"}, names)
}

func TestTranslateCommand_Errors(t *testing.T) {
	doc := clitestutil.WriteShopDocument(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no translator", args: []string{"translate", doc}, wantErr: "no translator selected"},
		{name: "unknown translator", args: []string{"translate", doc, "-T", "cobol"}, wantErr: "cobol"},
		{name: "watch with save", args: []string{"translate", doc, "-T", "sql", "--watch", "--save-preferences"}, wantErr: "--watch"},
		{name: "missing document", args: []string{"translate", filepath.Join(t.TempDir(), "none.xem"), "-T", "sql"}, wantErr: "failed to read"},
		{name: "bad output mode", args: []string{"translate", doc, "-T", "sql", "-o", "html"}, wantErr: "output"},
		{name: "missing package dir", args: []string{"translate", doc, "-T", "java", "--out", t.TempDir()}, wantErr: "Package Path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInspectCommand(t *testing.T) {
	doc := clitestutil.WriteShopDocument(t)

	t.Run("json", func(t *testing.T) {
		stdout, _, err := run(t, "inspect", doc, "-o", "json")
		require.NoError(t, err)

		var summary output.SchemaSummary
		require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
		assert.Equal(t, "shop", summary.Name)
		assert.Len(t, summary.Classes, 4)
		assert.Len(t, summary.Associations, 2)
	})

	t.Run("yaml", func(t *testing.T) {
		stdout, _, err := run(t, "inspect", doc, "-o", "yaml")
		require.NoError(t, err)

		var summary output.SchemaSummary
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &summary))
		assert.Equal(t, "shop", summary.Name)
	})

	t.Run("markdown", func(t *testing.T) {
		stdout, _, err := run(t, "inspect", doc, "-o", "markdown")
		require.NoError(t, err)
		clitestutil.AssertNoANSI(t, stdout)
		clitestutil.AssertValidMarkdown(t, stdout)
		assert.Contains(t, stdout, "Customer")
		assert.Contains(t, stdout, "full_name")
	})
}

func TestOrderCommand(t *testing.T) {
	doc := clitestutil.WriteShopDocument(t)

	stdout, _, err := run(t, "order", doc, "-o", "json")
	require.NoError(t, err)

	var order output.OrderOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &order))
	assert.Equal(t, []string{"Customer", "Purchase", "Invoice"}, order.Tables)
	assert.Equal(t, 3, order.TotalTables)
	assert.Equal(t, 2, order.TotalEdges)
	require.Len(t, order.Levels, 3)
	assert.Equal(t, "Customer", order.Levels[0].Tables[0].Name)
	assert.Equal(t, []string{"Purchase"}, order.Levels[0].Tables[0].UsedBy)
}

func TestDoctorCommand(t *testing.T) {
	doc := clitestutil.WriteShopDocument(t)

	stdout, _, err := run(t, "doctor", doc, "-o", "json")
	require.NoError(t, err)

	var report struct {
		Score   int `json:"score"`
		Summary struct {
			Classes  int `json:"classes"`
			Entities int `json:"entities"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 100, report.Score)
	assert.Equal(t, 4, report.Summary.Classes)
	assert.Equal(t, 3, report.Summary.Entities)
}

func TestInitExampleTranslates(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, _, err := run(t, "init", "--example")
	require.NoError(t, err)

	_, _, err = run(t, "translate", "shop.xem")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "build", "GeneratedDDL.sql"))
	assert.FileExists(t, filepath.Join(dir, "build", "data", "Purchase.java"))
}

func TestFmtCommand(t *testing.T) {
	doc := clitestutil.WriteShopDocument(t)

	stdout, _, err := run(t, "fmt", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, `<Schema Name="shop">`)
	assert.Contains(t, stdout, "ErdModelEntity")

	_, stderr, err := run(t, "fmt", doc, "--write")
	require.NoError(t, err)
	assert.Contains(t, stderr, "formatted")

	written, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(stdout), strings.TrimSpace(string(written)))
}

func TestPrefsCommands(t *testing.T) {
	doc := clitestutil.WriteShopDocument(t)

	_, _, err := run(t, "prefs", "set", doc, "--translator", "ERD to SQL", "SQL Dialect=Oracle")
	require.NoError(t, err)

	stdout, _, err := run(t, "prefs", "show", doc, "-o", "json")
	require.NoError(t, err)

	var prefs []output.PreferencesOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &prefs))
	require.Len(t, prefs, 1)
	assert.Equal(t, "Oracle", prefs[0].Properties["SQL Dialect"])

	_, _, err = run(t, "prefs", "set", doc, "--translator", "ERD to SQL", "Colour=blue")
	assert.Error(t, err)

	_, _, err = run(t, "prefs", "set", doc, "--translator", "ERD to SQL", "no-equals-sign")
	assert.Error(t, err)
}

func TestDialectsCommand(t *testing.T) {
	stdout, _, err := run(t, "dialects", "--types", "-o", "yaml")
	require.NoError(t, err)

	var dialects []output.DialectInfo
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &dialects))
	names := make([]string, len(dialects))
	for i, d := range dialects {
		names[i] = d.Name
		assert.NotEmpty(t, d.Types, d.Name)
	}
	assert.ElementsMatch(t, []string{"MySQL", "Oracle", "PostgreSQL"}, names)
}

func TestTranslatorsCommand(t *testing.T) {
	stdout, _, err := run(t, "translators", "-o", "json")
	require.NoError(t, err)

	var infos []output.TranslatorInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.Len(t, infos, 2)

	targets := map[string]string{}
	for _, info := range infos {
		targets[info.Name] = info.Target
		assert.NotEmpty(t, info.Properties)
	}
	assert.Equal(t, map[string]string{"ERD to JPA": "java", "ERD to SQL": "sql"}, targets)
}

func TestConfigFile(t *testing.T) {
	doc := clitestutil.WriteShopDocument(t)
	out := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "erdgen.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
output_dir: `+out+`
translators: [sql]
output: json
properties:
  ERD to SQL:
    SQL DDL Script Name: shop.sql
`), 0o600))

	stdout, _, err := run(t, "--config", cfg, "translate", doc)
	require.NoError(t, err)

	var result output.TranslateOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, out, result.OutputDir)
	assert.FileExists(t, filepath.Join(out, "shop.sql"))
}
