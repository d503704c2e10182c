package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/erdgen/internal/cli/config"
	"github.com/leapstack-labs/erdgen/internal/cli/output"
	clitestutil "github.com/leapstack-labs/erdgen/internal/cli/testutil"
	"github.com/leapstack-labs/erdgen/internal/testutil"
	"github.com/leapstack-labs/erdgen/pkg/translators/sqlddl"
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{cmd: NewTranslateCommand(), use: "translate <document>", flags: []string{"out", "translator", "jobs", "watch", "save-preferences"}},
		{cmd: NewTranslatorsCommand(), use: "translators"},
		{cmd: NewDialectsCommand(), use: "dialects", flags: []string{"types"}},
		{cmd: NewInspectCommand(), use: "inspect <document>"},
		{cmd: NewOrderCommand(), use: "order <document>"},
		{cmd: NewFmtCommand(), use: "fmt <document>", flags: []string{"write"}},
		{cmd: NewPrefsCommand(), use: "prefs"},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}

	// -T is the shorthand of --translator.
	assert.NotNil(t, NewTranslateCommand().Flags().ShorthandLookup("T"))
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    map[string]any
		wantErr bool
	}{
		{
			name: "spaces in keys",
			args: []string{"SQL Dialect=Oracle", " Package Name =com.shop"},
			want: map[string]any{"SQL Dialect": "Oracle", "Package Name": "com.shop"},
		},
		{name: "empty value", args: []string{"Package Path="}, want: map[string]any{"Package Path": ""}},
		{name: "value keeps equals", args: []string{"k=a=b"}, want: map[string]any{"k": "a=b"}},
		{name: "missing equals", args: []string{"Oracle"}, wantErr: true},
		{name: "empty key", args: []string{"=Oracle"}, wantErr: true},
		{name: "comma in value", args: []string{"Package Name=a,b"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignments(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarize(t *testing.T) {
	shop := testutil.NewShop(t)

	sum, err := summarize(shop.Schema)
	require.NoError(t, err)

	assert.Equal(t, "shop", sum.Name)
	require.Len(t, sum.Classes, 3)
	customer := sum.Classes[0]
	assert.Equal(t, "Customer", customer.Name)
	assert.True(t, customer.Entity)
	assert.Equal(t, output.PropertySummary{Name: "id", Type: "int", Column: "id", Key: true, AutoSeq: true}, customer.Properties[0])
	assert.Equal(t, "full_name", customer.Properties[1].Column)

	holders := map[string]string{}
	kinds := map[string]string{}
	for _, a := range sum.Associations {
		holders[a.Name] = a.Holder
		kinds[a.Name] = a.Kind
	}
	assert.Equal(t, map[string]string{"places": "Purchase", "billed": "Invoice"}, holders)
	assert.Equal(t, map[string]string{"places": "one-to-many", "billed": "one-to-one"}, kinds)
}

func TestRenderOrder_Markdown(t *testing.T) {
	shop := testutil.NewShop(t)
	plan, err := sqlddl.BuildPlan(shop.Schema, testutil.NewTestLogger(t))
	require.NoError(t, err)

	tr := clitestutil.NewTestRendererMarkdown()
	require.NoError(t, renderOrder(tr.Renderer, "shop", plan))

	out := tr.Output()
	assert.Contains(t, out, "## Level 0 (Independent)\n- Customer\n  - used by: Purchase\n")
	assert.Contains(t, out, "- Invoice\n  - depends on: Purchase\n")
	assert.Contains(t, out, "- **Order:** Customer, Purchase, Invoice")
	assert.Contains(t, out, "- **Total Dependencies:** 2")
	clitestutil.AssertValidMarkdown(t, out)
}

func TestShowPreferences(t *testing.T) {
	t.Run("empty json is a list", func(t *testing.T) {
		tr := clitestutil.NewTestRendererJSON()
		require.NoError(t, showPreferences(tr.Renderer, nil))
		assert.JSONEq(t, "[]", tr.Output())
	})

	t.Run("empty markdown", func(t *testing.T) {
		tr := clitestutil.NewTestRendererMarkdown()
		require.NoError(t, showPreferences(tr.Renderer, nil))
		assert.Contains(t, tr.Output(), "No preferences stored.")
	})

	t.Run("properties sorted", func(t *testing.T) {
		tr := clitestutil.NewTestRendererMarkdown()
		prefs := []output.PreferencesOutput{{
			Translator: "ERD to JPA",
			Properties: map[string]string{"Package Path": "./data", "Package Name": "idetest.data"},
		}}
		require.NoError(t, showPreferences(tr.Renderer, prefs))

		out := tr.Output()
		assert.Contains(t, out, "## ERD to JPA")
		assert.Less(t, strings.Index(out, "Package Name"), strings.Index(out, "Package Path"))
	})
}

func TestDescribeDialects(t *testing.T) {
	infos, err := describeDialects(true)
	require.NoError(t, err)
	require.NotEmpty(t, infos)
	for _, info := range infos {
		assert.NotEmpty(t, info.Types, info.Name)
	}

	infos, err = describeDialects(false)
	require.NoError(t, err)
	for _, info := range infos {
		assert.Empty(t, info.Types, info.Name)
	}
}

func TestStandaloneCommandLoadsConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	doc := clitestutil.WriteShopDocument(t)
	cmd := NewOrderCommand()
	cmd.Flags().String("output", "json", "")
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{doc})
	require.NoError(t, cmd.Flags().Set("output", "json"))

	require.NoError(t, cmd.Execute())

	var order output.OrderOutput
	require.NoError(t, json.Unmarshal([]byte(stdout.String()), &order))
	assert.Equal(t, "Customer", order.Tables[0])
}

func TestWatchDocument(t *testing.T) {
	doc := clitestutil.WriteShopDocument(t)
	tr := clitestutil.NewTestRendererJSON()
	cc := &CommandContext{
		Cfg:      &config.Config{OutputDir: t.TempDir()},
		Logger:   testutil.NewTestLogger(t),
		Renderer: tr.Renderer,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchDocument(ctx, cc, doc, func(context.Context) error {
			runs <- struct{}{}
			return nil
		})
	}()

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("initial run did not happen")
	}

	// Touch the document until the watcher picks up a change. The interval
	// is longer than the debounce so each write can fire.
	deadline := time.After(10 * time.Second)
	ticker := time.NewTicker(3 * watchDebounce)
	defer ticker.Stop()
	for rerun := false; !rerun; {
		select {
		case <-ticker.C:
			require.NoError(t, os.WriteFile(doc, []byte(testutil.ShopDocument), 0o600))
		case <-runs:
			rerun = true
		case <-deadline:
			t.Fatal("change was not picked up")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
