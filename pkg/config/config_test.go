// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Nested struct {
	Aaa int
	Bbb string
}

type Config struct {
	Foo int
	Bar string
	Baz string `json:"-"`
	Qux []string
	Box Nested
	Boq *Nested
}

func TestLoad(t *testing.T) {
	tests := []struct {
		input  string
		output Config
		err    string
	}{
		{
			`{"foo": 42}`,
			Config{Foo: 42},
			"",
		},
		{
			`{"BAR": "Baz", "foo": 42}`,
			Config{Foo: 42, Bar: "Baz"},
			"",
		},
		{
			`{"foobar": 42}`,
			Config{},
			`unknown field "foobar"`,
		},
		{
			`{"foo": 1, "baz": "baz", "bar": "bar"}`,
			Config{},
			`unknown field "baz"`,
		},
		{
			`{"foo": 1, "box": {"aaa": 12, "bbb": "bbb"}}`,
			Config{Foo: 1, Box: Nested{Aaa: 12, Bbb: "bbb"}},
			"",
		},
		{
			`{"qux": ["aaa", "bbb"], "boq": {"aaa": 1}}`,
			Config{Qux: []string{"aaa", "bbb"}, Boq: &Nested{Aaa: 1}},
			"",
		},
		{
			`
# comment
{
	# comment
	"foo": 3 # not a comment line
}`,
			Config{},
			"invalid character",
		},
		{
			`
# comment
{
	# comment
	"foo": 3
}`,
			Config{Foo: 3},
			"",
		},
		{
			`{"foo": "1"}`,
			Config{},
			"cannot unmarshal string",
		},
	}
	for i, test := range tests {
		var cfg Config
		err := LoadData([]byte(test.input), &cfg)
		if test.err != "" {
			require.Error(t, err, "#%v", i)
			assert.Contains(t, err.Error(), test.err, "#%v", i)
			continue
		}
		require.NoError(t, err, "#%v", i)
		if diff := cmp.Diff(test.output, cfg); diff != "" {
			t.Errorf("#%v: bad config:\n%s", i, diff)
		}
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(file, []byte("foo: 7\nqux: [a, b]\nbox:\n  bbb: x\n"), 0644))
	var cfg Config
	require.NoError(t, LoadFile(file, &cfg))
	assert.Equal(t, Config{Foo: 7, Qux: []string{"a", "b"}, Box: Nested{Bbb: "x"}}, cfg)

	require.NoError(t, os.WriteFile(file, []byte("foo: 7\nfoobar: 1\n"), 0644))
	err := LoadFile(file, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "foobar"`)
}

func TestLoadErrors(t *testing.T) {
	var cfg Config
	assert.ErrorContains(t, LoadFile("", &cfg), "no config file specified")
	assert.ErrorContains(t, LoadFile(filepath.Join(t.TempDir(), "missing.json"), &cfg), "failed to read")
}
