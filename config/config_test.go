package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/chrisuehlinger/webconform/harness"
)

func TestNewConfig(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, "webconform", c.Profile.String)
	assert.False(t, c.Profile.Valid)
	assert.Equal(t, harness.DefaultPageTimeout, c.PageTimeout.Duration)
	assert.Equal(t, "info", c.LogLevel.String)
	assert.Equal(t, "text", c.LogFormat.String)
	assert.NoError(t, c.Validate())
}

func TestApply(t *testing.T) {
	base := NewConfig()
	result := base.Apply(Config{
		Profile:            null.StringFrom("firefox"),
		PageTimeout:        NullDurationFrom(time.Second),
		MaxTimerIterations: null.IntFrom(0),
		LogLevel:           null.StringFrom(""),
		NoColor:            null.BoolFrom(false),
		Suites:             []string{"a.yaml"},
	})
	assert.Equal(t, "firefox", result.Profile.String)
	assert.Equal(t, time.Second, result.PageTimeout.Duration)
	assert.Equal(t, base.MaxTimerIterations, result.MaxTimerIterations, "non-positive iterations are ignored")
	assert.Equal(t, "info", result.LogLevel.String, "empty strings are ignored")
	assert.True(t, result.NoColor.Valid)
	assert.Equal(t, []string{"a.yaml"}, result.Suites)

	assert.Equal(t, result, result.Apply(Config{}))
}

func TestReadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/webconform.yaml", []byte(`
profile: chrome
userAgent: Custom/1.0
pageTimeout: 2s
maxTimerIterations: 500
logLevel: debug
logFormat: json
noColor: true
suites:
  - one.yaml
  - two.yaml
`), 0o644))

	c, err := ReadFile(fs, "/etc/webconform.yaml")
	require.NoError(t, err)
	assert.Equal(t, null.StringFrom("chrome"), c.Profile)
	assert.Equal(t, null.StringFrom("Custom/1.0"), c.UserAgent)
	assert.Equal(t, NullDurationFrom(2*time.Second), c.PageTimeout)
	assert.Equal(t, null.IntFrom(500), c.MaxTimerIterations)
	assert.Equal(t, null.StringFrom("debug"), c.LogLevel)
	assert.Equal(t, null.StringFrom("json"), c.LogFormat)
	assert.Equal(t, null.BoolFrom(true), c.NoColor)
	assert.Equal(t, []string{"one.yaml", "two.yaml"}, c.Suites)
}

func TestReadFileErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := ReadFile(fs, "/missing.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/unknown.yaml", []byte("colour: red\n"), 0o644))
	_, err = ReadFile(fs, "/unknown.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/duration.yaml", []byte("pageTimeout: soon\n"), 0o644))
	_, err = ReadFile(fs, "/duration.yaml")
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	c, err := FromEnv(map[string]string{
		"WEBCONFORM_PROFILE":              "edge",
		"WEBCONFORM_PAGE_TIMEOUT":         "750ms",
		"WEBCONFORM_MAX_TIMER_ITERATIONS": "42",
		"WEBCONFORM_NO_COLOR":             "true",
		"WEBCONFORM_SUITES":               "a.yaml,b.yaml",
		"UNRELATED":                       "x",
	})
	require.NoError(t, err)
	assert.Equal(t, null.StringFrom("edge"), c.Profile)
	assert.Equal(t, NullDurationFrom(750*time.Millisecond), c.PageTimeout)
	assert.Equal(t, null.IntFrom(42), c.MaxTimerIterations)
	assert.Equal(t, null.BoolFrom(true), c.NoColor)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, c.Suites)
	assert.False(t, c.LogLevel.Valid)

	_, err = FromEnv(map[string]string{"WEBCONFORM_MAX_TIMER_ITERATIONS": "many"})
	assert.Error(t, err)
}

func TestLoadLayering(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte("profile: chrome\nlogLevel: warn\n"), 0o644))

	c, err := Load(fs, "/c.yaml", map[string]string{"WEBCONFORM_LOG_LEVEL": "debug"})
	require.NoError(t, err)
	assert.Equal(t, "chrome", c.Profile.String)
	assert.Equal(t, "debug", c.LogLevel.String)
	assert.Equal(t, "text", c.LogFormat.String)

	c, err = Load(fs, "", nil)
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), c)

	_, err = Load(fs, "/nope.yaml", nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := map[string]Config{
		"profile":    NewConfig().Apply(Config{Profile: null.StringFrom("netscape")}),
		"log level":  NewConfig().Apply(Config{LogLevel: null.StringFrom("loud")}),
		"log format": NewConfig().Apply(Config{LogFormat: null.StringFrom("xml")}),
		"timeout":    NewConfig().Apply(Config{PageTimeout: NullDurationFrom(-time.Second)}),
	}
	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, c.Validate())
		})
	}
}

func TestClientOptions(t *testing.T) {
	c := NewConfig().Apply(Config{
		Profile:   null.StringFrom("firefox"),
		UserAgent: null.StringFrom("Custom/2.0"),
	})
	opts, err := c.ClientOptions(logrus.New())
	require.NoError(t, err)

	client, err := harness.NewWebClient(append(opts, harness.WithConnection(harness.NewMockConnection()))...)
	require.NoError(t, err)
	assert.Equal(t, "firefox", client.Profile().Name)
	assert.Equal(t, "Custom/2.0", client.Profile().UserAgent)

	_, err = NewConfig().Apply(Config{Profile: null.StringFrom("netscape")}).ClientOptions(logrus.New())
	assert.Error(t, err)
}
