package config

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockParser struct {
	parseFunc func(data []byte, section string) (map[string]any, error)
}

func (m *mockParser) Parse(data []byte, section string) (map[string]any, error) {
	return m.parseFunc(data, section)
}

func (m *mockParser) Extensions() []string {
	return []string{".mock"}
}

type mockDataFetcher struct {
	fetchFunc func() ([]byte, error)
}

func (m *mockDataFetcher) Fetch() ([]byte, error) {
	return m.fetchFunc()
}

func staticFetcher() *mockDataFetcher {
	return &mockDataFetcher{
		fetchFunc: func() ([]byte, error) {
			return []byte("data"), nil
		},
	}
}

func staticParser(raw map[string]any) *mockParser {
	return &mockParser{
		parseFunc: func(_ []byte, _ string) (map[string]any, error) {
			return raw, nil
		},
	}
}

type simpleConfig struct {
	Name string `yaml:"name"`
}

type childNode struct {
	TestStr  string        `yaml:"testStr"`
	TestInt  int           `yaml:"testInt"`
	Password string        `yaml:"password" env:"highSecure"`
	Timeout  time.Duration `yaml:"timeout"`
}

type rootConfig struct {
	RootValue  int       `yaml:"rootValue"`
	RangeValue int       `yaml:"rangeValue" validate:"gte=4,lte=6"`
	Optional   *float64  `yaml:"optional,omitempty"`
	ChildNode  childNode `yaml:"childNode"`
}

type configWithBoth struct {
	Name    string `yaml:"name"`
	changed bool
}

func (c *configWithBoth) SetDefaults() bool {
	if c.Name == "" {
		c.Name = "default"
		c.changed = true
	}

	return c.changed
}

func (c *configWithBoth) Validate() error {
	if c.Name == "invalid" {
		return errValidation
	}

	return nil
}

var errValidation = errors.New("validation failed")

func TestProvider_Success(t *testing.T) {
	t.Parallel()

	var gotSection string

	parser := &mockParser{
		parseFunc: func(_ []byte, section string) (map[string]any, error) {
			gotSection = section

			return map[string]any{"name": "test"}, nil
		},
	}

	provider := Provider[simpleConfig]("services:api")

	result, err := provider(parser, staticFetcher())
	require.NoError(t, err)

	assert.Equal(t, "test", result.Name)
	assert.Equal(t, "services:api", gotSection)
}

func TestProvider_TransformsRunInOrder(t *testing.T) {
	t.Parallel()

	appendName := func(suffix string) Transform {
		return func(raw map[string]any) (map[string]any, error) {
			raw["name"] = raw["name"].(string) + suffix //nolint:forcetypeassert

			return raw, nil
		}
	}

	provider := Provider[simpleConfig]("",
		WithTransform(appendName("-a")),
		WithTransform(appendName("-b")),
	)

	result, err := provider(staticParser(map[string]any{"name": "x"}), staticFetcher())
	require.NoError(t, err)

	assert.Equal(t, "x-a-b", result.Name)
}

func TestProvider_Errors(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("fetch failed")
	parseErr := errors.New("parse failed")
	transformErr := errors.New("transform failed")

	tests := []struct {
		name      string
		fetchFunc func() ([]byte, error)
		parseFunc func(data []byte, section string) (map[string]any, error)
		transform Transform
		wantErr   error
	}{
		{
			name: "fetch error",
			fetchFunc: func() ([]byte, error) {
				return nil, fetchErr
			},
			wantErr: fetchErr,
		},
		{
			name: "parse error",
			parseFunc: func(_ []byte, _ string) (map[string]any, error) {
				return nil, parseErr
			},
			wantErr: parseErr,
		},
		{
			name: "transform error",
			transform: func(map[string]any) (map[string]any, error) {
				return nil, transformErr
			},
			wantErr: transformErr,
		},
		{
			name: "validation error",
			parseFunc: func(_ []byte, _ string) (map[string]any, error) {
				return map[string]any{"name": "invalid"}, nil
			},
			wantErr: errValidation,
		},
	}

	for _, testInfo := range tests {
		t.Run(testInfo.name, func(t *testing.T) {
			t.Parallel()

			fetcher := staticFetcher()
			if testInfo.fetchFunc != nil {
				fetcher.fetchFunc = testInfo.fetchFunc
			}

			parser := staticParser(map[string]any{"name": "valid"})
			if testInfo.parseFunc != nil {
				parser.parseFunc = testInfo.parseFunc
			}

			var opts []Option
			if testInfo.transform != nil {
				opts = append(opts, WithTransform(testInfo.transform))
			}

			result, err := Provider[configWithBoth]("", opts...)(parser, fetcher)

			assert.Nil(t, result)
			require.ErrorIs(t, err, testInfo.wantErr)
		})
	}
}

func TestConstruct_WeakTyping(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"rootValue":  "22",
		"rangeValue": uint64(5),
		"optional":   "1.5",
		"childNode": map[string]any{
			"testStr": 7,
			"testInt": "-3",
			"timeout": "1m30s",
		},
	}

	cfg, err := Construct[rootConfig](raw, WithEnviron([]string{}))
	require.NoError(t, err)

	assert.Equal(t, 22, cfg.RootValue)
	assert.Equal(t, 5, cfg.RangeValue)
	require.NotNil(t, cfg.Optional)
	assert.InDelta(t, 1.5, *cfg.Optional, 0.0001)
	assert.Equal(t, "7", cfg.ChildNode.TestStr)
	assert.Equal(t, -3, cfg.ChildNode.TestInt)
	assert.Equal(t, 90*time.Second, cfg.ChildNode.Timeout)
}

func TestConstruct_DecodeError(t *testing.T) {
	t.Parallel()

	_, err := Construct[rootConfig](map[string]any{"rootValue": "not a number"}, WithEnviron([]string{}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rootValue")
}

func TestConstruct_Secrets(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		raw      map[string]any
		environ  []string
		expected string
	}{
		{
			name:     "resolved from environment",
			raw:      map[string]any{"rangeValue": 5},
			environ:  []string{"highSecure=s3cr3t"},
			expected: "s3cr3t",
		},
		{
			name:     "loaded value wins",
			raw:      map[string]any{"rangeValue": 5, "childNode": map[string]any{"password": "file"}},
			environ:  []string{"highSecure=s3cr3t"},
			expected: "file",
		},
		{
			name:     "explicit empty value wins",
			raw:      map[string]any{"rangeValue": 5, "childNode": map[string]any{"password": ""}},
			environ:  []string{"highSecure=s3cr3t"},
			expected: "",
		},
		{
			name:     "case-insensitive key counts as loaded",
			raw:      map[string]any{"rangeValue": 5, "childNode": map[string]any{"PASSWORD": "file"}},
			environ:  []string{"highSecure=s3cr3t"},
			expected: "file",
		},
		{
			name:     "unset variable leaves field empty",
			raw:      map[string]any{"rangeValue": 5},
			environ:  []string{"HIGHSECURE=other"},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := Construct[rootConfig](tc.raw, WithEnviron(tc.environ))
			require.NoError(t, err)

			assert.Equal(t, tc.expected, cfg.ChildNode.Password)
		})
	}
}

func TestConstruct_Defaults(t *testing.T) {
	t.Parallel()

	defaults := &rootConfig{
		RootValue:  100,
		RangeValue: 4,
		ChildNode:  childNode{TestStr: "fallback", TestInt: 9},
	}

	raw := map[string]any{"rootValue": 1, "childNode": map[string]any{"testStr": "x"}}

	cfg, err := Construct[rootConfig](raw, WithEnviron([]string{}), WithDefaults(defaults))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.RootValue)
	assert.Equal(t, 4, cfg.RangeValue)
	assert.Equal(t, "x", cfg.ChildNode.TestStr)
	assert.Equal(t, 9, cfg.ChildNode.TestInt)
}

type scheduleConfig struct {
	Enabled  bool       `yaml:"enabled"`
	Retries  int        `yaml:"retries"`
	StartAt  time.Time  `yaml:"startAt"`
	Fallback *childNode `yaml:"fallback"`
}

func TestConstruct_DefaultsFillOnlyMissingKeys(t *testing.T) {
	t.Parallel()

	startAt := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

	testCases := []struct {
		name     string
		raw      map[string]any
		expected scheduleConfig
	}{
		{
			name: "missing keys take defaults",
			raw:  map[string]any{},
			expected: scheduleConfig{
				Enabled:  true,
				Retries:  3,
				StartAt:  startAt,
				Fallback: &childNode{TestStr: "fallback", TestInt: 9},
			},
		},
		{
			name: "explicit zero values win",
			raw:  map[string]any{"enabled": false, "retries": 0},
			expected: scheduleConfig{
				Enabled:  false,
				Retries:  0,
				StartAt:  startAt,
				Fallback: &childNode{TestStr: "fallback", TestInt: 9},
			},
		},
		{
			name: "nested explicit zero wins",
			raw:  map[string]any{"fallback": map[string]any{"testInt": 0}},
			expected: scheduleConfig{
				Enabled:  true,
				Retries:  3,
				StartAt:  startAt,
				Fallback: &childNode{TestStr: "fallback", TestInt: 0},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			defaults := &scheduleConfig{
				Enabled:  true,
				Retries:  3,
				StartAt:  startAt,
				Fallback: &childNode{TestStr: "fallback", TestInt: 9},
			}

			cfg, err := Construct[scheduleConfig](tc.raw, WithEnviron([]string{}), WithDefaults(defaults))
			require.NoError(t, err)

			assert.Equal(t, tc.expected, *cfg)
			assert.Equal(t, 9, defaults.Fallback.TestInt)
		})
	}
}

func TestConstruct_DefaultsTypeMismatch(t *testing.T) {
	t.Parallel()

	_, err := Construct[rootConfig](map[string]any{}, WithDefaults(simpleConfig{}))

	require.ErrorIs(t, err, ErrDefaultsType)
}

func TestConstruct_StructTagValidation(t *testing.T) {
	t.Parallel()

	_, err := Construct[rootConfig](map[string]any{"rangeValue": 7}, WithEnviron([]string{}))
	require.Error(t, err)

	var validationErrors validator.ValidationErrors

	require.ErrorAs(t, err, &validationErrors)
	require.Len(t, validationErrors, 1)
	assert.Equal(t, "rangeValue", validationErrors[0].Field())
	assert.Equal(t, "lte", validationErrors[0].Tag())
}

func TestConstruct_DefaulterAndValidator(t *testing.T) {
	t.Parallel()

	cfg, err := Construct[configWithBoth](map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Name)

	_, err = Construct[configWithBoth](map[string]any{"name": "invalid"})
	require.ErrorIs(t, err, errValidation)
}

func TestConstruct_MapTarget(t *testing.T) {
	t.Parallel()

	cfg, err := Construct[map[string]any](map[string]any{"a": map[string]any{"b": 1}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a": map[string]any{"b": 1}}, *cfg)
}

func TestDecodeValue(t *testing.T) {
	t.Parallel()

	var number int

	require.NoError(t, DecodeValue("42", &number))
	assert.Equal(t, 42, number)

	var flag bool

	require.NoError(t, DecodeValue("true", &flag))
	assert.True(t, flag)

	var duration time.Duration

	require.NoError(t, DecodeValue("5s", &duration))
	assert.Equal(t, 5*time.Second, duration)

	require.Error(t, DecodeValue("abc", &number))
}

func TestParserFor(t *testing.T) {
	t.Parallel()

	parser := &mockParser{}

	testCases := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "known extension", path: "/etc/app/config.mock"},
		{name: "upper case extension", path: "config.MOCK"},
		{name: "unknown extension", path: "config.toml", wantErr: true},
		{name: "no extension", path: "config", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			selected, err := ParserFor(tc.path, parser)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedExtension)

				return
			}

			require.NoError(t, err)
			assert.Same(t, parser, selected)
		})
	}
}
