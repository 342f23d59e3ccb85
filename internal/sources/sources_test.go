package sources_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscope/newscrawl/internal/domain"
	"github.com/finscope/newscrawl/internal/sources"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		targets []domain.SourceTarget
		wantErr string
	}{
		{
			name:    "empty registry",
			targets: nil,
			wantErr: "no sources configured",
		},
		{
			name:    "missing name",
			targets: []domain.SourceTarget{{OID: "009"}},
			wantErr: "name is required",
		},
		{
			name:    "missing oid",
			targets: []domain.SourceTarget{{Name: "매일경제"}},
			wantErr: "oid is required",
		},
		{
			name:    "non-numeric oid",
			targets: []domain.SourceTarget{{Name: "매일경제", OID: "abc"}},
			wantErr: "must be numeric",
		},
		{
			name: "duplicate oid",
			targets: []domain.SourceTarget{
				{Name: "매일경제", OID: "009"},
				{Name: "복제", OID: "009"},
			},
			wantErr: "share oid",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := sources.New(tt.targets)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefault_StableOrder(t *testing.T) {
	t.Parallel()

	registry := sources.Default()
	targets := registry.Targets()

	require.Equal(t, 11, registry.Len())
	assert.Equal(t, domain.SourceTarget{Name: "매일경제", OID: "009"}, targets[0])
	assert.Equal(t, domain.SourceTarget{Name: "비즈워치", OID: "648"}, targets[10])

	// Targets returns a copy; mutating it must not touch the registry.
	targets[0].Name = "변조"
	assert.Equal(t, "매일경제", registry.Targets()[0].Name)
}

func TestFilter(t *testing.T) {
	t.Parallel()

	registry := sources.Default()

	filtered, err := registry.Filter("조선비즈")
	require.NoError(t, err)
	require.Equal(t, 1, filtered.Len())
	assert.Equal(t, "366", filtered.Targets()[0].OID)

	_, err = registry.Filter("없는신문")
	assert.Error(t, err)
}

func TestLoad_FromYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.yml")
	content := `sources:
  - name: 매일경제
    oid: "009"
  - name: 조선비즈
    oid: "366"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	registry, err := sources.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, registry.Len())
	assert.Equal(t, "366", registry.Targets()[1].OID)
}

func TestLoad_MissingFileFallsBackToDefault(t *testing.T) {
	t.Parallel()

	registry, err := sources.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, sources.Default().Targets(), registry.Targets())
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.yml")
	require.NoError(t, os.WriteFile(path, []byte("sources: [\n"), 0o644))

	_, err := sources.Load(path)
	assert.Error(t, err)
}
