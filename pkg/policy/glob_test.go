package policy_test

import (
	"testing"

	"github.com/aretw0/orxa/pkg/policy"
	"github.com/stretchr/testify/assert"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		target  string
		want    bool
	}{
		{"src/*.ts", "src/test.ts", true},
		{"src/*.ts", "src/nested/test.ts", false},
		{"src/**/*.ts", "src/nested/test.ts", true},
		{".orxa/plans/*.md", ".orxa/plans/test.md", true},
		{".orxa/plans/*.md", ".orxa/plans/deep/test.md", false},
		{".orxa/plans/*.md", ".orxa/plans/notes.txt", false},
		{"./docs/*.md", "docs/a.md", true},
		{"*", ".hidden", true},
		{"[", "anything", false},
		{"", "src/a.ts", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.MatchGlob(tt.pattern, tt.target))
		})
	}
}

func TestValidPattern(t *testing.T) {
	assert.True(t, policy.ValidPattern(".orxa/plans/*.md"))
	assert.True(t, policy.ValidPattern("src/**/{a,b}.go"))
	assert.False(t, policy.ValidPattern("src/[a.go"))
}

func TestNormalizeTarget(t *testing.T) {
	tests := []struct {
		raw  string
		dir  string
		want string
	}{
		{raw: "./src/a.go", want: "src/a.go"},
		{raw: `src\win\a.go`, want: "src/win/a.go"},
		{raw: "src/../docs/a.md", want: "docs/a.md"},
		{raw: "/repo/.orxa/plans/p.md", dir: "/repo", want: ".orxa/plans/p.md"},
		{raw: "/repo/.orxa/plans/p.md", dir: "/repo/", want: ".orxa/plans/p.md"},
		{raw: "/elsewhere/p.md", dir: "/repo", want: "/elsewhere/p.md"},
		{raw: "/repository/p.md", dir: "/repo", want: "/repository/p.md"},
		{raw: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.NormalizeTarget(tt.raw, tt.dir))
		})
	}
}
