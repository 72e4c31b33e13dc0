package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sitegen_server/internal/types"
)

func TestDetermineKind(t *testing.T) {
	tests := []struct {
		path string
		want types.Kind
	}{
		{"package.json", types.KindJSON},
		{"app/globals.css", types.KindCSS},
		{"app/layout.tsx", types.KindTSX},
		{"lib/store.ts", types.KindTSX},
		{"tailwind.config.js", types.KindJS},
		{"next.config.mjs", types.KindJS},
		{"README.md", types.KindMD},
		{"Dockerfile", types.KindMD},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineKind(tt.path))
		})
	}
}

func TestIsConfigFile(t *testing.T) {
	assert.True(t, IsConfigFile("tailwind.config.js"))
	assert.True(t, IsConfigFile("./postcss.config.js"))
	assert.False(t, IsConfigFile("app/config.tsx"))
}

func TestComponentName(t *testing.T) {
	assert.Equal(t, "ProductCard", ComponentName("product card"))
	assert.Equal(t, "UserMenu", ComponentName("user-menu"))
	assert.Equal(t, "Hero", ComponentName("Hero"))
	assert.Equal(t, "Grid", ComponentName("3grid"))
	assert.Equal(t, "Component", ComponentName("!!"))
}

func TestPagePath(t *testing.T) {
	assert.Equal(t, "app/page.tsx", PagePath("/"))
	assert.Equal(t, "app/about/page.tsx", PagePath("/about"))
	assert.Equal(t, "app/shop/cart/page.tsx", PagePath("/shop/cart"))
	assert.Equal(t, "app/contact-us/page.tsx", PagePath("/Contact Us"))
}
