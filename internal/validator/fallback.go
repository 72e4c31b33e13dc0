package validator

import (
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"sitegen_server/internal/types"
	"sitegen_server/internal/utils"
)

// Fallback returns deterministic content for path. The result always
// passes the strict check for its kind.
func Fallback(p string, kind types.Kind, bp *types.Blueprint) string {
	if bp == nil {
		bp = &types.Blueprint{}
	}
	switch p {
	case "package.json":
		return packageJSON(bp)
	case "tsconfig.json":
		return tsconfigJSON
	case "next.config.js":
		return nextConfig
	case "tailwind.config.js":
		return TailwindConfig
	case "postcss.config.js":
		return PostCSSConfig
	case "app/globals.css":
		return GlobalsCSS
	case "app/layout.tsx":
		return Layout(bp)
	case "app/page.tsx":
		return homepage(bp)
	case "README.md":
		return readme(bp)
	}

	switch {
	case strings.HasPrefix(p, "app/") && strings.HasSuffix(p, "/page.tsx"):
		seg := path.Base(path.Dir(p))
		return page(utils.ComponentName(seg), titleCase(seg))
	case kind == types.KindTSX:
		name := utils.ComponentName(strings.TrimSuffix(path.Base(p), path.Ext(p)))
		return Component(name)
	case kind == types.KindCSS:
		return GlobalsCSS
	case kind == types.KindJS:
		return "const config = {}\n\nmodule.exports = config\n"
	case kind == types.KindJSON:
		return "{}\n"
	default:
		return "# " + plain(bp.Metadata.Name) + "\n"
	}
}

// plain drops characters that would unbalance brackets when interpolated
// into generated source.
func plain(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', '(', ')', '[', ']', '<', '>', '`', '$', '\\', '\n', '\r':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func quote(s string) string { return strconv.Quote(plain(s)) }

func titleCase(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	if len(words) == 0 {
		return "Page"
	}
	return strings.Join(words, " ")
}

func siteName(bp *types.Blueprint) string {
	if n := plain(bp.Metadata.Name); n != "" {
		return n
	}
	return "My App"
}

type packageManifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Private         bool              `json:"private"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func packageJSON(bp *types.Blueprint) string {
	name := utils.Slug(bp.Metadata.Name)
	name = strings.ReplaceAll(name, "/", "-")
	if name == "" {
		name = "my-app"
	}
	m := packageManifest{
		Name:    name,
		Version: "0.1.0",
		Private: true,
		Scripts: map[string]string{
			"dev":   "next dev",
			"build": "next build",
			"start": "next start",
			"lint":  "next lint",
		},
		Dependencies: map[string]string{
			"next":      "14.2.5",
			"react":     "18.3.1",
			"react-dom": "18.3.1",
		},
		DevDependencies: map[string]string{
			"@types/node":  "20.14.10",
			"@types/react": "18.3.3",
			"autoprefixer": "10.4.19",
			"postcss":      "8.4.39",
			"tailwindcss":  "3.4.6",
			"typescript":   "5.5.3",
		},
	}
	out, _ := json.MarshalIndent(m, "", "  ")
	return string(out) + "\n"
}

const tsconfigJSON = `{
  "compilerOptions": {
    "target": "ES2017",
    "lib": ["dom", "dom.iterable", "esnext"],
    "allowJs": true,
    "skipLibCheck": true,
    "strict": true,
    "noEmit": true,
    "esModuleInterop": true,
    "module": "esnext",
    "moduleResolution": "bundler",
    "resolveJsonModule": true,
    "isolatedModules": true,
    "jsx": "preserve",
    "incremental": true,
    "plugins": [{ "name": "next" }],
    "paths": { "@/*": ["./*"] }
  },
  "include": ["next-env.d.ts", "**/*.ts", "**/*.tsx", ".next/types/**/*.ts"],
  "exclude": ["node_modules"]
}
`

const nextConfig = `/** @type {import('next').NextConfig} */
const nextConfig = {
  reactStrictMode: true,
}

module.exports = nextConfig
`

// TailwindConfig is the canonical tailwind.config.js.
const TailwindConfig = `/** @type {import('tailwindcss').Config} */
module.exports = {
  content: [
    './app/**/*.{js,ts,jsx,tsx,mdx}',
    './components/**/*.{js,ts,jsx,tsx,mdx}',
    './contexts/**/*.{js,ts,jsx,tsx}',
  ],
  theme: {
    extend: {
      colors: {
        primary: '#1A73E8',
        accent: '#FF6F61',
      },
    },
  },
  plugins: [],
}
`

// PostCSSConfig is the canonical postcss.config.js.
const PostCSSConfig = `module.exports = {
  plugins: {
    tailwindcss: {},
    autoprefixer: {},
  },
}
`

// TailwindDirectives must open app/globals.css.
var TailwindDirectives = []string{
	"@tailwind base;",
	"@tailwind components;",
	"@tailwind utilities;",
}

// GlobalsCSS is the canonical app/globals.css.
const GlobalsCSS = `@tailwind base;
@tailwind components;
@tailwind utilities;

*,
*::before,
*::after {
  box-sizing: border-box;
}

html,
body {
  margin: 0;
  padding: 0;
}

body {
  font-family: Inter, system-ui, sans-serif;
  line-height: 1.5;
}

img {
  display: block;
  max-width: 100%;
}
`

// GlobalsImport is the statement app/layout.tsx needs.
const GlobalsImport = "import './globals.css'"

// Layout renders the canonical root layout.
func Layout(bp *types.Blueprint) string {
	desc := bp.Metadata.Description
	if plain(desc) == "" {
		desc = siteName(bp)
	}
	return GlobalsImport + `
import type { Metadata } from 'next'
import type { ReactNode } from 'react'

export const metadata: Metadata = {
  title: ` + strconv.Quote(siteName(bp)) + `,
  description: ` + quote(desc) + `,
}

export default function RootLayout({ children }: { children: ReactNode }) {
  return (
    <html lang="en">
      <body className="min-h-screen bg-white text-gray-900 antialiased">{children}</body>
    </html>
  )
}
`
}

func homepage(bp *types.Blueprint) string {
	features := make([]string, 0, len(bp.Features))
	for _, f := range bp.Features {
		if p := plain(f); p != "" {
			features = append(features, strconv.Quote(p))
		}
	}
	desc := plain(bp.Metadata.Description)
	if desc == "" {
		desc = "Welcome to " + siteName(bp) + "."
	}

	return `const features: string[] = [` + strings.Join(features, ", ") + `]

export default function Home() {
  return (
    <main className="mx-auto max-w-6xl px-6">
      <section className="py-24 text-center">
        <h1 className="text-5xl font-bold tracking-tight text-gray-900">` + siteName(bp) + `</h1>
        <p className="mx-auto mt-6 max-w-2xl text-lg text-gray-600">` + desc + `</p>
        <a href="/contact" className="mt-10 inline-block rounded-md bg-primary px-6 py-3 font-semibold text-white">
          Get started
        </a>
      </section>
      <section className="pb-24">
        <ul className="grid gap-6 md:grid-cols-3">
          {features.map((feature) => (
            <li key={feature} className="rounded-lg border border-gray-200 p-6 capitalize">
              {feature}
            </li>
          ))}
        </ul>
      </section>
    </main>
  )
}
`
}

func page(component, title string) string {
	return fmt.Sprintf(`export default function %sPage() {
  return (
    <main className="mx-auto max-w-5xl px-6 py-16">
      <h1 className="text-4xl font-bold text-gray-900">%s</h1>
      <p className="mt-4 text-lg text-gray-600">Content for this page is coming soon.</p>
    </main>
  )
}
`, component, plain(title))
}

// Component renders a minimal typed component named name.
func Component(name string) string {
	return fmt.Sprintf(`import type { ReactNode } from 'react'

type %[1]sProps = {
  className?: string
  children?: ReactNode
}

export default function %[1]s({ className = '', children }: %[1]sProps) {
  return (
    <div className={'rounded-lg border border-gray-200 p-4 ' + className}>
      {children ?? <span className="text-gray-700">%[1]s</span>}
    </div>
  )
}
`, name)
}

func readme(bp *types.Blueprint) string {
	return "# " + siteName(bp) + "\n\n" +
		"Generated Next.js application.\n\n" +
		"```bash\nnpm install\nnpm run dev\n```\n"
}
