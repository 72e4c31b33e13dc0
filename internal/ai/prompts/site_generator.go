package prompts

import (
	"fmt"
	"strings"

	"sitegen_server/internal/types"
)

// SystemPrompt is sent with every file-generation request.
const SystemPrompt = `You are a senior front-end engineer generating files for a Next.js (app router) + TypeScript + TailwindCSS project. Respond with the raw file content only, without explanations.`

// FileInstructions describes what each base-structure file must contain.
var FileInstructions = map[string]string{
	"package.json":       "A package.json with name, private: true, scripts dev/build/start/lint, dependencies next, react, react-dom and devDependencies typescript, tailwindcss, postcss, autoprefixer, @types/react, @types/node. Valid JSON only.",
	"tsconfig.json":      "A tsconfig.json for a Next.js app router project with strict mode and the \"@/*\" path alias. Valid JSON only.",
	"next.config.js":     "A next.config.js exporting the Next.js config object via module.exports with reactStrictMode enabled.",
	"tailwind.config.js": "A tailwind.config.js using module.exports, content globs for ./app and ./components, and a theme.extend section with the brand colors.",
	"postcss.config.js":  "A postcss.config.js using module.exports with the tailwindcss and autoprefixer plugins.",
	"app/globals.css":    "The global stylesheet. It MUST start with @tailwind base; @tailwind components; @tailwind utilities; followed by a small set of base styles.",
	"app/layout.tsx":     "The root layout. It MUST import './globals.css', export metadata with the site title and description, and render <html><body>{children}</body></html>.",
	"app/page.tsx":       "The homepage: a default-exported React component with a hero section, a features section listing the features below, and a call to action.",
}

func describe(bp *types.Blueprint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n", bp.Metadata.Name)
	fmt.Fprintf(&b, "Domain: %s\n", bp.Metadata.Domain)
	if bp.Metadata.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", bp.Metadata.Description)
	}
	if bp.Metadata.Style != "" {
		fmt.Fprintf(&b, "Visual style: %s\n", bp.Metadata.Style)
	}
	fmt.Fprintf(&b, "Stack: %s / %s / %s\n", bp.TechStack.Framework, bp.TechStack.Styling, bp.TechStack.Language)
	if len(bp.Features) > 0 {
		fmt.Fprintf(&b, "Features: %s\n", strings.Join(bp.Features, ", "))
	}
	return b.String()
}

// GetBaseFilePrompt returns the prompt for one base-structure file.
// existing holds the files generated earlier in the same phase so later
// files (the homepage) can reference them.
func GetBaseFilePrompt(bp *types.Blueprint, path string, existing []string) string {
	instructions, ok := FileInstructions[path]
	if !ok {
		instructions = "Generate the file."
	}
	var b strings.Builder
	b.WriteString(describe(bp))
	fmt.Fprintf(&b, "\nPlease generate the file `%s`.\n\n%s\n", path, instructions)
	if len(existing) > 0 {
		fmt.Fprintf(&b, "\nFiles that already exist in the project: %s\n", strings.Join(existing, ", "))
	}
	b.WriteString("\nReturn only the content of the file. Do not wrap it in markdown fences.")
	return b.String()
}

// GetPagePrompt returns the prompt for one public page body.
func GetPagePrompt(bp *types.Blueprint, page types.PageSpec, components []string) string {
	var b strings.Builder
	b.WriteString(describe(bp))
	fmt.Fprintf(&b, "\nPlease generate the page component for route `%s` (%s).\n", page.Path, page.Name)
	b.WriteString("It must be a default-exported React function component written in TypeScript and styled with Tailwind classes.\n")
	if len(components) > 0 {
		fmt.Fprintf(&b, "You may import these existing components from '@/components': %s\n", strings.Join(components, ", "))
	}
	b.WriteString("\nReturn only the content of the file. Do not wrap it in markdown fences.")
	return b.String()
}
