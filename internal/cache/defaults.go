package cache

import "sitegen_server/internal/types"

// DefaultArtifacts is the seed set written to an empty store.
func DefaultArtifacts() []types.CachedArtifact {
	seed := []struct{ name, code string }{
		{"Button", buttonTSX},
		{"Card", cardTSX},
		{"Navbar", navbarTSX},
		{"Footer", footerTSX},
		{"Hero", heroTSX},
	}
	out := make([]types.CachedArtifact, 0, len(seed))
	for _, s := range seed {
		out = append(out, types.CachedArtifact{
			Name:    s.name,
			Code:    s.code,
			Style:   DefaultStyle,
			Tech:    DefaultTech,
			Version: 1,
		})
	}
	return out
}

const buttonTSX = `import type { ButtonHTMLAttributes } from 'react'

type ButtonProps = ButtonHTMLAttributes<HTMLButtonElement> & {
  variant?: 'primary' | 'secondary'
}

export default function Button({ variant = 'primary', className = '', ...props }: ButtonProps) {
  const styles =
    variant === 'primary'
      ? 'bg-primary text-white hover:opacity-90'
      : 'border border-gray-300 text-gray-900 hover:bg-gray-50'
  return <button className={'rounded-md px-4 py-2 font-medium transition ' + styles + ' ' + className} {...props} />
}
`

const cardTSX = `import type { ReactNode } from 'react'

type CardProps = {
  title?: string
  children: ReactNode
}

export default function Card({ title, children }: CardProps) {
  return (
    <div className="rounded-lg border border-gray-200 bg-white p-6 shadow-sm">
      {title && <h3 className="mb-2 text-lg font-semibold text-gray-900">{title}</h3>}
      <div className="text-gray-600">{children}</div>
    </div>
  )
}
`

const navbarTSX = `import Link from 'next/link'

type NavbarProps = {
  brand: string
  links: { href: string; label: string }[]
}

export default function Navbar({ brand, links }: NavbarProps) {
  return (
    <nav className="border-b border-gray-200 bg-white">
      <div className="mx-auto flex max-w-6xl items-center justify-between px-6 py-4">
        <Link href="/" className="text-xl font-bold text-gray-900">
          {brand}
        </Link>
        <ul className="flex gap-6">
          {links.map((link) => (
            <li key={link.href}>
              <Link href={link.href} className="text-gray-600 hover:text-gray-900">
                {link.label}
              </Link>
            </li>
          ))}
        </ul>
      </div>
    </nav>
  )
}
`

const footerTSX = `type FooterProps = {
  brand: string
}

export default function Footer({ brand }: FooterProps) {
  const year = new Date().getFullYear()
  return (
    <footer className="border-t border-gray-200 py-8 text-center text-sm text-gray-500">
      &copy; {year} {brand}. All rights reserved.
    </footer>
  )
}
`

const heroTSX = `type HeroProps = {
  title: string
  subtitle?: string
  ctaLabel?: string
  ctaHref?: string
}

export default function Hero({ title, subtitle, ctaLabel = 'Get started', ctaHref = '/' }: HeroProps) {
  return (
    <section className="bg-gradient-to-b from-white to-gray-50 py-24 text-center">
      <h1 className="text-5xl font-bold tracking-tight text-gray-900">{title}</h1>
      {subtitle && <p className="mx-auto mt-6 max-w-2xl text-lg text-gray-600">{subtitle}</p>}
      <a href={ctaHref} className="mt-10 inline-block rounded-md bg-primary px-6 py-3 font-semibold text-white">
        {ctaLabel}
      </a>
    </section>
  )
}
`
