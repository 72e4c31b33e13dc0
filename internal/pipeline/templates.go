package pipeline

import (
	"sitegen_server/internal/types"
)

// template is a deterministic artifact rendered without a model call.
type template struct {
	Name string
	Role string // cache namespace; empty for templates that are never cached
	Path string
	Code string
}

func stateTemplates(bp *types.Blueprint) []template {
	out := []template{{Name: "ThemeContext", Path: "contexts/ThemeContext.tsx", Code: themeContextTSX}}
	if bp.Metadata.Domain == types.DomainEcommerce || bp.HasFeature("cart") {
		out = append(out, template{Name: "CartContext", Path: "contexts/CartContext.tsx", Code: cartContextTSX})
	}
	if bp.Metadata.Domain == types.DomainSaaS || bp.HasFeature("auth") {
		out = append(out, template{Name: "AuthContext", Path: "contexts/AuthContext.tsx", Code: authContextTSX})
	}
	return out
}

var businessByDomain = map[types.Domain][]string{
	types.DomainEcommerce:  {"ProductCard", "ProductGrid", "CartSummary"},
	types.DomainSaaS:       {"PricingTable", "FeatureGrid", "StatsPanel"},
	types.DomainPortfolio:  {"ProjectCard", "SkillList"},
	types.DomainBlog:       {"PostCard", "PostList"},
	types.DomainRestaurant: {"MenuItem", "OpeningHours"},
	types.DomainLanding:    {"FeatureGrid", "CallToAction"},
}

var businessCode = map[string]string{
	"ProductCard":  productCardTSX,
	"ProductGrid":  productGridTSX,
	"CartSummary":  cartSummaryTSX,
	"PricingTable": pricingTableTSX,
	"FeatureGrid":  featureGridTSX,
	"StatsPanel":   statsPanelTSX,
	"ProjectCard":  projectCardTSX,
	"SkillList":    skillListTSX,
	"PostCard":     postCardTSX,
	"PostList":     postListTSX,
	"MenuItem":     menuItemTSX,
	"OpeningHours": openingHoursTSX,
	"CallToAction": callToActionTSX,
}

func businessTemplates(bp *types.Blueprint) []template {
	var out []template
	for _, name := range businessByDomain[bp.Metadata.Domain] {
		out = append(out, template{Name: name, Role: roleBusiness, Path: "components/business/" + name + ".tsx", Code: businessCode[name]})
	}
	return out
}

// Extended templates in emission order, keyed by blueprint feature.
var extendedFeatures = []struct {
	Feature string
	Name    string
	Code    string
}{
	{"search", "SearchBar", searchBarTSX},
	{"newsletter", "NewsletterSignup", newsletterTSX},
	{"testimonials", "Testimonials", testimonialsTSX},
	{"faq", "FAQ", faqTSX},
	{"contact", "ContactForm", contactFormTSX},
	{"gallery", "Gallery", galleryTSX},
}

func extendedTemplates(bp *types.Blueprint) []template {
	var out []template
	for _, f := range extendedFeatures {
		if bp.HasFeature(f.Feature) {
			out = append(out, template{Name: f.Name, Role: roleFeature, Path: "components/features/" + f.Name + ".tsx", Code: f.Code})
		}
	}
	return out
}

const themeContextTSX = `'use client'

import { createContext, useContext, useState } from 'react'
import type { ReactNode } from 'react'

type Theme = 'light' | 'dark'

type ThemeContextValue = {
  theme: Theme
  toggle: () => void
}

const ThemeContext = createContext<ThemeContextValue | undefined>(undefined)

export function ThemeProvider({ children }: { children: ReactNode }) {
  const [theme, setTheme] = useState<Theme>('light')
  const toggle = () => setTheme((t) => (t === 'light' ? 'dark' : 'light'))
  return <ThemeContext.Provider value={{ theme, toggle }}>{children}</ThemeContext.Provider>
}

export function useTheme() {
  const ctx = useContext(ThemeContext)
  if (!ctx) {
    throw new Error('useTheme must be used inside ThemeProvider')
  }
  return ctx
}
`

const cartContextTSX = `'use client'

import { createContext, useContext, useMemo, useState } from 'react'
import type { ReactNode } from 'react'

export type CartItem = {
  id: string
  name: string
  price: number
  quantity: number
}

type CartContextValue = {
  items: CartItem[]
  total: number
  add: (item: CartItem) => void
  remove: (id: string) => void
  clear: () => void
}

const CartContext = createContext<CartContextValue | undefined>(undefined)

export function CartProvider({ children }: { children: ReactNode }) {
  const [items, setItems] = useState<CartItem[]>([])

  const add = (item: CartItem) =>
    setItems((prev) => {
      const existing = prev.find((i) => i.id === item.id)
      if (existing) {
        return prev.map((i) => (i.id === item.id ? { ...i, quantity: i.quantity + item.quantity } : i))
      }
      return [...prev, item]
    })
  const remove = (id: string) => setItems((prev) => prev.filter((i) => i.id !== id))
  const clear = () => setItems([])
  const total = useMemo(() => items.reduce((sum, i) => sum + i.price * i.quantity, 0), [items])

  return <CartContext.Provider value={{ items, total, add, remove, clear }}>{children}</CartContext.Provider>
}

export function useCart() {
  const ctx = useContext(CartContext)
  if (!ctx) {
    throw new Error('useCart must be used inside CartProvider')
  }
  return ctx
}
`

const authContextTSX = `'use client'

import { createContext, useContext, useState } from 'react'
import type { ReactNode } from 'react'

export type User = {
  id: string
  email: string
  name?: string
}

type AuthContextValue = {
  user: User | null
  signIn: (user: User) => void
  signOut: () => void
}

const AuthContext = createContext<AuthContextValue | undefined>(undefined)

export function AuthProvider({ children }: { children: ReactNode }) {
  const [user, setUser] = useState<User | null>(null)
  const signIn = (u: User) => setUser(u)
  const signOut = () => setUser(null)
  return <AuthContext.Provider value={{ user, signIn, signOut }}>{children}</AuthContext.Provider>
}

export function useAuth() {
  const ctx = useContext(AuthContext)
  if (!ctx) {
    throw new Error('useAuth must be used inside AuthProvider')
  }
  return ctx
}
`

const productCardTSX = `export type Product = {
  id: string
  name: string
  price: number
  image?: string
}

export default function ProductCard({ product }: { product: Product }) {
  return (
    <div className="overflow-hidden rounded-lg border border-gray-200 bg-white">
      {product.image && <img src={product.image} alt={product.name} className="h-48 w-full object-cover" />}
      <div className="p-4">
        <h3 className="font-semibold text-gray-900">{product.name}</h3>
        <p className="mt-1 text-primary">{'$' + product.price.toFixed(2)}</p>
      </div>
    </div>
  )
}
`

const productGridTSX = `import ProductCard from './ProductCard'
import type { Product } from './ProductCard'

export default function ProductGrid({ products }: { products: Product[] }) {
  return (
    <div className="grid gap-6 sm:grid-cols-2 lg:grid-cols-4">
      {products.map((product) => (
        <ProductCard key={product.id} product={product} />
      ))}
    </div>
  )
}
`

const cartSummaryTSX = `type CartSummaryProps = {
  itemCount: number
  total: number
}

export default function CartSummary({ itemCount, total }: CartSummaryProps) {
  return (
    <div className="rounded-lg border border-gray-200 p-6">
      <p className="text-gray-600">{itemCount} items</p>
      <p className="mt-2 text-2xl font-bold text-gray-900">{'$' + total.toFixed(2)}</p>
      <button className="mt-4 w-full rounded-md bg-primary py-2 font-semibold text-white">Checkout</button>
    </div>
  )
}
`

const pricingTableTSX = `export type Plan = {
  name: string
  price: string
  features: string[]
}

export default function PricingTable({ plans }: { plans: Plan[] }) {
  return (
    <div className="grid gap-6 md:grid-cols-3">
      {plans.map((plan) => (
        <div key={plan.name} className="rounded-lg border border-gray-200 p-6">
          <h3 className="text-lg font-semibold">{plan.name}</h3>
          <p className="mt-2 text-3xl font-bold">{plan.price}</p>
          <ul className="mt-4 space-y-2 text-gray-600">
            {plan.features.map((f) => (
              <li key={f}>{f}</li>
            ))}
          </ul>
        </div>
      ))}
    </div>
  )
}
`

const featureGridTSX = `export type Feature = {
  title: string
  description: string
}

export default function FeatureGrid({ features }: { features: Feature[] }) {
  return (
    <div className="grid gap-8 md:grid-cols-3">
      {features.map((feature) => (
        <div key={feature.title}>
          <h3 className="text-lg font-semibold text-gray-900">{feature.title}</h3>
          <p className="mt-2 text-gray-600">{feature.description}</p>
        </div>
      ))}
    </div>
  )
}
`

const statsPanelTSX = `export type Stat = {
  label: string
  value: string
}

export default function StatsPanel({ stats }: { stats: Stat[] }) {
  return (
    <dl className="grid gap-4 sm:grid-cols-2 lg:grid-cols-4">
      {stats.map((stat) => (
        <div key={stat.label} className="rounded-lg bg-gray-50 p-4">
          <dt className="text-sm text-gray-500">{stat.label}</dt>
          <dd className="mt-1 text-2xl font-semibold text-gray-900">{stat.value}</dd>
        </div>
      ))}
    </dl>
  )
}
`

const projectCardTSX = `export type Project = {
  title: string
  summary: string
  href?: string
}

export default function ProjectCard({ project }: { project: Project }) {
  return (
    <article className="rounded-lg border border-gray-200 p-6">
      <h3 className="text-xl font-semibold text-gray-900">{project.title}</h3>
      <p className="mt-2 text-gray-600">{project.summary}</p>
      {project.href && (
        <a href={project.href} className="mt-4 inline-block text-primary">
          View project
        </a>
      )}
    </article>
  )
}
`

const skillListTSX = `export default function SkillList({ skills }: { skills: string[] }) {
  return (
    <ul className="flex flex-wrap gap-2">
      {skills.map((skill) => (
        <li key={skill} className="rounded-full bg-gray-100 px-3 py-1 text-sm text-gray-700">
          {skill}
        </li>
      ))}
    </ul>
  )
}
`

const postCardTSX = `export type Post = {
  slug: string
  title: string
  excerpt: string
  date: string
}

export default function PostCard({ post }: { post: Post }) {
  return (
    <article className="border-b border-gray-200 py-6">
      <p className="text-sm text-gray-500">{post.date}</p>
      <a href={'/blog/' + post.slug} className="mt-1 block text-2xl font-semibold text-gray-900">
        {post.title}
      </a>
      <p className="mt-2 text-gray-600">{post.excerpt}</p>
    </article>
  )
}
`

const postListTSX = `import PostCard from './PostCard'
import type { Post } from './PostCard'

export default function PostList({ posts }: { posts: Post[] }) {
  return (
    <div>
      {posts.map((post) => (
        <PostCard key={post.slug} post={post} />
      ))}
    </div>
  )
}
`

const menuItemTSX = `export type Dish = {
  name: string
  description: string
  price: number
}

export default function MenuItem({ dish }: { dish: Dish }) {
  return (
    <div className="flex items-start justify-between gap-4 border-b border-gray-200 py-4">
      <div>
        <h3 className="font-semibold text-gray-900">{dish.name}</h3>
        <p className="text-sm text-gray-600">{dish.description}</p>
      </div>
      <span className="font-semibold text-primary">{'$' + dish.price.toFixed(2)}</span>
    </div>
  )
}
`

const openingHoursTSX = `export type Hours = {
  day: string
  open: string
  close: string
}

export default function OpeningHours({ hours }: { hours: Hours[] }) {
  return (
    <table className="w-full text-left">
      <tbody>
        {hours.map((h) => (
          <tr key={h.day} className="border-b border-gray-100">
            <td className="py-2 font-medium text-gray-900">{h.day}</td>
            <td className="py-2 text-gray-600">{h.open + ' - ' + h.close}</td>
          </tr>
        ))}
      </tbody>
    </table>
  )
}
`

const callToActionTSX = `type CallToActionProps = {
  title: string
  href: string
  label: string
}

export default function CallToAction({ title, href, label }: CallToActionProps) {
  return (
    <section className="rounded-2xl bg-primary px-8 py-16 text-center text-white">
      <h2 className="text-3xl font-bold">{title}</h2>
      <a href={href} className="mt-8 inline-block rounded-md bg-white px-6 py-3 font-semibold text-primary">
        {label}
      </a>
    </section>
  )
}
`

const searchBarTSX = `'use client'

import { useState } from 'react'

export default function SearchBar({ onSearch }: { onSearch: (query: string) => void }) {
  const [query, setQuery] = useState('')
  return (
    <form
      onSubmit={(e) => {
        e.preventDefault()
        onSearch(query)
      }}
      className="flex gap-2"
    >
      <input
        value={query}
        onChange={(e) => setQuery(e.target.value)}
        placeholder="Search"
        className="flex-1 rounded-md border border-gray-300 px-3 py-2"
      />
      <button type="submit" className="rounded-md bg-primary px-4 py-2 text-white">
        Search
      </button>
    </form>
  )
}
`

const newsletterTSX = `'use client'

import { useState } from 'react'

export default function NewsletterSignup() {
  const [email, setEmail] = useState('')
  const [done, setDone] = useState(false)
  if (done) {
    return <p className="text-green-700">Thanks for subscribing!</p>
  }
  return (
    <form
      onSubmit={(e) => {
        e.preventDefault()
        setDone(true)
      }}
      className="flex gap-2"
    >
      <input
        type="email"
        required
        value={email}
        onChange={(e) => setEmail(e.target.value)}
        placeholder="you@example.com"
        className="flex-1 rounded-md border border-gray-300 px-3 py-2"
      />
      <button type="submit" className="rounded-md bg-primary px-4 py-2 text-white">
        Subscribe
      </button>
    </form>
  )
}
`

const testimonialsTSX = `export type Testimonial = {
  quote: string
  author: string
}

export default function Testimonials({ items }: { items: Testimonial[] }) {
  return (
    <div className="grid gap-6 md:grid-cols-2">
      {items.map((t) => (
        <blockquote key={t.author} className="rounded-lg bg-gray-50 p-6">
          <p className="text-gray-700">{t.quote}</p>
          <footer className="mt-4 font-semibold text-gray-900">{t.author}</footer>
        </blockquote>
      ))}
    </div>
  )
}
`

const faqTSX = `export type Question = {
  question: string
  answer: string
}

export default function FAQ({ items }: { items: Question[] }) {
  return (
    <div className="divide-y divide-gray-200">
      {items.map((item) => (
        <details key={item.question} className="py-4">
          <summary className="cursor-pointer font-semibold text-gray-900">{item.question}</summary>
          <p className="mt-2 text-gray-600">{item.answer}</p>
        </details>
      ))}
    </div>
  )
}
`

const contactFormTSX = `'use client'

import { useState } from 'react'

export default function ContactForm() {
  const [sent, setSent] = useState(false)
  if (sent) {
    return <p className="text-green-700">Thanks, we will be in touch.</p>
  }
  return (
    <form
      onSubmit={(e) => {
        e.preventDefault()
        setSent(true)
      }}
      className="space-y-4"
    >
      <input name="name" required placeholder="Name" className="w-full rounded-md border border-gray-300 px-3 py-2" />
      <input name="email" type="email" required placeholder="Email" className="w-full rounded-md border border-gray-300 px-3 py-2" />
      <textarea name="message" required rows={5} placeholder="Message" className="w-full rounded-md border border-gray-300 px-3 py-2" />
      <button type="submit" className="rounded-md bg-primary px-4 py-2 text-white">
        Send
      </button>
    </form>
  )
}
`

const galleryTSX = `export type Photo = {
  src: string
  alt: string
}

export default function Gallery({ photos }: { photos: Photo[] }) {
  return (
    <div className="grid grid-cols-2 gap-4 md:grid-cols-3">
      {photos.map((photo) => (
        <img key={photo.src} src={photo.src} alt={photo.alt} className="aspect-square w-full rounded-lg object-cover" />
      ))}
    </div>
  )
}
`
