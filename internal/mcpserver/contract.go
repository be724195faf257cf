package mcpserver

// ContentFormatContract describes the canonical on-disk content formats
// that LLM consumers should follow when creating or editing catalog files.
const ContentFormatContract = `# Vitrine Content Format Contract

Every content file stored in Vitrine MUST follow this structure.

## Products

Stored at ` + "`" + `products/<category>/<slug>/product.md` + "`" + ` with an optional
` + "`" + `tags.txt` + "`" + ` (one tag per line) and an ` + "`" + `images/` + "`" + ` directory beside it.

` + "```" + `markdown
---
title: Product display title        # REQUIRED
category: Category display name     # REQUIRED - must match an existing category
names:                              # OPTIONAL - locale to localized name
  ja: Japanese name
price: 120.0
sku: ABC-001
in_stock: true
images:                             # order-significant, first is thumbnail
  - front.jpg
---

Markdown description. Use [[Term]] to reference codex glossary entries,
or [[Term|display text]] for custom link text.
` + "```" + `

## Categories

Stored at ` + "`" + `categories/<slug>/category.md` + "`" + `. The body is the description.

` + "```" + `markdown
---
name: Category display name         # REQUIRED
order_weight: 10
icon: icon.png
---

Optional description in Markdown.
` + "```" + `

## Blog posts

Stored at ` + "`" + `blog/<yyyy-mm-dd>-<slug>.md` + "`" + `.

` + "```" + `markdown
---
title: Post title                   # REQUIRED
date: 2025-01-20                    # REQUIRED, YYYY-MM-DD
author: Alice
tags: [news]
---

Body in Markdown. [[Term]] references resolve against the codex.
` + "```" + `

## Codex entries

Stored at ` + "`" + `codex/<slug>.md` + "`" + `. Titles and aliases must be unique across
the whole codex (case-insensitive).

` + "```" + `markdown
---
title: Resin
aliases: [resin kit, garage kit resin]
---

Definition in Markdown.
` + "```" + `

## Rules

1. **YAML frontmatter is mandatory** and must open the file.
2. **Slugs are immutable.** Renaming a category changes its display name
   only; the directory slug stays put.
3. **Tags** live in ` + "`" + `tags.txt` + "`" + ` next to the product, one per line.
4. **Encoding** is UTF-8 with a trailing newline.
5. **Codex references** use double brackets: ` + "`" + `[[Term]]` + "`" + `. Unresolvable
   terms are left as-is, so misspellings are harmless but invisible.
`
