package term

import "strings"

// Def is one compiled top-level definition.
type Def struct {
	Name string
	Term Term
}

func (d *Def) String() string { return d.Name + " = " + d.Term.String() }

// Book is the ordered set of compiled definitions of a compilation,
// including those synthesized by fold/bend/comprehension expansion.
type Book struct {
	Defs  []*Def
	index map[string]*Def
}

func NewBook() *Book {
	return &Book{index: make(map[string]*Def)}
}

func (b *Book) Add(d *Def) {
	b.Defs = append(b.Defs, d)
	b.index[d.Name] = d
}

func (b *Book) Get(name string) (*Def, bool) {
	d, ok := b.index[name]
	return d, ok
}

func (b *Book) String() string {
	parts := make([]string, len(b.Defs))
	for i, d := range b.Defs {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}
