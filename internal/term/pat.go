package term

import (
	"strconv"
	"strings"
)

type PatKind int

const (
	PVar PatKind = iota
	PUnscoped
	PWild
	PNum
	PCtor
	PTup
	PSup
)

// Pat is a binder-side pattern carried by Lam and Let nodes.
type Pat struct {
	Kind PatKind
	Name string // PVar, PUnscoped, PCtor (qualified Type/Ctr)
	Num  uint32 // PNum
	Subs []*Pat // PCtor, PTup, PSup
}

func (p *Pat) String() string {
	switch p.Kind {
	case PVar:
		return p.Name
	case PUnscoped:
		return "$" + p.Name
	case PWild:
		return "*"
	case PNum:
		return strconv.FormatUint(uint64(p.Num), 10)
	case PCtor:
		if len(p.Subs) == 0 {
			return p.Name
		}
		parts := make([]string, 0, len(p.Subs)+1)
		parts = append(parts, p.Name)
		for _, s := range p.Subs {
			parts = append(parts, s.String())
		}
		return "(" + strings.Join(parts, " ") + ")"
	case PTup:
		parts := make([]string, len(p.Subs))
		for i, s := range p.Subs {
			parts[i] = s.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		parts := make([]string, len(p.Subs))
		for i, s := range p.Subs {
			parts[i] = s.String()
		}
		return "{" + strings.Join(parts, " ") + "}"
	}
}

// Binds returns the scoped names the pattern introduces, in source order.
func (p *Pat) Binds() []string {
	var names []string
	var walk func(*Pat)
	walk = func(q *Pat) {
		switch q.Kind {
		case PVar:
			names = append(names, q.Name)
		case PCtor, PTup, PSup:
			for _, s := range q.Subs {
				walk(s)
			}
		}
	}
	walk(p)
	return names
}
