package admin

import (
	"github.com/HarishV14/Local-library/pkg/errcodes"
)

// Site is the registry of models managed in the back office.
type Site struct {
	order   []string
	entries map[string]entry
}

// NewSite returns a site with every catalog model registered.
func NewSite() *Site {
	s := &Site{entries: map[string]entry{}}
	register(s, authorAdmin())
	register(s, bookAdmin())
	register(s, instanceAdmin())
	register(s, genreAdmin())
	register(s, languageAdmin())
	return s
}

func register[T Record](s *Site, ma *ModelAdmin[T]) {
	if _, ok := s.entries[ma.Name]; ok {
		panic("admin: model " + ma.Name + " is already registered")
	}
	s.order = append(s.order, ma.Name)
	s.entries[ma.Name] = ma
}

// Models describes the registered models in registration order.
func (s *Site) Models() []Description {
	descriptions := make([]Description, len(s.order))
	for i, name := range s.order {
		descriptions[i] = s.entries[name].describe()
	}
	return descriptions
}

func (s *Site) lookup(name string) (entry, error) {
	e, ok := s.entries[name]
	if !ok {
		return nil, errcodes.NotFound("Model")
	}
	return e, nil
}
