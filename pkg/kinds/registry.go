package kinds

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"pkg.jsn.cam/datagen/pkg/dataset"
)

// ErrUnknownKind is returned by Get for names that are neither kinds nor aliases.
var ErrUnknownKind = errors.New("unknown kind")

// Kind describes one dataset shape and the defaults the generator uses for it.
type Kind struct {
	Name          string
	Description   string
	DefaultCount  int
	DefaultOutput string
	DefaultFormat dataset.Format

	build func(src *Source, count int, observe func(index int)) (dataset.Records, error)
}

// Build generates count records of this kind from src. observe, when not nil,
// is called after each record is produced.
func (k Kind) Build(src *Source, count int, observe func(index int)) (dataset.Records, error) {
	if k.build == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k.Name)
	}
	return k.build(src, count, observe)
}

func newKind[T any](name, description string, defaultCount int, output string, format dataset.Format, factory func(*Source) dataset.Factory[T]) Kind {
	return Kind{
		Name:          name,
		Description:   description,
		DefaultCount:  defaultCount,
		DefaultOutput: output,
		DefaultFormat: format,
		build: func(src *Source, count int, observe func(int)) (dataset.Records, error) {
			next := factory(src)
			if observe != nil {
				inner := next
				next = func(i int) T {
					rec := inner(i)
					observe(i)
					return rec
				}
			}
			ds, err := dataset.Generate(count, next)
			if err != nil {
				return nil, err
			}
			return ds, nil
		},
	}
}

// Registry maps kind names to kinds.
var Registry = map[string]Kind{
	"blog": newKind("blog",
		"Blog posts: id, title, content, category, tags, author, scores, url",
		20000, "blog-posts/20k-blog-dataset.json", dataset.FormatArray, BlogPostFactory),
	"product": newKind("product",
		"E-commerce products: product_id, name, description, price, brand, stock",
		5000, "e-commerce/products-dataset.json", dataset.FormatArray, ProductFactory),
	"access-log": newKind("access-log",
		"Web server access logs: client_ip, request, status_code, response_size",
		10000, "logs/apache-access-logs.json", dataset.FormatLines, AccessLogFactory),
	"app-log": newKind("app-log",
		"Application logs: level, service, message",
		10000, "logs/application-logs.json", dataset.FormatLines, AppLogFactory),
}

// aliases maps alternative names onto registry names.
var aliases = map[string]string{
	"blog-post":       "blog",
	"ecommerce":       "product",
	"apache-log":      "access-log",
	"application-log": "app-log",
}

// Get returns a kind by name or alias.
func Get(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		name = target
	}
	k, exists := Registry[name]
	if !exists {
		return Kind{}, fmt.Errorf("%w: %s (available: %s)", ErrUnknownKind, name, strings.Join(Names(), ", "))
	}
	return k, nil
}

// Names returns the registered kind names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// List returns all registered kinds sorted by name.
func List() []Kind {
	out := make([]Kind, 0, len(Registry))
	for _, name := range Names() {
		out = append(out, Registry[name])
	}
	return out
}
