package domain

import (
	"errors"
	"fmt"
)

// CategoryUnknown is the sentinel returned when no category scores above
// zero. It is not part of the registry and no role can see it.
const CategoryUnknown = "Unknown"

// Category is one business document type with its keyword list. The declared
// order of categories is significant: the classifier breaks score ties in
// favor of the earlier category.
type Category struct {
	Name     string
	Keywords []string
}

// Registry is the immutable category and role-visibility configuration,
// loaded once at process start.
type Registry struct {
	categories []Category
	byName     map[string]struct{}
	roles      map[string][]string
}

func NewRegistry(categories []Category, roles map[string][]string) (*Registry, error) {
	if len(categories) == 0 {
		return nil, errors.New("registry: at least one category is required")
	}
	byName := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if c.Name == "" {
			return nil, errors.New("registry: category with empty name")
		}
		if c.Name == CategoryUnknown {
			return nil, fmt.Errorf("registry: %q is reserved", CategoryUnknown)
		}
		if _, dup := byName[c.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate category %q", c.Name)
		}
		byName[c.Name] = struct{}{}
	}
	for role, visible := range roles {
		for _, name := range visible {
			if _, ok := byName[name]; !ok {
				return nil, fmt.Errorf("registry: role %q references unknown category %q", role, name)
			}
		}
	}
	return &Registry{categories: categories, byName: byName, roles: roles}, nil
}

// Categories returns the category list in declaration order.
func (r *Registry) Categories() []Category {
	return r.categories
}

func (r *Registry) HasCategory(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// VisibleTo returns the category names the role may see. Unknown roles get
// an empty set, not an error.
func (r *Registry) VisibleTo(role string) []string {
	return r.roles[role]
}

func (r *Registry) RoleCanSee(role, category string) bool {
	for _, name := range r.roles[role] {
		if name == category {
			return true
		}
	}
	return false
}

// DefaultRegistry is the stock configuration: seven document categories and
// five operational roles.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(
		[]Category{
			{Name: "Invoice", Keywords: []string{"invoice", "bill", "payment", "amount", "gst", "tax", "vendor"}},
			{Name: "Safety Notice", Keywords: []string{"safety", "circular", "drill", "emergency", "hazard", "accident", "precaution"}},
			{Name: "HR Policy", Keywords: []string{"policy", "hr", "human resource", "employee", "leave", "attendance", "training"}},
			{Name: "Job Card", Keywords: []string{"job card", "work order", "maintenance", "repair", "task", "assignment"}},
			{Name: "Engineering Drawing", Keywords: []string{"drawing", "blueprint", "design", "specification", "technical", "schematic"}},
			{Name: "Government Circular", Keywords: []string{"government", "circular", "notification", "order", "directive", "compliance"}},
			{Name: "Operational Report", Keywords: []string{"report", "operational", "daily", "weekly", "monthly", "performance", "metrics"}},
		},
		map[string][]string{
			"Engineer":           {"Safety Notice", "Engineering Drawing", "Job Card", "Operational Report"},
			"Finance":            {"Invoice", "Government Circular"},
			"HR":                 {"HR Policy", "Safety Notice", "Government Circular"},
			"Station Controller": {"Operational Report", "Safety Notice", "Job Card"},
			"Compliance Officer": {"Government Circular", "Safety Notice", "HR Policy"},
		},
	)
	if err != nil {
		panic(err)
	}
	return reg
}
