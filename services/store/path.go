package store

import (
	"errors"
	"fmt"
	"strings"

	"menupick-admin-worker/services/taxonomy"
)

// Path is the collection location of one taxonomy leaf:
// <root>/<messType>/categories/<category>/subcategories/<subcategory>/items
type Path struct {
	Root        string
	MessType    string
	Category    string
	Subcategory string
}

var ErrInvalidPath = errors.New("invalid catalog path")

func LeafPath(root string, leaf taxonomy.Leaf) Path {
	return Path{Root: root, MessType: leaf.MessType, Category: leaf.Category, Subcategory: leaf.Subcategory}
}

func (p Path) Leaf() taxonomy.Leaf {
	return taxonomy.Leaf{Category: p.Category, MessType: p.MessType, Subcategory: p.Subcategory}
}

func (p Path) String() string {
	return strings.Join([]string{p.Root, p.MessType, "categories", p.Category, "subcategories", p.Subcategory, "items"}, "/")
}

// Item 單一品項的完整路徑
func (p Path) Item(id string) string {
	return p.String() + "/" + id
}

func (p Path) Validate() error {
	for _, part := range []string{p.Root, p.MessType, p.Category, p.Subcategory} {
		if strings.TrimSpace(part) == "" || strings.Contains(part, "/") {
			return fmt.Errorf("%w: %q", ErrInvalidPath, p.String())
		}
	}
	return nil
}

// ParsePath accepts a collection path or an item path and returns the item id when present.
func ParsePath(raw string) (Path, string, error) {
	parts := strings.Split(strings.Trim(raw, "/"), "/")
	if len(parts) != 7 && len(parts) != 8 {
		return Path{}, "", fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}
	if parts[2] != "categories" || parts[4] != "subcategories" || parts[6] != "items" {
		return Path{}, "", fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}
	p := Path{Root: parts[0], MessType: parts[1], Category: parts[3], Subcategory: parts[5]}
	if err := p.Validate(); err != nil {
		return Path{}, "", err
	}
	id := ""
	if len(parts) == 8 {
		id = parts[7]
		if id == "" {
			return Path{}, "", fmt.Errorf("%w: %q", ErrInvalidPath, raw)
		}
	}
	return p, id, nil
}
