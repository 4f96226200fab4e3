package category

import (
	"github.com/pkg/errors"
)

var ErrUnknownCategory = errors.New("unknown category")

type Category struct {
	Key   string
	Label string
}

// Catalog is an immutable ordered set of categories. The order drives the
// layout of the selection menu.
type Catalog struct {
	items  []Category
	labels map[string]string
}

func NewCatalog(items ...Category) *Catalog {
	c := &Catalog{
		items:  make([]Category, 0, len(items)),
		labels: make(map[string]string, len(items)),
	}
	for _, it := range items {
		if _, dup := c.labels[it.Key]; dup {
			continue
		}
		c.items = append(c.items, it)
		c.labels[it.Key] = it.Label
	}
	return c
}

// Default is the fixed catalog the bot ships with.
func Default() *Catalog {
	return NewCatalog(
		Category{Key: "alimentacion", Label: "🥦 Alimentación"},
		Category{Key: "vivienda", Label: "🏠 Vivienda"},
		Category{Key: "transporte", Label: "🚗 Transporte"},
		Category{Key: "salud", Label: "🏥 Salud"},
		Category{Key: "entretenimiento", Label: "🎮 Entretenimiento"},
		Category{Key: "ropa", Label: "👕 Ropa"},
		Category{Key: "otros", Label: "📝 Otros"},
	)
}

func (c *Catalog) List() []Category {
	res := make([]Category, len(c.items))
	copy(res, c.items)
	return res
}

func (c *Catalog) LabelOf(key string) (string, error) {
	label, ok := c.labels[key]
	if !ok {
		return "", errors.Wrapf(ErrUnknownCategory, "key %q", key)
	}
	return label, nil
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.labels[key]
	return ok
}

// Rows groups the catalog row-major, perRow categories per row.
func (c *Catalog) Rows(perRow int) [][]Category {
	return Rows(c.items, perRow)
}

func Rows(items []Category, perRow int) [][]Category {
	if perRow < 1 {
		perRow = 1
	}
	rows := make([][]Category, 0, (len(items)+perRow-1)/perRow)
	for i := 0; i < len(items); i += perRow {
		end := i + perRow
		if end > len(items) {
			end = len(items)
		}
		row := make([]Category, end-i)
		copy(row, items[i:end])
		rows = append(rows, row)
	}
	return rows
}
