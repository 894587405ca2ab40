package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

// CSVImporter reads a catalog export. The first row of a product carries its
// fields and first color; following rows with an empty id add more colors.
//
//	id,name,price,originalPrice,category,description,fabric,rating,reviewCount,sizes,color.name,color.hex,color.image,isNew,isTrending
type CSVImporter struct {
	reader *csv.Reader
}

func NewCSVImporter(r io.Reader) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{reader: csvr}
}

// Run parses every row and returns products in file order. Catalog-level
// invariants (unique ids, color uniqueness) are left to catalog.New.
func (i *CSVImporter) Run() ([]domain.Product, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"id", "name", "price", "category", "color.name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var (
		products []domain.Product
		current  *domain.Product
		line     = 1
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		id := pick(record, index, "id")
		color := parseColor(record, index)
		if id == "" {
			// Continuation rows (extra colors) belong to the current product.
			if current != nil && color != nil {
				current.Colors = append(current.Colors, *color)
			}
			continue
		}

		p, err := parseProduct(record, index)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", line, id, err)
		}
		if color != nil {
			p.Colors = append(p.Colors, *color)
		}
		products = append(products, p)
		current = &products[len(products)-1]
	}
	return products, nil
}

func parseProduct(record []string, index map[string]int) (domain.Product, error) {
	var (
		p   domain.Product
		err error
	)
	p.ID = pick(record, index, "id")
	p.Name = pick(record, index, "name")
	p.Description = pick(record, index, "description")
	p.Fabric = pick(record, index, "fabric")

	category, ok := domain.ParseCategory(pick(record, index, "category"))
	if !ok || category == "" {
		return p, fmt.Errorf("unknown category %q", pick(record, index, "category"))
	}
	p.Category = category

	if p.Price, err = parseFloat(pick(record, index, "price")); err != nil {
		return p, fmt.Errorf("price: %w", err)
	}
	if v := pick(record, index, "originalPrice"); v != "" {
		orig, err := parseFloat(v)
		if err != nil {
			return p, fmt.Errorf("originalPrice: %w", err)
		}
		p.OriginalPrice = &orig
	}
	if v := pick(record, index, "rating"); v != "" {
		if p.Rating, err = parseFloat(v); err != nil {
			return p, fmt.Errorf("rating: %w", err)
		}
	}
	if v := pick(record, index, "reviewCount"); v != "" {
		if p.ReviewCount, err = strconv.Atoi(v); err != nil {
			return p, fmt.Errorf("reviewCount: %w", err)
		}
	}
	p.Sizes = splitList(pick(record, index, "sizes"))
	p.IsNew = parseBool(pick(record, index, "isNew"))
	p.IsTrending = parseBool(pick(record, index, "isTrending"))
	return p, nil
}

func parseColor(record []string, index map[string]int) *domain.ColorVariant {
	name := pick(record, index, "color.name")
	if name == "" {
		return nil
	}
	return &domain.ColorVariant{
		Name:  name,
		Hex:   pick(record, index, "color.hex"),
		Image: pick(record, index, "color.image"),
	}
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func parseFloat(v string) (float64, error) {
	return strconv.ParseFloat(v, 64)
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
