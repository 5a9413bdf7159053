package part

import (
	"strconv"
	"strings"

	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
)

// specFieldPrefix namespaces free-form specification fields inside the
// flat hash so they cannot collide with the fixed columns.
const specFieldPrefix = "spec_"

// buildHashFields converts a domain Part into a flat map[string]string for HSET.
func buildHashFields(p *dompart.Part) map[string]string {
	m := make(map[string]string, 8+len(p.Specs()))
	m["name"] = p.Name()
	m["category"] = p.Category()
	m["manufacturer"] = p.Manufacturer()
	m["model"] = p.Model()
	m["description"] = p.Description()
	m["price"] = strconv.FormatFloat(p.Price(), 'f', -1, 64)
	m["quantity"] = strconv.Itoa(p.Quantity())
	m["created_at"] = strconv.FormatInt(p.CreatedAt(), 10)
	for k, v := range p.Specs() {
		m[specFieldPrefix+k] = v
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Part.
func parseHashFields(id string, m map[string]string) dompart.Part {
	price, _ := strconv.ParseFloat(m["price"], 64)
	quantity, _ := strconv.Atoi(m["quantity"])
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)

	var specs map[string]string
	for k, v := range m {
		if name, ok := strings.CutPrefix(k, specFieldPrefix); ok {
			if specs == nil {
				specs = make(map[string]string)
			}
			specs[name] = v
		}
	}

	return dompart.Reconstruct(
		id, m["name"], m["category"], m["manufacturer"], m["model"],
		m["description"], price, quantity, specs, createdAt,
	)
}
