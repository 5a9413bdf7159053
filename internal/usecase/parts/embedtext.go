package parts

import (
	"fmt"
	"sort"
	"strings"

	dompart "github.com/kailas-cloud/partdex/internal/domain/part"
)

// embedText flattens a part into the sectioned Korean text that gets
// embedded at registration. Spec fields are emitted in sorted key order
// so the same part always produces the same text.
func embedText(p *dompart.Part) string {
	var b strings.Builder

	b.WriteString("[부품정보]\n")
	fmt.Fprintf(&b, "부품명: %s\n", p.Name())
	fmt.Fprintf(&b, "카테고리: %s\n", p.Category())
	if p.Manufacturer() != "" {
		fmt.Fprintf(&b, "제조사: %s\n", p.Manufacturer())
	}
	if p.Model() != "" {
		fmt.Fprintf(&b, "모델: %s\n", p.Model())
	}

	if specs := p.Specs(); len(specs) > 0 {
		b.WriteString("[사양]\n")
		keys := make([]string, 0, len(specs))
		for k := range specs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", k, specs[k])
		}
	}

	b.WriteString("[설명]\n")
	if p.Description() != "" {
		b.WriteString(p.Description())
	} else {
		b.WriteString("상세 설명 없음")
	}

	return b.String()
}
