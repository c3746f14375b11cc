package inventory

import (
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-warehouse-service/pkg/apperror"
)

// Attribute is an exportable item field and the column backing it.
type Attribute struct {
	Name   string
	Column string
}

var ExportAttributes = []Attribute{
	{Name: "id", Column: "id"},
	{Name: "name", Column: "name"},
	{Name: "SKU", Column: "sku"},
	{Name: "stock", Column: "stock"},
	{Name: "threshold", Column: "threshold"},
	{Name: "status", Column: "status"},
	{Name: "location", Column: "location"},
	{Name: "lastUpdatedBy", Column: "last_updated_by"},
	{Name: "createdAt", Column: "created_at"},
	{Name: "updatedAt", Column: "updated_at"},
}

var attributeAliases = map[string]string{
	"sku":        "SKU",
	"updated by": "lastUpdatedBy",
	"updatedby":  "lastUpdatedBy",
}

// ResolveAttributes maps caller-supplied names onto export attributes,
// keeping the caller's order and dropping repeats. No names means all.
func ResolveAttributes(names []string) ([]Attribute, error) {
	if len(names) == 0 {
		return ExportAttributes, nil
	}

	var (
		out     []Attribute
		seen    = map[string]bool{}
		invalid []apperror.FieldError
	)
	for _, raw := range names {
		attr, ok := lookupAttribute(raw)
		if !ok {
			invalid = append(invalid, apperror.FieldError{
				Field:   "attributes",
				Message: "unknown attribute " + strconv.Quote(raw),
				Value:   raw,
			})
			continue
		}
		if seen[attr.Name] {
			continue
		}
		seen[attr.Name] = true
		out = append(out, attr)
	}
	if len(invalid) > 0 {
		return nil, apperror.Validation("Invalid export attributes", invalid...)
	}
	return out, nil
}

func lookupAttribute(raw string) (Attribute, bool) {
	name := strings.TrimSpace(raw)
	if alias, ok := attributeAliases[strings.ToLower(name)]; ok {
		name = alias
	}
	for _, a := range ExportAttributes {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attribute{}, false
}

func AttributeNames(attrs []Attribute) []string {
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return names
}
