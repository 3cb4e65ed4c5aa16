package importer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/julesvx/vitrine/catalog"
	"github.com/julesvx/vitrine/internal/types"
)

// WriteDataFile regenerates the catalog data file at path, overwriting it
// wholesale. The emitted file is self-contained Go source holding the
// canonical product slice consumed by the catalog accessors.
func WriteDataFile(products []catalog.Product, path string) error {
	var b bytes.Buffer

	b.WriteString("// Code generated by vitrine import; DO NOT EDIT.\n\n")
	b.WriteString("package catalog\n\n")
	b.WriteString("// imported is the canonical product dataset, regenerated wholesale on\n")
	b.WriteString("// every import run.\n")

	if len(products) == 0 {
		b.WriteString("var imported = []Product{}\n")
	} else {
		b.WriteString("var imported = []Product{\n")
		for _, p := range products {
			writeProduct(&b, p)
		}
		b.WriteString("}\n")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &types.StorageError{Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return &types.StorageError{Path: path, Err: err}
	}
	return nil
}

func writeProduct(b *bytes.Buffer, p catalog.Product) {
	b.WriteString("\t{\n")
	fmt.Fprintf(b, "\t\tID:              %d,\n", p.ID)
	fmt.Fprintf(b, "\t\tSlug:            %s,\n", strconv.Quote(p.Slug))
	fmt.Fprintf(b, "\t\tName:            %s,\n", strconv.Quote(p.Name))
	fmt.Fprintf(b, "\t\tDescription:     %s,\n", strconv.Quote(p.Description))
	fmt.Fprintf(b, "\t\tLongDescription: %s,\n", strconv.Quote(p.LongDescription))
	fmt.Fprintf(b, "\t\tPrice:           %s,\n", formatFloat(p.Price))
	if p.OriginalPrice != nil {
		fmt.Fprintf(b, "\t\tOriginalPrice:   ptrFloat(%s),\n", formatFloat(*p.OriginalPrice))
	}
	fmt.Fprintf(b, "\t\tCurrency:        %s,\n", strconv.Quote(p.Currency))
	fmt.Fprintf(b, "\t\tCategory:        %s,\n", strconv.Quote(p.Category))
	fmt.Fprintf(b, "\t\tImages:          %s,\n", formatStrings(p.Images))
	fmt.Fprintf(b, "\t\tColors:          %s,\n", formatStrings(p.Colors))
	fmt.Fprintf(b, "\t\tSizes:           %s,\n", formatStrings(p.Sizes))
	fmt.Fprintf(b, "\t\tRating:          %s,\n", formatFloat(p.Rating))
	fmt.Fprintf(b, "\t\tReviews:         %d,\n", p.Reviews)
	fmt.Fprintf(b, "\t\tMaterial:        %s,\n", strconv.Quote(p.Material))
	b.WriteString("\t},\n")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatStrings(items []string) string {
	if len(items) == 0 {
		return "nil"
	}
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
