package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/ageing-report/internal/layout"
)

// Formatting constants of the rendered workbook.
const (
	HeaderFill   = "ADD8E6"
	BorderColor  = "000000"
	TitleSize    = 14
	AmountFormat = 4 // built-in "#,##0.00"
)

type styleKey struct {
	style  layout.Style
	number bool
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: BorderColor, Style: 1},
		{Type: "top", Color: BorderColor, Style: 1},
		{Type: "bottom", Color: BorderColor, Style: 1},
		{Type: "right", Color: BorderColor, Style: 1},
	}
}

func styleFor(key styleKey) *excelize.Style {
	s := &excelize.Style{}

	switch key.style {
	case layout.StyleTitle:
		s.Font = &excelize.Font{Bold: true, Size: TitleSize}
	case layout.StyleHeader:
		s.Font = &excelize.Font{Bold: true}
		s.Fill = excelize.Fill{Type: "pattern", Color: []string{HeaderFill}, Pattern: 1}
		s.Border = thinBorder()
		s.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	case layout.StyleData:
		s.Border = thinBorder()
	case layout.StyleDataCentered:
		s.Border = thinBorder()
		s.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "bottom"}
	case layout.StyleTotal:
		s.Font = &excelize.Font{Bold: true}
		s.Border = []excelize.Border{
			{Type: "top", Color: BorderColor, Style: 1},
			{Type: "bottom", Color: BorderColor, Style: 6},
		}
	}

	if key.number {
		s.NumFmt = AmountFormat
	}
	return s
}

// styleCache creates each excelize style once per workbook.
type styleCache struct {
	file *excelize.File
	ids  map[styleKey]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{file: f, ids: make(map[styleKey]int)}
}

func (c *styleCache) id(style layout.Style, value layout.Value) (int, bool, error) {
	key := styleKey{style: style, number: value.Kind == layout.KindNumber}
	if key.style == layout.StyleNone && !key.number {
		return 0, false, nil
	}
	if id, ok := c.ids[key]; ok {
		return id, true, nil
	}

	id, err := c.file.NewStyle(styleFor(key))
	if err != nil {
		return 0, false, fmt.Errorf("failed to create %s style: %w", style, err)
	}
	c.ids[key] = id
	return id, true, nil
}
