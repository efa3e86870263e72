package output

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Align is the alignment of one table column.
type Align int

const (
	// AlignDefault keeps tablewriter's alignment.
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

var twAlign = map[Align]tw.Align{
	AlignLeft:   tw.AlignLeft,
	AlignCenter: tw.AlignCenter,
	AlignRight:  tw.AlignRight,
}

// Data is a table ready to render.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // optional, one entry per column
}

// Render writes the table to w.
func (d Data) Render(w io.Writer) error {
	config := tablewriter.Config{}
	if len(d.ColumnAlignment) > 0 {
		per := make([]tw.Align, len(d.ColumnAlignment))
		for i, a := range d.ColumnAlignment {
			per[i] = tw.Skip
			if v, ok := twAlign[a]; ok {
				per[i] = v
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: per}
		config.Row.Alignment = tw.CellAlignment{PerColumn: per}
	}
	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	if len(d.Headers) > 0 {
		table.Header(cells(d.Headers)...)
	}
	for _, row := range d.Rows {
		if err := table.Append(cells(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func cells(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// reflectTable tabulates a non-empty slice of structs with one row per
// element, or a single struct as property/value pairs. Unexported fields and
// fields tagged json:"-" are left out.
func reflectTable(data any) (Data, bool) {
	v := reflect.Indirect(reflect.ValueOf(data))
	switch {
	case v.Kind() == reflect.Slice && v.Len() > 0 && reflect.Indirect(v.Index(0)).Kind() == reflect.Struct:
		fields := columns(reflect.Indirect(v.Index(0)).Type())
		d := Data{Headers: make([]string, len(fields))}
		for i, f := range fields {
			d.Headers[i] = f.header
		}
		for i := range v.Len() {
			elem := reflect.Indirect(v.Index(i))
			row := make([]string, len(fields))
			for j, f := range fields {
				row[j] = fmt.Sprint(elem.Field(f.index).Interface())
			}
			d.Rows = append(d.Rows, row)
		}
		return d, true

	case v.Kind() == reflect.Struct:
		d := Data{Headers: []string{"Property", "Value"}}
		for _, f := range columns(v.Type()) {
			d.Rows = append(d.Rows, []string{f.header, fmt.Sprint(v.Field(f.index).Interface())})
		}
		return d, true
	}
	return Data{}, false
}

type column struct {
	index  int
	header string
}

// columns names each exported field by its json tag, title cased, or by
// its Go name when untagged.
func columns(t reflect.Type) []column {
	caser := cases.Title(language.English)
	var out []column
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = field.Name
		default:
			name = caser.String(strings.ReplaceAll(name, "_", " "))
		}
		out = append(out, column{index: i, header: name})
	}
	return out
}
