package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Style selects how a row is drawn.
type Style int

const (
	StyleAuto   Style = iota // text, or a flag for bools
	StyleText                // "Name: value"
	StyleMeter               // value drawn as a fill against Scale
	StyleFlag                // on/off lamp
	StyleHidden              // not shown
)

// Row is one field of a VesicleInfo or MonomerInfo, ready to draw.
type Row struct {
	Name  string
	Value any
	Style Style
	Scale float32 // full-scale value of a meter
	Verb  string  // printf verb for text rows, empty for the default
}

// rowFromTag reads an `inspect:"style[,scale:N][,fmt:VERB]"` tag, e.g.
// `inspect:"meter,scale:0.2"` or `inspect:"text,fmt:%.1f"`.
func rowFromTag(tag string) Row {
	row := Row{Scale: 1}
	if tag == "" {
		return row
	}

	parts := strings.Split(tag, ",")
	switch strings.TrimSpace(parts[0]) {
	case "text":
		row.Style = StyleText
	case "meter":
		row.Style = StyleMeter
	case "flag":
		row.Style = StyleFlag
	case "hidden":
		row.Style = StyleHidden
	}

	for _, opt := range parts[1:] {
		key, val, ok := strings.Cut(strings.TrimSpace(opt), ":")
		if !ok {
			continue
		}
		switch key {
		case "scale":
			if f, err := strconv.ParseFloat(val, 32); err == nil && f > 0 {
				row.Scale = float32(f)
			}
		case "fmt":
			row.Verb = val
		}
	}
	return row
}

// Rows lists the visible exported fields of the struct v in declaration order.
func Rows(v any) []Row {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil
	}

	t := rv.Type()
	rows := make([]Row, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		row := rowFromTag(sf.Tag.Get("inspect"))
		if row.Style == StyleHidden {
			continue
		}
		fv := rv.Field(i)
		if row.Style == StyleAuto {
			row.Style = StyleText
			if fv.Kind() == reflect.Bool {
				row.Style = StyleFlag
			}
		}
		row.Name = sf.Name
		row.Value = fv.Interface()
		rows = append(rows, row)
	}
	return rows
}

// Text renders the row value. Floats default to two decimals.
func (r Row) Text() string {
	if r.Verb != "" {
		return fmt.Sprintf(r.Verb, r.Value)
	}
	switch v := r.Value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprint(r.Value)
}

// Number returns the row value as a float32 for any numeric kind.
func (r Row) Number() (float32, bool) {
	rv := reflect.ValueOf(r.Value)
	switch {
	case rv.CanFloat():
		return float32(rv.Float()), true
	case rv.CanInt():
		return float32(rv.Int()), true
	case rv.CanUint():
		return float32(rv.Uint()), true
	}
	return 0, false
}

// Fill returns the meter fill fraction in [0, 1].
func (r Row) Fill() (float32, bool) {
	v, ok := r.Number()
	if !ok {
		return 0, false
	}
	return min(max(v/r.Scale, 0), 1), true
}

// Height is the vertical space the row takes in the panel.
func (r Row) Height() int32 {
	if r.Style == StyleMeter || r.Style == StyleFlag {
		return 18
	}
	return 20
}
