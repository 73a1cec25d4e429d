package palette

import (
	"fmt"
	"strings"

	"mathart/rgba"
)

// Pair is a named primary/secondary color combination.
type Pair struct {
	Name      string
	Primary   rgba.Color
	Secondary rgba.Color
}

func (p Pair) String() string {
	return fmt.Sprintf("%s[%v, %v]", p.Name, p.Primary, p.Secondary)
}

// Pairs are the built-in pairs, light primary first.
var Pairs = []Pair{
	{"classic", rgba.MustHex("#F5F5F5"), rgba.MustHex("#212121")},
	{"ocean", rgba.MustHex("#E0F7FA"), rgba.MustHex("#01579B")},
	{"sunset", rgba.MustHex("#FFEBEE"), rgba.MustHex("#BF360C")},
	{"lavender", rgba.MustHex("#F3E5F5"), rgba.MustHex("#4A148C")},
	{"mint", rgba.MustHex("#E0F2F1"), rgba.MustHex("#004D40")},
	{"berry", rgba.MustHex("#FCE4EC"), rgba.MustHex("#880E4F")},
	{"steel", rgba.MustHex("#ECEFF1"), rgba.MustHex("#263238")},
	{"desert", rgba.MustHex("#FFF8E1"), rgba.MustHex("#FF6F00")},
	{"electric", rgba.MustHex("#FFD600"), rgba.MustHex("#1A237E")}, // vibrant yellow/deep blue
	{"cosmic", rgba.MustHex("#FF1744"), rgba.MustHex("#1A237E")},   // bright red/deep blue
}

// Names returns the names of pairs in order.
func Names(pairs []Pair) []string {
	names := make([]string, len(pairs))
	for i, p := range pairs {
		names[i] = p.Name
	}
	return names
}

// Lookup finds a pair by case-insensitive name.
func Lookup(pairs []Pair, name string) (Pair, bool) {
	for _, p := range pairs {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Pair{}, false
}

// Select returns the named pairs in the requested order, or all of them when
// names is empty.
func Select(pairs []Pair, names []string) ([]Pair, error) {
	if len(names) == 0 {
		return pairs, nil
	}
	res := make([]Pair, 0, len(names))
	for _, name := range names {
		p, ok := Lookup(pairs, name)
		if !ok {
			return nil, fmt.Errorf("unknown color pair %q, available: %s", name, strings.Join(Names(pairs), ", "))
		}
		res = append(res, p)
	}
	return res, nil
}
