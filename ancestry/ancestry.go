// Package ancestry defines ancestry labels (the subspecies an interval of the
// genome descends from) and ordered (proximal, distal) label combinations.
//
// Labels are single-bit masks: with k known labels, label i is 1<<i and the
// unknown label is 1<<k.  A combination packs two labels into one integer,
// proximal<<Shift | distal, where Shift = k+1 is wide enough that the two
// halves never overlap.  Every combination code is therefore >= 1<<Shift,
// and no label code is, so the two code spaces are disjoint.
package ancestry

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/grailbio/base/errors"
)

// Label is a single-locus ancestry label.
type Label uint16

// Combo is an ordered (proximal, distal) pair of labels.
type Combo uint16

// ComboSeparator separates the proximal and distal label names in a
// combination name, e.g. "dom :: mus".
const ComboSeparator = " :: "

// maxLabels bounds the number of known labels so that a combination fits in
// 16 bits.
const maxLabels = 7

// LabelSet is a closed set of ancestry labels plus "unknown".  It is
// immutable and safe for concurrent use.
type LabelSet struct {
	names   []string // names[i] is the name of label 1<<i; the last entry names unknown.
	unknown Label
	shift   uint
	mask    uint16
	byName  map[string]uint16 // lower-cased name or alias -> code
	combos  []Combo           // all combinations, unknown included
	known   []Combo           // known combinations only
	index   map[Combo]int     // position in combos
}

// NewLabelSet creates a LabelSet from the names of the known labels, the name
// of the unknown label, and optional aliases (alias -> canonical name) that
// Parse also accepts.  Names are matched case-insensitively.
func NewLabelSet(names []string, unknownName string, aliases map[string]string) (*LabelSet, error) {
	if len(names) == 0 || len(names) > maxLabels {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("ancestry: need between 1 and %d labels, got %d", maxLabels, len(names)))
	}
	k := uint(len(names))
	ls := &LabelSet{
		names:   append(append([]string(nil), names...), unknownName),
		unknown: Label(1 << k),
		shift:   k + 1,
		mask:    uint16(1<<(k+1)) - 1,
		byName:  map[string]uint16{},
		index:   map[Combo]int{},
	}
	for i, name := range ls.names {
		key := strings.ToLower(name)
		if _, ok := ls.byName[key]; ok || name == "" || strings.Contains(name, strings.TrimSpace(ComboSeparator)) {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("ancestry: invalid or duplicate label name %q", name))
		}
		ls.byName[key] = 1 << uint(i)
	}
	for alias, canonical := range aliases {
		code, ok := ls.byName[strings.ToLower(canonical)]
		if !ok {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("ancestry: alias %q refers to unknown label %q", alias, canonical))
		}
		ls.byName[strings.ToLower(alias)] = code
	}
	all := ls.Labels(true)
	for _, p := range all {
		for _, d := range all {
			c := ls.Combine(p, d)
			ls.index[c] = len(ls.combos)
			ls.combos = append(ls.combos, c)
			if ls.IsKnown(c) {
				ls.known = append(ls.known, c)
			}
		}
	}
	return ls, nil
}

// Default returns the three house-mouse subspecies: domesticus, musculus and
// castaneus, with "???" as the unknown label.
func Default() *LabelSet {
	ls, err := NewLabelSet([]string{"dom", "mus", "cas"}, "???", map[string]string{
		"cast":    "cas",
		"none":    "???",
		"unknown": "???",
	})
	if err != nil {
		panic(err)
	}
	return ls
}

// Shift is the bit width of one half of a combination.
func (ls *LabelSet) Shift() uint { return ls.shift }

// Unknown returns the unknown label.
func (ls *LabelSet) Unknown() Label { return ls.unknown }

// NumLabels returns the number of known labels.
func (ls *LabelSet) NumLabels() int { return len(ls.names) - 1 }

// Combine packs two labels into a combination.
func (ls *LabelSet) Combine(proximal, distal Label) Combo {
	return Combo(uint16(proximal)<<ls.shift | uint16(distal))
}

// Proximal extracts the proximal label of c.
func (ls *LabelSet) Proximal(c Combo) Label {
	return Label((uint16(c) >> ls.shift) & ls.mask)
}

// Distal extracts the distal label of c.
func (ls *LabelSet) Distal(c Combo) Label {
	return Label(uint16(c) & ls.mask)
}

// IsKnown reports whether neither half of c is unknown.
func (ls *LabelSet) IsKnown(c Combo) bool {
	return uint16(c)&uint16(ls.Combine(ls.unknown, ls.unknown)) == 0
}

// IsHomozygous reports whether both halves of c carry the same label.
func (ls *LabelSet) IsHomozygous(c Combo) bool {
	return ls.Proximal(c) == ls.Distal(c)
}

// IsLabel reports whether code is a valid label of this set.
func (ls *LabelSet) IsLabel(code uint16) bool {
	return code != 0 && code <= uint16(ls.unknown) && bits.OnesCount16(code) == 1
}

// IsCombo reports whether code is a valid combination of this set.
func (ls *LabelSet) IsCombo(code uint16) bool {
	_, ok := ls.index[Combo(code)]
	return ok
}

// Labels returns the labels in canonical order; unknown, if requested, is
// last.
func (ls *LabelSet) Labels(includeUnknown bool) []Label {
	n := len(ls.names)
	if !includeUnknown {
		n--
	}
	labels := make([]Label, n)
	for i := range labels {
		labels[i] = Label(1 << uint(i))
	}
	return labels
}

// Combos returns the combinations in canonical order: proximal-major over
// Labels(includeUnknown).  The returned slice must not be modified.
func (ls *LabelSet) Combos(includeUnknown bool) []Combo {
	if includeUnknown {
		return ls.combos
	}
	return ls.known
}

// ComboIndex returns the position of c in Combos(true).
func (ls *LabelSet) ComboIndex(c Combo) (int, bool) {
	i, ok := ls.index[c]
	return i, ok
}

// LabelName returns the canonical name of l.
func (ls *LabelSet) LabelName(l Label) string {
	if !ls.IsLabel(uint16(l)) {
		return fmt.Sprintf("label(%d)", l)
	}
	return ls.names[bits.TrailingZeros16(uint16(l))]
}

// ComboName returns the canonical name of c, "proximal :: distal".
func (ls *LabelSet) ComboName(c Combo) string {
	return ls.LabelName(ls.Proximal(c)) + ComboSeparator + ls.LabelName(ls.Distal(c))
}

// Name returns the canonical name of a label or combination code.
func (ls *LabelSet) Name(code uint16) string {
	if ls.IsLabel(code) {
		return ls.LabelName(Label(code))
	}
	return ls.ComboName(Combo(code))
}

// ParseLabel converts a label name (or alias) to a Label.
func (ls *LabelSet) ParseLabel(name string) (Label, error) {
	code, ok := ls.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("invalid label: %q", name))
	}
	return Label(code), nil
}

// ParseCombo converts a combination name, "proximal :: distal", to a Combo.
func (ls *LabelSet) ParseCombo(name string) (Combo, error) {
	parts := strings.Split(name, strings.TrimSpace(ComboSeparator))
	if len(parts) != 2 {
		return 0, errors.E(errors.Invalid, fmt.Sprintf("invalid label: %q is not a combination", name))
	}
	p, err := ls.ParseLabel(parts[0])
	if err != nil {
		return 0, err
	}
	d, err := ls.ParseLabel(parts[1])
	if err != nil {
		return 0, err
	}
	return ls.Combine(p, d), nil
}

// Parse is the inverse of Name: it accepts either a label or a combination
// name.
func (ls *LabelSet) Parse(name string) (uint16, error) {
	if strings.Contains(name, strings.TrimSpace(ComboSeparator)) {
		c, err := ls.ParseCombo(name)
		return uint16(c), err
	}
	l, err := ls.ParseLabel(name)
	return uint16(l), err
}
