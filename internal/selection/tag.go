package selection

import (
	"path"
	"strings"
)

// ArchNone is the architecture value meaning "no custom architecture". It
// never matches an item.
const ArchNone = "none"

// Taxonomy lists the known technology and architecture tokens.
type Taxonomy struct {
	Technologies  []string
	Architectures []string
}

func (t Taxonomy) isTech(token string) bool {
	return contains(t.Technologies, token)
}

func (t Taxonomy) isArch(token string) bool {
	return token != ArchNone && contains(t.Architectures, token)
}

// Variant is the shape of a classified item name.
type Variant int

const (
	Generic Variant = iota
	TechTagged
	ArchTagged
	DualTagged
)

func (v Variant) String() string {
	switch v {
	case TechTagged:
		return "tech"
	case ArchTagged:
		return "arch"
	case DualTagged:
		return "dual"
	default:
		return "generic"
	}
}

// Tag is the classification of an item name against a taxonomy.
type Tag struct {
	Variant Variant
	Techs   []string
	Arch    string
}

// Classify derives an item's tag from its name. The extension is dropped
// and the rest split on "-". A technology token may appear in any segment;
// an architecture token only counts as the first segment.
func Classify(name string, tax Taxonomy) Tag {
	base := strings.ToLower(strings.TrimSuffix(name, path.Ext(name)))
	segments := strings.Split(base, "-")

	var tag Tag
	if len(segments) > 0 && tax.isArch(segments[0]) {
		tag.Arch = segments[0]
	}
	for _, s := range segments {
		if tax.isTech(s) && !contains(tag.Techs, s) {
			tag.Techs = append(tag.Techs, s)
		}
	}

	switch {
	case tag.Arch != "" && len(tag.Techs) > 0:
		tag.Variant = DualTagged
	case tag.Arch != "":
		tag.Variant = ArchTagged
	case len(tag.Techs) > 0:
		tag.Variant = TechTagged
	default:
		tag.Variant = Generic
	}
	return tag
}

// Eligible reports whether an item with this tag belongs to a project that
// selected techs and arch. Generic items always do. A dual-tagged item
// needs both a matching technology and the matching architecture.
func (t Tag) Eligible(techs []string, arch string) bool {
	techOK := false
	for _, want := range t.Techs {
		if contains(techs, want) {
			techOK = true
			break
		}
	}
	archOK := arch != ArchNone && arch != "" && strings.EqualFold(arch, t.Arch)

	switch t.Variant {
	case TechTagged:
		return techOK
	case ArchTagged:
		return archOK
	case DualTagged:
		return techOK && archOK
	default:
		return true
	}
}

// IsEligible classifies name and checks it against the chosen techs and arch.
func IsEligible(name string, techs []string, arch string, tax Taxonomy) bool {
	return Classify(name, tax).Eligible(techs, arch)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
