package domain

import "fmt"

// Element is one of the five phases.
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// Elements lists the five phases in generation order.
var Elements = []Element{Wood, Fire, Earth, Metal, Water}

var elementNames = [...]string{"wood", "fire", "earth", "metal", "water"}

func (e Element) String() string {
	if e < Wood || e > Water {
		return fmt.Sprintf("element(%d)", int(e))
	}
	return elementNames[e]
}

// Generates returns the element this one feeds (wood feeds fire, fire feeds earth, ...).
func (e Element) Generates() Element {
	return (e + 1) % 5
}

// GeneratedBy returns the element that feeds this one.
func (e Element) GeneratedBy() Element {
	return (e + 4) % 5
}

// Controls returns the element this one destroys (wood breaks earth, earth dams water, ...).
func (e Element) Controls() Element {
	return (e + 2) % 5
}

// ControlledBy returns the element that destroys this one.
func (e Element) ControlledBy() Element {
	return (e + 3) % 5
}

// ParseElement maps a lowercase element name back to its value.
func ParseElement(s string) (Element, error) {
	for i, name := range elementNames {
		if name == s {
			return Element(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element %q", s)
}

type Polarity int

const (
	Yang Polarity = iota
	Yin
)

func (p Polarity) String() string {
	if p == Yin {
		return "yin"
	}
	return "yang"
}

// Stem is one of the ten heavenly stems, indexed 0 (gap) to 9 (gye).
type Stem int

const (
	StemGap Stem = iota
	StemEul
	StemByeong
	StemJeong
	StemMu
	StemGi
	StemGyeong
	StemSin
	StemIm
	StemGye
)

var stemKeys = [...]string{"gap", "eul", "byeong", "jeong", "mu", "gi", "gyeong", "sin", "im", "gye"}
var stemHanja = [...]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
var stemHangul = [...]string{"갑", "을", "병", "정", "무", "기", "경", "신", "임", "계"}

// NewStem folds any integer into the 10-stem cycle.
func NewStem(i int) Stem {
	return Stem(mod(i, 10))
}

// Key is the romanized lowercase name used as a knowledge-base key.
func (s Stem) Key() string { return stemKeys[s] }

func (s Stem) Hanja() string { return stemHanja[s] }

func (s Stem) Hangul() string { return stemHangul[s] }

func (s Stem) String() string { return fmt.Sprintf("%s(%s)", stemKeys[s], stemHanja[s]) }

// Element pairs consecutive stems: gap/eul wood, byeong/jeong fire, and so on.
func (s Stem) Element() Element { return Element(int(s) / 2) }

func (s Stem) Polarity() Polarity { return Polarity(int(s) % 2) }

// Branch is one of the twelve earthly branches, indexed 0 (ja, rat) to 11 (hae, pig).
type Branch int

const (
	BranchJa Branch = iota
	BranchChuk
	BranchIn
	BranchMyo
	BranchJin
	BranchSa
	BranchO
	BranchMi
	BranchSin
	BranchYu
	BranchSul
	BranchHae
)

var branchKeys = [...]string{"ja", "chuk", "in", "myo", "jin", "sa", "o", "mi", "sin", "yu", "sul", "hae"}
var branchHanja = [...]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}
var branchHangul = [...]string{"자", "축", "인", "묘", "진", "사", "오", "미", "신", "유", "술", "해"}
var branchAnimals = [...]string{"rat", "ox", "tiger", "rabbit", "dragon", "snake", "horse", "goat", "monkey", "rooster", "dog", "pig"}

var branchElements = [...]Element{Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water}

// NewBranch folds any integer into the 12-branch cycle.
func NewBranch(i int) Branch {
	return Branch(mod(i, 12))
}

func (b Branch) Key() string { return branchKeys[b] }

func (b Branch) Hanja() string { return branchHanja[b] }

func (b Branch) Hangul() string { return branchHangul[b] }

func (b Branch) Animal() string { return branchAnimals[b] }

func (b Branch) String() string { return fmt.Sprintf("%s(%s)", branchKeys[b], branchHanja[b]) }

func (b Branch) Element() Element { return branchElements[b] }

func (b Branch) Polarity() Polarity { return Polarity(int(b) % 2) }

// ParseStem resolves a romanized key such as "gap".
func ParseStem(key string) (Stem, error) {
	for i, k := range stemKeys {
		if k == key {
			return Stem(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stem %q", key)
}

// ParseBranch resolves a romanized key such as "ja".
func ParseBranch(key string) (Branch, error) {
	for i, k := range branchKeys {
		if k == key {
			return Branch(i), nil
		}
	}
	return 0, fmt.Errorf("unknown branch %q", key)
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
