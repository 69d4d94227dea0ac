package symmetry

import (
	"fmt"
	"strconv"
	"strings"
)

// Continuous synthesizes the Cinfv/Dinfh catalogues on demand rather than
// storing a fixed direct-product table: both groups have infinitely many
// irreps (one pair per projection quantum number Omega), so the table is
// generated up to a configured cutoff and irreps are identified by name.
type Continuous struct {
	dinfh    bool
	omegaMax int
	names    []string
	byName   map[string]component
}

// component is the (2*Omega, sign, gerade) triple the reference engine
// parses irrep names into before multiplying them arithmetically.
type component struct {
	twoOmega int
	sign     int8 // +1 for Sigma+/u-type components, -1 for Sigma-; 0 when undefined (|Omega|>0)
	gerade   bool // Dinfh only; ignored for Cinfv
}

// NewContinuous builds a Cinfv (dinfh=false) or Dinfh (dinfh=true)
// catalogue with irreps up to |Omega| = omegaMax.
func NewContinuous(dinfh bool, omegaMax int) *Continuous {
	c := &Continuous{dinfh: dinfh, omegaMax: omegaMax, byName: make(map[string]component)}
	c.generate()
	return c
}

func (c *Continuous) generate() {
	add := func(comp component, name string) {
		c.names = append(c.names, name)
		c.byName[name] = comp
	}
	geradeSuffixes := []bool{false}
	if c.dinfh {
		geradeSuffixes = []bool{true, false}
	}
	for _, g := range geradeSuffixes {
		gs := ""
		if c.dinfh {
			if g {
				gs = "g"
			} else {
				gs = "u"
			}
		}
		// Omega = 0 components: Sigma+ and Sigma-.
		add(component{twoOmega: 0, sign: +1, gerade: g}, "Sigma+"+gs)
		add(component{twoOmega: 0, sign: -1, gerade: g}, "Sigma-"+gs)
		for twoOmega := 2; twoOmega <= 2*c.omegaMax; twoOmega += 2 {
			add(component{twoOmega: twoOmega, gerade: g}, greekName(twoOmega/2)+gs)
		}
	}
}

func greekName(omega int) string {
	letters := []string{"", "Pi", "Delta", "Phi", "Gamma", "H", "I"}
	if omega < len(letters) {
		return letters[omega]
	}
	return fmt.Sprintf("Lam%d", omega)
}

// ByName parses an irrep label into its (Omega, parity) triple, returning
// ok=false if the name isn't in the generated catalogue.
func (c *Continuous) ByName(name string) (twoOmega int, sign int8, gerade bool, ok bool) {
	comp, ok := c.byName[name]
	return comp.twoOmega, comp.sign, comp.gerade, ok
}

// Names returns every irrep label in the generated catalogue.
func (c *Continuous) Names() []string {
	return append([]string(nil), c.names...)
}

// Mul multiplies two continuous-group irreps arithmetically and returns a
// single component of the product: the one with |Omega| = |Omega_a -
// Omega_b|. The |Omega_a + Omega_b| component is not returned. For an
// Omega = 0 result the Sigma sign is the product of the operands' signs,
// taken as + when either operand is not Sigma-type; gerade/ungerade
// multiplies like a Z2 parity. ok is false only when either name is not in
// the catalogue.
func (c *Continuous) Mul(aName, bName string) (name string, ok bool) {
	a, aok := c.byName[aName]
	b, bok := c.byName[bName]
	if !aok || !bok {
		return "", false
	}
	sumOmega := a.twoOmega + b.twoOmega
	diffOmega := abs(a.twoOmega - b.twoOmega)
	twoOmega := diffOmega // lower-energy / minimum |Omega| component, per operator_symmetry's convention
	if twoOmega > sumOmega {
		twoOmega = sumOmega
	}
	gerade := a.gerade == b.gerade
	var sign int8
	if twoOmega == 0 {
		sign = a.sign * b.sign
		if sign == 0 {
			sign = 1
		}
	}
	gs := ""
	if c.dinfh {
		if gerade {
			gs = "g"
		} else {
			gs = "u"
		}
	}
	if twoOmega == 0 {
		if sign > 0 {
			return "Sigma+" + gs, true
		}
		return "Sigma-" + gs, true
	}
	return greekName(twoOmega/2) + gs, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ParseOmega extracts the |Omega| (half-integer, returned doubled) implied
// by an irrep name of the form "<Greek><g|u>", for diagnostics.
func ParseOmega(name string) (twoOmega int, ok bool) {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(name, "g"), "u")
	switch {
	case strings.HasPrefix(trimmed, "Sigma"):
		return 0, true
	case strings.HasPrefix(trimmed, "Lam"):
		n, err := strconv.Atoi(strings.TrimPrefix(trimmed, "Lam"))
		if err != nil {
			return 0, false
		}
		return 2 * n, true
	default:
		letters := []string{"", "Pi", "Delta", "Phi", "Gamma", "H", "I"}
		for i, l := range letters {
			if l != "" && trimmed == l {
				return 2 * i, true
			}
		}
	}
	return 0, false
}
