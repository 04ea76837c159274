package quantity

// PhysType identifies the physical dimension a unit measures.
type PhysType int

const (
	Energy PhysType = iota + 1
	Angle
	Area
	Time
)

func (pt PhysType) String() string {
	switch pt {
	case Energy:
		return "energy"
	case Angle:
		return "angle"
	case Area:
		return "area"
	case Time:
		return "time"
	}

	return "untyped"
}

// Unit is a named unit of one physical type. Scale is the multiplier to
// the canonical unit of that type (TeV, deg, m2, s).
type Unit struct {
	Name  string
	Phys  PhysType
	Scale float64
}

var (
	TeV = Unit{Name: "TeV", Phys: Energy, Scale: 1}
	GeV = Unit{Name: "GeV", Phys: Energy, Scale: 1e-3}
	MeV = Unit{Name: "MeV", Phys: Energy, Scale: 1e-6}
	KeV = Unit{Name: "keV", Phys: Energy, Scale: 1e-9}

	Deg = Unit{Name: "deg", Phys: Angle, Scale: 1}
	Rad = Unit{Name: "rad", Phys: Angle, Scale: 180 / 3.141592653589793}

	M2  = Unit{Name: "m2", Phys: Area, Scale: 1}
	Cm2 = Unit{Name: "cm2", Phys: Area, Scale: 1e-4}

	Second = Unit{Name: "s", Phys: Time, Scale: 1}
	Hour   = Unit{Name: "h", Phys: Time, Scale: 3600}
)

var unitsByName = map[string]Unit{
	"TeV": TeV, "GeV": GeV, "MeV": MeV, "keV": KeV,
	"deg": Deg, "degree": Deg, "rad": Rad,
	"m2": M2, "m^2": M2, "cm2": Cm2, "cm^2": Cm2,
	"s": Second, "second": Second, "h": Hour,
}

// UnitByName resolves a unit from its FITS TUNIT spelling.
func UnitByName(name string) (Unit, bool) {
	u, ok := unitsByName[name]

	return u, ok
}

// Canonical returns the canonical unit of a physical type.
func Canonical(pt PhysType) Unit {
	switch pt {
	case Energy:
		return TeV
	case Angle:
		return Deg
	case Area:
		return M2
	case Time:
		return Second
	}

	return Unit{}
}
