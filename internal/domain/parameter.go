package domain

// DischargeParameter is the parameter name of discharge series.
const DischargeParameter = "Discharge"

// ParameterKind selects the discrete overlay of a report.
type ParameterKind int

const (
	ParameterOther ParameterKind = iota
	ParameterGroundwater
	ParameterDischarge
)

func (k ParameterKind) String() string {
	switch k {
	case ParameterGroundwater:
		return "groundwater"
	case ParameterDischarge:
		return "discharge"
	default:
		return "other"
	}
}

// GroundwaterParameter is a recognized groundwater parameter. Inverted
// parameters are depths below a reference point and plot with the axis flipped.
type GroundwaterParameter struct {
	DisplayName string
	Code        string // NWIS parameter code
	Inverted    bool
}

var groundwaterParameters = map[string]GroundwaterParameter{
	"WaterLevel, BelowLSD":  {DisplayName: "WaterLevel, BelowLSD", Code: "72019", Inverted: true},
	"WaterLevel, BelowMP":   {DisplayName: "WaterLevel, BelowMP", Code: "61055", Inverted: true},
	"Elevation, GW, NGVD29": {DisplayName: "Elevation, GW, NGVD29", Code: "62610"},
	"Elevation, GW, NAVD88": {DisplayName: "Elevation, GW, NAVD88", Code: "62611"},
}

// LookupGroundwaterParameter matches a parameter display name exactly.
func LookupGroundwaterParameter(name string) (GroundwaterParameter, bool) {
	p, ok := groundwaterParameters[name]
	return p, ok
}

// Classification is the result of ClassifyParameter. Groundwater is only set
// for ParameterGroundwater.
type Classification struct {
	Kind        ParameterKind
	Groundwater GroundwaterParameter
}

// Inverted reports whether the report axis should be flipped.
func (c Classification) Inverted() bool {
	return c.Kind == ParameterGroundwater && c.Groundwater.Inverted
}

// ClassifyParameter maps a primary parameter name to its discrete overlay kind.
func ClassifyParameter(name string) Classification {
	if gw, ok := LookupGroundwaterParameter(name); ok {
		return Classification{Kind: ParameterGroundwater, Groundwater: gw}
	}
	if name == DischargeParameter {
		return Classification{Kind: ParameterDischarge}
	}
	return Classification{Kind: ParameterOther}
}

// ParameterAlias maps an external (time-series store) parameter name to an
// NWIS parameter name.
type ParameterAlias struct {
	Alias string `json:"alias"`
	Name  string `json:"name"`
}

// UnitAlias maps an external unit of an NWIS parameter name to an NWIS
// parameter code.
type UnitAlias struct {
	Alias string `json:"alias"`
	Name  string `json:"name"`
	Code  string `json:"code"`
}

// ResolveParameterCode joins a parameter name and unit to an NWIS parameter
// code: the first name alias matching name, then any unit alias matching
// both unit and that alias' canonical name.
func ResolveParameterCode(name, unit string, names []ParameterAlias, units []UnitAlias) (string, bool) {
	canonical := ""
	found := false
	for _, a := range names {
		if a.Alias == name {
			canonical = a.Name
			found = true
			break
		}
	}
	if !found {
		return "", false
	}

	for _, u := range units {
		if u.Alias == unit && u.Name == canonical {
			return u.Code, true
		}
	}
	return "", false
}
