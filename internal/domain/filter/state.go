package filter

// Property sede/propiedad del grupo hotelero.
type Property string

const (
	PropertyAll         Property = "all"
	PropertySites45     Property = "sites45"
	PropertySitesBAQ    Property = "sitesBAQ"
	PropertySitesGroup  Property = "sitesGroup"
	PropertySitesRecreo Property = "sitesRecreo"
)

var propertyLabels = map[Property]string{
	PropertyAll:         "Todas",
	PropertySites45:     "Sites 45",
	PropertySitesBAQ:    "Sites BAQ",
	PropertySitesGroup:  "Sites Group",
	PropertySitesRecreo: "Sites Recreo",
}

// Properties catálogo en orden de presentación.
func Properties() []Property {
	return []Property{PropertyAll, PropertySites45, PropertySitesBAQ, PropertySitesGroup, PropertySitesRecreo}
}

// Label etiqueta legible de la propiedad.
func (p Property) Label() string { return propertyLabels[p] }

// Valid indica si la propiedad pertenece al catálogo.
func (p Property) Valid() bool {
	_, ok := propertyLabels[p]
	return ok
}

// ParseProperty valida el string recibido. Vacío equivale a "all".
func ParseProperty(s string) (Property, bool) {
	if s == "" {
		return PropertyAll, true
	}
	p := Property(s)
	return p, p.Valid()
}

// Area área operativa del hotel.
type Area string

const (
	AreaAll         Area = "all"
	AreaEvento      Area = "evento"
	AreaLavanderia  Area = "lavanderia"
	AreaMinibar     Area = "minibar"
	AreaRestaurante Area = "restaurante"
	AreaRoomService Area = "roomservice"
	AreaAlojamiento Area = "alojamiento"
)

var areaLabels = map[Area]string{
	AreaAll:         "Todas las áreas",
	AreaEvento:      "Eventos",
	AreaLavanderia:  "Lavandería",
	AreaMinibar:     "Minibar",
	AreaRestaurante: "Restaurante",
	AreaRoomService: "Room Service",
	AreaAlojamiento: "Alojamiento",
}

// Areas catálogo en orden de presentación.
func Areas() []Area {
	return []Area{AreaAll, AreaEvento, AreaLavanderia, AreaMinibar, AreaRestaurante, AreaRoomService, AreaAlojamiento}
}

// Label etiqueta legible del área.
func (a Area) Label() string { return areaLabels[a] }

// Valid indica si el área pertenece al catálogo.
func (a Area) Valid() bool {
	_, ok := areaLabels[a]
	return ok
}

// ParseArea valida el string recibido. Vacío equivale a "all".
func ParseArea(s string) (Area, bool) {
	if s == "" {
		return AreaAll, true
	}
	a := Area(s)
	return a, a.Valid()
}

// State filtro completo de una sesión. Comparable con ==; es la clave de
// petición del fetcher de métricas.
type State struct {
	Date     DateSelection `json:"date_selection"`
	Property Property      `json:"property"`
	Area     Area          `json:"area"`
}

// DefaultState estado inicial de sesión: todas las fechas, todas las sedes, todas las áreas.
func DefaultState() State {
	return State{Date: NewDateSelection(), Property: PropertyAll, Area: AreaAll}
}

// Repair devuelve un estado válido: selección de fecha reparada y enums
// desconocidos reemplazados por "all".
func (s State) Repair() State {
	out := State{Date: s.Date.Repair(), Property: s.Property, Area: s.Area}
	if !out.Property.Valid() {
		out.Property = PropertyAll
	}
	if !out.Area.Valid() {
		out.Area = AreaAll
	}
	return out
}

// Document forma plana persistida del filtro (misma información que State).
type Document struct {
	Year     int    `json:"year,omitempty"`
	Quarter  int    `json:"quarter,omitempty"`
	Month    int    `json:"month,omitempty"`
	Day      int    `json:"day,omitempty"`
	Mode     string `json:"mode"`
	Property string `json:"property"`
	Area     string `json:"area"`
}

// ToDocument aplana el estado para persistirlo.
func (s State) ToDocument() Document {
	return Document{
		Year:     s.Date.Year,
		Quarter:  s.Date.Quarter,
		Month:    s.Date.Month,
		Day:      s.Date.Day,
		Mode:     string(s.Date.Mode),
		Property: string(s.Property),
		Area:     string(s.Area),
	}
}

// FromDocument reconstruye el estado sin confiar en el documento: siempre
// se valida y repara.
func FromDocument(doc Document) State {
	return State{
		Date: DateSelection{
			Year:    doc.Year,
			Quarter: doc.Quarter,
			Month:   doc.Month,
			Day:     doc.Day,
			Mode:    Mode(doc.Mode),
		},
		Property: Property(doc.Property),
		Area:     Area(doc.Area),
	}.Repair()
}
