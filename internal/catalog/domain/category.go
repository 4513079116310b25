package domain

// Category is one entry of a family's reference table.
type Category struct {
	Name          string
	Subcategories map[string]string // id -> display name
}

// CategoryTable maps category id -> Category. Tables are immutable
// reference data: built once at startup and injected, never mutated.
type CategoryTable map[string]Category

// Has reports whether the table contains the category id.
func (t CategoryTable) Has(id string) bool {
	_, ok := t[id]
	return ok
}

// HasSubcategory reports whether sub belongs to the category's set.
func (t CategoryTable) HasSubcategory(id, sub string) bool {
	c, ok := t[id]
	if !ok {
		return false
	}
	_, ok = c.Subcategories[sub]
	return ok
}

// DefaultProductCategories returns the marketplace's product table.
func DefaultProductCategories() CategoryTable {
	return CategoryTable{
		"tecnologia": {Name: "Tecnología", Subcategories: map[string]string{
			"celulares": "Celulares", "computacion": "Computación", "audio": "Audio", "accesorios": "Accesorios",
		}},
		"hogar": {Name: "Hogar", Subcategories: map[string]string{
			"muebles": "Muebles", "cocina": "Cocina", "decoracion": "Decoración", "jardin": "Jardín",
		}},
		"ropa": {Name: "Ropa", Subcategories: map[string]string{
			"hombre": "Hombre", "mujer": "Mujer", "ninos": "Niños", "calzado": "Calzado",
		}},
		"deportes": {Name: "Deportes", Subcategories: map[string]string{
			"fitness": "Fitness", "ciclismo": "Ciclismo", "camping": "Camping",
		}},
		"alimentos": {Name: "Alimentos", Subcategories: map[string]string{
			"dulces": "Dulces", "panificados": "Panificados", "conservas": "Conservas", "bebidas": "Bebidas",
		}},
		"otros": {Name: "Otros"},
	}
}

// DefaultServiceCategories returns the marketplace's service table.
func DefaultServiceCategories() CategoryTable {
	return CategoryTable{
		"clases": {Name: "Clases", Subcategories: map[string]string{
			"idiomas": "Idiomas", "musica": "Música", "apoyo_escolar": "Apoyo escolar",
		}},
		"oficios": {Name: "Oficios", Subcategories: map[string]string{
			"plomeria": "Plomería", "electricidad": "Electricidad", "carpinteria": "Carpintería", "pintura": "Pintura",
		}},
		"belleza": {Name: "Belleza", Subcategories: map[string]string{
			"peluqueria": "Peluquería", "manicura": "Manicura", "estetica": "Estética",
		}},
		"tecnologia": {Name: "Tecnología", Subcategories: map[string]string{
			"reparacion": "Reparación", "desarrollo": "Desarrollo", "soporte": "Soporte",
		}},
		"eventos":    {Name: "Eventos"},
		"transporte": {Name: "Transporte"},
		"otros":      {Name: "Otros"},
	}
}

// DefaultJobCategories returns the marketplace's employment table.
func DefaultJobCategories() CategoryTable {
	return CategoryTable{
		"tecnologia":     {Name: "Tecnología"},
		"ventas":         {Name: "Ventas"},
		"administracion": {Name: "Administración"},
		"gastronomia":    {Name: "Gastronomía"},
		"construccion":   {Name: "Construcción"},
		"salud":          {Name: "Salud"},
		"educacion":      {Name: "Educación"},
		"otros":          {Name: "Otros"},
	}
}
