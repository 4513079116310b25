// Package validate implements the per-family publication rules. The
// validator accumulates every violated rule as a user-facing Spanish
// message instead of failing fast, so a submission form can surface
// all of its problems at once. Validation is pure: it never touches
// the store and has no side effects.
package validate

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
)

const (
	minTitleLen = 3
	maxTitleLen = 100
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validator checks listings against the rules of their family
// descriptor. Category tables come in through the descriptors so the
// validator stays testable with fixture tables.
type Validator struct {
	families domain.Families
}

func New(families domain.Families) *Validator {
	return &Validator{families: families}
}

// Validate returns every rule the listing violates. An empty slice
// means the listing is publishable.
func (v *Validator) Validate(l *domain.Listing) []string {
	fd, err := v.families.Descriptor(l.Family)
	if err != nil {
		return []string{"Tipo de publicación desconocido"}
	}

	msgs := v.common(l, fd)
	switch l.Family {
	case domain.FamilyProduct:
		msgs = append(msgs, v.product(l, fd)...)
	case domain.FamilyService:
		msgs = append(msgs, v.service(l, fd)...)
	case domain.FamilyJob:
		msgs = append(msgs, v.job(l)...)
	}
	return msgs
}

func (v *Validator) common(l *domain.Listing, fd *domain.FamilyDescriptor) []string {
	var msgs []string

	titleLen := utf8.RuneCountInString(l.Title)
	if titleLen == 0 {
		msgs = append(msgs, "El título es obligatorio")
	} else if titleLen < minTitleLen || titleLen > maxTitleLen {
		msgs = append(msgs, fmt.Sprintf("El título debe tener entre %d y %d caracteres", minTitleLen, maxTitleLen))
	}

	descLen := utf8.RuneCountInString(l.Description)
	if fd.MinDescription > 0 && descLen < fd.MinDescription {
		msgs = append(msgs, fmt.Sprintf("La descripción debe tener al menos %d caracteres", fd.MinDescription))
	}
	if fd.MaxDescription > 0 && descLen > fd.MaxDescription {
		msgs = append(msgs, fmt.Sprintf("La descripción no puede superar los %d caracteres", fd.MaxDescription))
	}

	if l.Category == "" {
		msgs = append(msgs, "La categoría es obligatoria")
	} else if !fd.Categories.Has(l.Category) {
		msgs = append(msgs, "Categoría inválida")
	} else if l.Subcategory != "" && !fd.Categories.HasSubcategory(l.Category, l.Subcategory) {
		msgs = append(msgs, "Subcategoría inválida para la categoría seleccionada")
	}

	if l.Contact.Empty() {
		msgs = append(msgs, "Debe indicar al menos un medio de contacto")
	}

	if fd.MaxImages > 0 && len(l.Images) > fd.MaxImages {
		msgs = append(msgs, fmt.Sprintf("Se permiten hasta %d imágenes", fd.MaxImages))
	}
	return msgs
}

func (v *Validator) product(l *domain.Listing, fd *domain.FamilyDescriptor) []string {
	if l.Product == nil {
		return []string{"Faltan los datos del producto"}
	}
	var msgs []string
	p := l.Product

	switch p.PriceType {
	case domain.PriceFixed:
		if p.Price <= 0 {
			msgs = append(msgs, "El precio debe ser mayor a 0")
		}
	case domain.PriceNegotiable, domain.PriceInquire, domain.PriceFree:
		// no numeric price required
	default:
		msgs = append(msgs, "Tipo de precio inválido")
	}

	switch p.StockMode {
	case domain.StockLimited:
		if p.Stock < 0 {
			msgs = append(msgs, "El stock no puede ser negativo")
		}
		if p.StockMinimum < 0 {
			msgs = append(msgs, "El stock mínimo no puede ser negativo")
		}
	case domain.StockUnlimited, domain.StockOnOrder:
	default:
		msgs = append(msgs, "Modo de stock inválido")
	}

	switch p.Condition {
	case domain.ConditionNew, domain.ConditionUsed, domain.ConditionRefurbished, domain.ConditionHandmade:
	default:
		msgs = append(msgs, "Condición inválida")
	}

	if fd.RequireImage && len(l.Images) == 0 {
		msgs = append(msgs, "Debe incluir al menos una imagen")
	}
	return msgs
}

func (v *Validator) service(l *domain.Listing, _ *domain.FamilyDescriptor) []string {
	if l.Service == nil {
		return []string{"Faltan los datos del servicio"}
	}
	var msgs []string
	s := l.Service

	if s.PriceType.Numeric() {
		if s.Price <= 0 {
			msgs = append(msgs, "El precio debe ser mayor a 0")
		}
	} else {
		switch s.PriceType {
		case domain.PriceNegotiable, domain.PriceInquire, domain.PriceFree:
		default:
			msgs = append(msgs, "Tipo de precio inválido")
		}
	}

	switch s.Modality {
	case domain.ModalityInPerson, domain.ModalityAtCustomer, domain.ModalityVirtual, domain.ModalityHybrid:
	case "":
		msgs = append(msgs, "Debe indicar la modalidad del servicio")
	default:
		msgs = append(msgs, "Modalidad inválida")
	}

	switch s.QuotaMode {
	case domain.QuotaLimited:
		if s.QuotaRemaining < 1 {
			msgs = append(msgs, "Los cupos disponibles deben ser al menos 1")
		}
	case domain.QuotaUnlimited, domain.QuotaSingleUse:
	default:
		msgs = append(msgs, "Modo de cupos inválido")
	}

	if s.Duration == domain.DurationCustom && s.CustomDuration == "" {
		msgs = append(msgs, "Debe detallar la duración personalizada")
	}
	for _, h := range s.AvailableHours {
		if h == domain.ScheduleCustom && s.CustomSchedule == "" {
			msgs = append(msgs, "Debe detallar el horario personalizado")
			break
		}
	}
	return msgs
}

func (v *Validator) job(l *domain.Listing) []string {
	if l.Job == nil {
		return []string{"Faltan los datos del empleo"}
	}
	var msgs []string
	j := l.Job

	switch j.PostingType {
	case "oferta", "busqueda":
	default:
		msgs = append(msgs, "Debe indicar el tipo de publicación")
	}

	switch j.WorkModality {
	case "presencial", "remoto", "hibrido":
	default:
		msgs = append(msgs, "Debe indicar la modalidad de trabajo")
	}

	if j.Salary != nil && j.Salary.Min != nil && j.Salary.Max != nil && *j.Salary.Min > *j.Salary.Max {
		msgs = append(msgs, "El salario mínimo no puede ser mayor al máximo")
	}

	if l.Contact.Email != "" && !emailPattern.MatchString(l.Contact.Email) {
		msgs = append(msgs, "El correo electrónico de contacto no es válido")
	}
	return msgs
}
