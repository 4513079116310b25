package domain

import "time"

// Family discriminates the three listing variants served by the catalog.
type Family string

const (
	FamilyProduct Family = "product"
	FamilyService Family = "service"
	FamilyJob     Family = "job"
)

// ParseFamily maps a wire value to a Family.
func ParseFamily(s string) (Family, error) {
	switch Family(s) {
	case FamilyProduct, FamilyService, FamilyJob:
		return Family(s), nil
	}
	return "", ErrUnknownFamily
}

type Status string

const (
	StatusAvailable Status = "available"
	StatusPaused    Status = "paused"
	StatusSoldOut   Status = "sold_out" // exhausted products
	StatusNoQuota   Status = "no_quota" // exhausted services
	StatusInactive  Status = "inactive"
)

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s Status) bool {
	switch s {
	case StatusAvailable, StatusPaused, StatusSoldOut, StatusNoQuota, StatusInactive:
		return true
	}
	return false
}

// PriceType carries the Spanish wire values the marketplace uses.
type PriceType string

const (
	PriceFixed      PriceType = "fijo"
	PriceNegotiable PriceType = "negociable"
	PriceInquire    PriceType = "consultar"
	PriceFree       PriceType = "gratis"
	PricePerHour    PriceType = "por_hora"
	PricePerDay     PriceType = "por_dia"
	PricePerSession PriceType = "por_sesion"
	PricePackage    PriceType = "paquete"
)

// Numeric reports whether this price type denotes an actual amount.
// Negotiable, inquire and free listings carry no meaningful number.
func (p PriceType) Numeric() bool {
	switch p {
	case PriceFixed, PricePerHour, PricePerDay, PricePerSession, PricePackage:
		return true
	}
	return false
}

type StockMode string

const (
	StockUnlimited StockMode = "unlimited"
	StockLimited   StockMode = "limited"
	StockOnOrder   StockMode = "on_order"
)

type QuotaMode string

const (
	QuotaUnlimited QuotaMode = "unlimited"
	QuotaLimited   QuotaMode = "limited"
	QuotaSingleUse QuotaMode = "single_use"
)

type Condition string

const (
	ConditionNew         Condition = "nuevo"
	ConditionUsed        Condition = "usado"
	ConditionRefurbished Condition = "reacondicionado"
	ConditionHandmade    Condition = "artesanal"
)

type Modality string

const (
	ModalityInPerson   Modality = "presencial"
	ModalityAtCustomer Modality = "a_domicilio"
	ModalityVirtual    Modality = "virtual"
	ModalityHybrid     Modality = "hibrido"
)

// DurationCustom marks a free-text duration; the listing must then
// describe it in CustomDuration.
const DurationCustom = "personalizada"

// ScheduleCustom inside AvailableHours requires a CustomSchedule text.
const ScheduleCustom = "personalizado"

type Image struct {
	URL     string `json:"url"`
	Primary bool   `json:"primary,omitempty"`
}

// Contact groups the optional contact channels. At least one must be
// present on a published listing.
type Contact struct {
	Phone    string `json:"phone,omitempty"`
	Whatsapp string `json:"whatsapp,omitempty"`
	Email    string `json:"email,omitempty"`
}

func (c Contact) Empty() bool {
	return c.Phone == "" && c.Whatsapp == "" && c.Email == ""
}

type Salary struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Period   string   `json:"period,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

type ProductDetails struct {
	Price        float64   `json:"price"`
	PriceType    PriceType `json:"price_type"`
	StockMode    StockMode `json:"stock_mode"`
	Stock        int       `json:"stock"`
	StockMinimum int       `json:"stock_minimum"`
	Condition    Condition `json:"condition"`
}

type ServiceDetails struct {
	Price          float64   `json:"price"`
	PriceType      PriceType `json:"price_type"`
	Modality       Modality  `json:"modality"`
	Duration       string    `json:"duration"`
	CustomDuration string    `json:"custom_duration,omitempty"`
	QuotaMode      QuotaMode `json:"quota_mode"`
	QuotaRemaining int       `json:"quota_remaining"`
	AvailableDays  []string  `json:"available_days,omitempty"`
	AvailableHours []string  `json:"available_hours,omitempty"`
	CustomSchedule string    `json:"custom_schedule,omitempty"`
}

type JobDetails struct {
	PostingType     string  `json:"posting_type"`
	EmploymentType  string  `json:"employment_type,omitempty"`
	WorkModality    string  `json:"work_modality"`
	ExperienceLevel string  `json:"experience_level,omitempty"`
	Salary          *Salary `json:"salary,omitempty"`
}

// Listing is the fully-typed record all three families share. Exactly
// one of Product, Service or Job is set, matching Family; the boundary
// validates this once so downstream code never re-checks shapes.
type Listing struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Family        Family     `json:"family"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Subcategory   string     `json:"subcategory,omitempty"`
	Images        []Image    `json:"images,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Keywords      []string   `json:"keywords,omitempty"`
	Slug          string     `json:"slug"`
	Status        Status     `json:"status"`
	Featured      bool       `json:"featured,omitempty"`
	FeaturedUntil *time.Time `json:"featured_until,omitempty"`
	Contact       Contact    `json:"contact"`

	Product *ProductDetails `json:"product,omitempty"`
	Service *ServiceDetails `json:"service,omitempty"`
	Job     *JobDetails     `json:"job,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NumericPrice returns the listing's price when its price type denotes
// a number. Listings priced negotiable/inquire/free report ok=false.
func (l *Listing) NumericPrice() (float64, bool) {
	switch l.Family {
	case FamilyProduct:
		if l.Product != nil && l.Product.PriceType.Numeric() {
			return l.Product.Price, true
		}
	case FamilyService:
		if l.Service != nil && l.Service.PriceType.Numeric() {
			return l.Service.Price, true
		}
	}
	return 0, false
}

// AvailabilityMode tells how reservations against this listing behave.
type AvailabilityMode string

const (
	AvailUnlimited AvailabilityMode = "unlimited"
	AvailLimited   AvailabilityMode = "limited"
	AvailSingleUse AvailabilityMode = "single_use"
	AvailNone      AvailabilityMode = "none"
)

func (l *Listing) AvailabilityMode() AvailabilityMode {
	switch l.Family {
	case FamilyProduct:
		if l.Product != nil && l.Product.StockMode == StockLimited {
			return AvailLimited
		}
		return AvailUnlimited
	case FamilyService:
		if l.Service != nil {
			switch l.Service.QuotaMode {
			case QuotaLimited:
				return AvailLimited
			case QuotaSingleUse:
				return AvailSingleUse
			}
		}
		return AvailUnlimited
	}
	return AvailNone
}

// Remaining returns the countable availability (stock or quota) for
// listings in limited mode. Meaningless for other modes.
func (l *Listing) Remaining() int {
	switch l.Family {
	case FamilyProduct:
		if l.Product != nil {
			return l.Product.Stock
		}
	case FamilyService:
		if l.Service != nil {
			return l.Service.QuotaRemaining
		}
	}
	return 0
}

// SetRemaining writes back the remaining count after a reservation.
func (l *Listing) SetRemaining(n int) {
	switch l.Family {
	case FamilyProduct:
		if l.Product != nil {
			l.Product.Stock = n
		}
	case FamilyService:
		if l.Service != nil {
			l.Service.QuotaRemaining = n
		}
	}
}

// ExhaustedStatus is the status a listing transitions to when its
// availability runs out. Jobs have no exhausted state.
func (l *Listing) ExhaustedStatus() Status {
	switch l.Family {
	case FamilyProduct:
		return StatusSoldOut
	case FamilyService:
		return StatusNoQuota
	}
	return ""
}

// IsFeatured reports whether the listing is featured and the feature
// window has not expired at the given instant.
func (l *Listing) IsFeatured(now time.Time) bool {
	if !l.Featured {
		return false
	}
	if l.FeaturedUntil == nil {
		return true
	}
	return l.FeaturedUntil.After(now)
}

// Clone returns a deep copy. Reservation logic mutates copies so a
// failed store write never leaves a half-updated listing behind.
func (l *Listing) Clone() *Listing {
	c := *l
	if l.FeaturedUntil != nil {
		t := *l.FeaturedUntil
		c.FeaturedUntil = &t
	}
	c.Images = append([]Image(nil), l.Images...)
	c.Tags = append([]string(nil), l.Tags...)
	c.Keywords = append([]string(nil), l.Keywords...)
	if l.Product != nil {
		p := *l.Product
		c.Product = &p
	}
	if l.Service != nil {
		s := *l.Service
		s.AvailableDays = append([]string(nil), l.Service.AvailableDays...)
		s.AvailableHours = append([]string(nil), l.Service.AvailableHours...)
		c.Service = &s
	}
	if l.Job != nil {
		j := *l.Job
		if l.Job.Salary != nil {
			sal := *l.Job.Salary
			if l.Job.Salary.Min != nil {
				m := *l.Job.Salary.Min
				sal.Min = &m
			}
			if l.Job.Salary.Max != nil {
				m := *l.Job.Salary.Max
				sal.Max = &m
			}
			j.Salary = &sal
		}
		c.Job = &j
	}
	return &c
}
