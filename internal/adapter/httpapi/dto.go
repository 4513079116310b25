package httpapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
)

// requestValidator checks the structural shape of request bodies
// before they reach the domain validator; the domain layer owns the
// user-facing publication rules.
var requestValidator = validator.New()

// listingRequest is the write body shared by create and update.
// Family-specific sections mirror the domain shapes.
type listingRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	Category    string      `json:"category" validate:"required"`
	Subcategory string      `json:"subcategory"`
	Images      []imageDTO  `json:"images" validate:"dive"`
	Tags        []string    `json:"tags"`
	Contact     contactDTO  `json:"contact"`
	Product     *productDTO `json:"product"`
	Service     *serviceDTO `json:"service"`
	Job         *jobDTO     `json:"job"`
}

type imageDTO struct {
	URL     string `json:"url" validate:"required,url"`
	Primary bool   `json:"primary"`
}

type contactDTO struct {
	Phone    string `json:"phone"`
	Whatsapp string `json:"whatsapp"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type productDTO struct {
	Price        float64 `json:"price" validate:"gte=0"`
	PriceType    string  `json:"price_type" validate:"required"`
	StockMode    string  `json:"stock_mode" validate:"required,oneof=unlimited limited on_order"`
	Stock        int     `json:"stock" validate:"gte=0"`
	StockMinimum int     `json:"stock_minimum" validate:"gte=0"`
	Condition    string  `json:"condition" validate:"required"`
}

type serviceDTO struct {
	Price          float64  `json:"price" validate:"gte=0"`
	PriceType      string   `json:"price_type" validate:"required"`
	Modality       string   `json:"modality" validate:"required"`
	Duration       string   `json:"duration"`
	CustomDuration string   `json:"custom_duration"`
	QuotaMode      string   `json:"quota_mode" validate:"required,oneof=unlimited limited single_use"`
	QuotaRemaining int      `json:"quota_remaining" validate:"gte=0"`
	AvailableDays  []string `json:"available_days"`
	AvailableHours []string `json:"available_hours"`
	CustomSchedule string   `json:"custom_schedule"`
}

type jobDTO struct {
	PostingType     string     `json:"posting_type" validate:"required"`
	EmploymentType  string     `json:"employment_type"`
	WorkModality    string     `json:"work_modality" validate:"required"`
	ExperienceLevel string     `json:"experience_level"`
	Salary          *salaryDTO `json:"salary"`
}

type salaryDTO struct {
	Min      *float64 `json:"min" validate:"omitempty,gte=0"`
	Max      *float64 `json:"max" validate:"omitempty,gte=0"`
	Period   string   `json:"period"`
	Currency string   `json:"currency"`
}

func (r *listingRequest) toDomain(family domain.Family) *domain.Listing {
	l := &domain.Listing{
		Family:      family,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Tags:        r.Tags,
		Contact:     domain.Contact(r.Contact),
	}
	for _, img := range r.Images {
		l.Images = append(l.Images, domain.Image(img))
	}
	if r.Product != nil {
		l.Product = &domain.ProductDetails{
			Price:        r.Product.Price,
			PriceType:    domain.PriceType(r.Product.PriceType),
			StockMode:    domain.StockMode(r.Product.StockMode),
			Stock:        r.Product.Stock,
			StockMinimum: r.Product.StockMinimum,
			Condition:    domain.Condition(r.Product.Condition),
		}
	}
	if r.Service != nil {
		l.Service = &domain.ServiceDetails{
			Price:          r.Service.Price,
			PriceType:      domain.PriceType(r.Service.PriceType),
			Modality:       domain.Modality(r.Service.Modality),
			Duration:       r.Service.Duration,
			CustomDuration: r.Service.CustomDuration,
			QuotaMode:      domain.QuotaMode(r.Service.QuotaMode),
			QuotaRemaining: r.Service.QuotaRemaining,
			AvailableDays:  r.Service.AvailableDays,
			AvailableHours: r.Service.AvailableHours,
			CustomSchedule: r.Service.CustomSchedule,
		}
	}
	if r.Job != nil {
		l.Job = &domain.JobDetails{
			PostingType:     r.Job.PostingType,
			EmploymentType:  r.Job.EmploymentType,
			WorkModality:    r.Job.WorkModality,
			ExperienceLevel: r.Job.ExperienceLevel,
		}
		if r.Job.Salary != nil {
			s := domain.Salary(*r.Job.Salary)
			l.Job.Salary = &s
		}
	}
	return l
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type reserveRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type searchResponse struct {
	Items      []*domain.Listing `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}
