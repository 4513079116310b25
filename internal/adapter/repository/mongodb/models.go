package mongodb

import (
	"time"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
)

// listingDocument is the persisted shape of a listing. IDs are the
// service-assigned UUID strings, stored directly as _id; exactly one
// of the family subdocuments is set.
type listingDocument struct {
	ID            string      `bson:"_id"`
	OwnerID       string      `bson:"owner_id"`
	Family        string      `bson:"family"`
	Title         string      `bson:"title"`
	Description   string      `bson:"description"`
	Category      string      `bson:"category"`
	Subcategory   string      `bson:"subcategory,omitempty"`
	Images        []imageDoc  `bson:"images,omitempty"`
	Tags          []string    `bson:"tags,omitempty"`
	Keywords      []string    `bson:"keywords,omitempty"`
	Slug          string      `bson:"slug"`
	Status        string      `bson:"status"`
	Featured      bool        `bson:"featured,omitempty"`
	FeaturedUntil *time.Time  `bson:"featured_until,omitempty"`
	Contact       contactDoc  `bson:"contact"`
	Product       *productDoc `bson:"product,omitempty"`
	Service       *serviceDoc `bson:"service,omitempty"`
	Job           *jobDoc     `bson:"job,omitempty"`
	CreatedAt     time.Time   `bson:"created_at"`
	UpdatedAt     time.Time   `bson:"updated_at"`
}

type imageDoc struct {
	URL     string `bson:"url"`
	Primary bool   `bson:"primary,omitempty"`
}

type contactDoc struct {
	Phone    string `bson:"phone,omitempty"`
	Whatsapp string `bson:"whatsapp,omitempty"`
	Email    string `bson:"email,omitempty"`
}

type productDoc struct {
	Price        float64 `bson:"price"`
	PriceType    string  `bson:"price_type"`
	StockMode    string  `bson:"stock_mode"`
	Stock        int     `bson:"stock"`
	StockMinimum int     `bson:"stock_minimum,omitempty"`
	Condition    string  `bson:"condition"`
}

type serviceDoc struct {
	Price          float64  `bson:"price"`
	PriceType      string   `bson:"price_type"`
	Modality       string   `bson:"modality"`
	Duration       string   `bson:"duration,omitempty"`
	CustomDuration string   `bson:"custom_duration,omitempty"`
	QuotaMode      string   `bson:"quota_mode"`
	QuotaRemaining int      `bson:"quota_remaining"`
	AvailableDays  []string `bson:"available_days,omitempty"`
	AvailableHours []string `bson:"available_hours,omitempty"`
	CustomSchedule string   `bson:"custom_schedule,omitempty"`
}

type jobDoc struct {
	PostingType     string     `bson:"posting_type"`
	EmploymentType  string     `bson:"employment_type,omitempty"`
	WorkModality    string     `bson:"work_modality"`
	ExperienceLevel string     `bson:"experience_level,omitempty"`
	Salary          *salaryDoc `bson:"salary,omitempty"`
}

type salaryDoc struct {
	Min      *float64 `bson:"min,omitempty"`
	Max      *float64 `bson:"max,omitempty"`
	Period   string   `bson:"period,omitempty"`
	Currency string   `bson:"currency,omitempty"`
}

func toDocument(l *domain.Listing) *listingDocument {
	if l == nil {
		return nil
	}
	d := &listingDocument{
		ID:            l.ID,
		OwnerID:       l.OwnerID,
		Family:        string(l.Family),
		Title:         l.Title,
		Description:   l.Description,
		Category:      l.Category,
		Subcategory:   l.Subcategory,
		Tags:          l.Tags,
		Keywords:      l.Keywords,
		Slug:          l.Slug,
		Status:        string(l.Status),
		Featured:      l.Featured,
		FeaturedUntil: l.FeaturedUntil,
		Contact:       contactDoc(l.Contact),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	for _, img := range l.Images {
		d.Images = append(d.Images, imageDoc(img))
	}
	if l.Product != nil {
		d.Product = &productDoc{
			Price:        l.Product.Price,
			PriceType:    string(l.Product.PriceType),
			StockMode:    string(l.Product.StockMode),
			Stock:        l.Product.Stock,
			StockMinimum: l.Product.StockMinimum,
			Condition:    string(l.Product.Condition),
		}
	}
	if l.Service != nil {
		d.Service = &serviceDoc{
			Price:          l.Service.Price,
			PriceType:      string(l.Service.PriceType),
			Modality:       string(l.Service.Modality),
			Duration:       l.Service.Duration,
			CustomDuration: l.Service.CustomDuration,
			QuotaMode:      string(l.Service.QuotaMode),
			QuotaRemaining: l.Service.QuotaRemaining,
			AvailableDays:  l.Service.AvailableDays,
			AvailableHours: l.Service.AvailableHours,
			CustomSchedule: l.Service.CustomSchedule,
		}
	}
	if l.Job != nil {
		d.Job = &jobDoc{
			PostingType:     l.Job.PostingType,
			EmploymentType:  l.Job.EmploymentType,
			WorkModality:    l.Job.WorkModality,
			ExperienceLevel: l.Job.ExperienceLevel,
		}
		if l.Job.Salary != nil {
			s := salaryDoc(*l.Job.Salary)
			d.Job.Salary = &s
		}
	}
	return d
}

func toDomain(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	l := &domain.Listing{
		ID:            d.ID,
		OwnerID:       d.OwnerID,
		Family:        domain.Family(d.Family),
		Title:         d.Title,
		Description:   d.Description,
		Category:      d.Category,
		Subcategory:   d.Subcategory,
		Tags:          d.Tags,
		Keywords:      d.Keywords,
		Slug:          d.Slug,
		Status:        domain.Status(d.Status),
		Featured:      d.Featured,
		FeaturedUntil: d.FeaturedUntil,
		Contact:       domain.Contact(d.Contact),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for _, img := range d.Images {
		l.Images = append(l.Images, domain.Image(img))
	}
	if d.Product != nil {
		l.Product = &domain.ProductDetails{
			Price:        d.Product.Price,
			PriceType:    domain.PriceType(d.Product.PriceType),
			StockMode:    domain.StockMode(d.Product.StockMode),
			Stock:        d.Product.Stock,
			StockMinimum: d.Product.StockMinimum,
			Condition:    domain.Condition(d.Product.Condition),
		}
	}
	if d.Service != nil {
		l.Service = &domain.ServiceDetails{
			Price:          d.Service.Price,
			PriceType:      domain.PriceType(d.Service.PriceType),
			Modality:       domain.Modality(d.Service.Modality),
			Duration:       d.Service.Duration,
			CustomDuration: d.Service.CustomDuration,
			QuotaMode:      domain.QuotaMode(d.Service.QuotaMode),
			QuotaRemaining: d.Service.QuotaRemaining,
			AvailableDays:  d.Service.AvailableDays,
			AvailableHours: d.Service.AvailableHours,
			CustomSchedule: d.Service.CustomSchedule,
		}
	}
	if d.Job != nil {
		l.Job = &domain.JobDetails{
			PostingType:     d.Job.PostingType,
			EmploymentType:  d.Job.EmploymentType,
			WorkModality:    d.Job.WorkModality,
			ExperienceLevel: d.Job.ExperienceLevel,
		}
		if d.Job.Salary != nil {
			s := domain.Salary(*d.Job.Salary)
			l.Job.Salary = &s
		}
	}
	return l
}
