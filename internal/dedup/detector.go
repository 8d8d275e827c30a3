package dedup

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/satiscrm/crm-api/internal/entity"
)

// Threshold above which a record is reported as a potential duplicate.
const Threshold = 0.70

// How many candidates the pre-filter query may return per check.
const poolLimit = 10

type Kind string

const (
	KindLead     Kind = "leads"
	KindCustomer Kind = "customers"
	KindContact  Kind = "contacts"
)

// Record is the field view duplicate scoring operates on. Leads and
// customers compare company plus point-of-contact fields, contacts compare
// person fields.
type Record struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name,omitempty"`
	POCName     string `json:"poc_name,omitempty"`
	POCEmail    string `json:"poc_email,omitempty"`
	POCPhone    string `json:"poc_phone,omitempty"`
	FullName    string `json:"full_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Title       string `json:"title,omitempty"`
}

type Match struct {
	Record Record  `json:"record"`
	Score  float64 `json:"similarity_score"`
}

// RecordScore averages per-field similarity over the fields present on both
// records. Fields missing on either side do not dilute the score.
func RecordScore(kind Kind, a, b Record) float64 {
	var pairs [][2]string
	switch kind {
	case KindContact:
		pairs = [][2]string{
			{a.FullName, b.FullName},
			{a.Email, b.Email},
			{a.Phone, b.Phone},
			{a.Title, b.Title},
		}
	default:
		pairs = [][2]string{
			{a.CompanyName, b.CompanyName},
			{a.POCName, b.POCName},
			{a.POCEmail, b.POCEmail},
			{a.POCPhone, b.POCPhone},
		}
	}

	total := 0.0
	compared := 0
	for _, p := range pairs {
		if p[0] == "" || p[1] == "" {
			continue
		}
		total += Similarity(p[0], p[1])
		compared++
	}
	if compared == 0 {
		return 0
	}
	return total / float64(compared)
}

// Detector scores a candidate against a repository-provided pool of likely
// matches.
type Detector struct {
	leads     entity.LeadRepositoryInterface
	customers entity.CustomerRepositoryInterface
	contacts  entity.ContactRepositoryInterface
	logger    *log.Logger
}

func NewDetector(
	leads entity.LeadRepositoryInterface,
	customers entity.CustomerRepositoryInterface,
	contacts entity.ContactRepositoryInterface,
	logger *log.Logger,
) *Detector {
	return &Detector{leads: leads, customers: customers, contacts: contacts, logger: logger}
}

// FindPotentialDuplicates returns pool records scoring above Threshold,
// sorted descending by score, the candidate's own id excluded. A failed pool
// query degrades to an empty result; the caller's flow is never aborted by a
// detection error.
func (d *Detector) FindPotentialDuplicates(ctx context.Context, kind Kind, organizationID string, candidate Record) []Match {
	pool, err := d.fetchPool(ctx, kind, organizationID, candidate)
	if err != nil {
		d.logger.Error("duplicate detection failed", "kind", kind, "err", err)
		return []Match{}
	}

	matches := []Match{}
	for _, rec := range pool {
		if rec.ID == candidate.ID {
			continue
		}
		score := RecordScore(kind, candidate, rec)
		if score > Threshold {
			matches = append(matches, Match{Record: rec, Score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	d.logger.Info("duplicate detection completed",
		"kind", kind, "record_id", candidate.ID, "duplicates_found", len(matches))
	return matches
}

func (d *Detector) fetchPool(ctx context.Context, kind Kind, organizationID string, candidate Record) ([]Record, error) {
	switch kind {
	case KindCustomer:
		customers, err := d.customers.FindSimilar(ctx, organizationID, candidate.CompanyName, candidate.POCEmail, candidate.POCPhone, poolLimit)
		if err != nil {
			return nil, err
		}
		pool := make([]Record, 0, len(customers))
		for _, c := range customers {
			pool = append(pool, Record{
				ID:          c.ID,
				CompanyName: c.CompanyName,
				POCName:     c.POCName,
				POCEmail:    c.POCEmail,
				POCPhone:    c.POCPhone,
			})
		}
		return pool, nil
	case KindContact:
		contacts, err := d.contacts.FindSimilar(ctx, organizationID, candidate.Email, candidate.Phone, poolLimit)
		if err != nil {
			return nil, err
		}
		pool := make([]Record, 0, len(contacts))
		for _, c := range contacts {
			pool = append(pool, Record{
				ID:       c.ID,
				FullName: c.FullName,
				Email:    c.Email,
				Phone:    c.Phone,
				Title:    c.Title,
			})
		}
		return pool, nil
	default:
		leads, err := d.leads.FindSimilar(ctx, organizationID, candidate.CompanyName, candidate.POCEmail, candidate.POCPhone, poolLimit)
		if err != nil {
			return nil, err
		}
		pool := make([]Record, 0, len(leads))
		for _, l := range leads {
			pool = append(pool, Record{
				ID:          l.ID,
				CompanyName: l.CompanyName,
				POCName:     l.POCName,
				POCEmail:    l.POCEmail,
				POCPhone:    l.POCPhone,
			})
		}
		return pool, nil
	}
}
