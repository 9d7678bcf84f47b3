// Package sale plans the recurring storefront discount: what to create and when.
package sale

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Nouns are appended to coupon codes.
var Nouns = []string{"TABLE", "CHAIR", "BOOK", "LAMP", "VASE", "CUP", "PLATE", "BOWL", "RING", "CANDLE"}

const (
	DefaultPercentage = 50
	DefaultCreateURL  = "https://www.etsy.com/your/shops/me/sales-discounts/step/createSale?ref=seller-platform-mcnav"
)

// Plan describes one sale to create on the storefront.
type Plan struct {
	ID               string    `json:"id"`
	Percentage       int       `json:"percentage"`
	StartDate        string    `json:"startDate"`        // YYYY-MM-DD
	EndDate          string    `json:"endDate"`          // YYYY-MM-DD
	StartDateDisplay string    `json:"startDateDisplay"` // MM/DD/YYYY
	EndDateDisplay   string    `json:"endDateDisplay"`   // MM/DD/YYYY
	CouponCode       string    `json:"couponCode"`
	CreateURL        string    `json:"createUrl"`
	Trigger          string    `json:"trigger"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Planner builds plans. It is safe for concurrent use.
type Planner struct {
	percentage int
	createURL  string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPlanner returns a Planner. rng may be nil.
func NewPlanner(percentage int, createURL string, rng *rand.Rand) *Planner {
	if percentage == 0 {
		percentage = DefaultPercentage
	}
	if createURL == "" {
		createURL = DefaultCreateURL
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Planner{percentage: percentage, createURL: createURL, rng: rng}
}

// Plan returns a one-day sale starting and ending on now's date.
func (p *Planner) Plan(now time.Time, trigger string) Plan {
	p.mu.Lock()
	noun := Nouns[p.rng.Intn(len(Nouns))]
	p.mu.Unlock()

	iso := now.Format("2006-01-02")
	display := now.Format("01/02/2006")

	return Plan{
		ID:               uuid.NewString(),
		Percentage:       p.percentage,
		StartDate:        iso,
		EndDate:          iso,
		StartDateDisplay: display,
		EndDateDisplay:   display,
		CouponCode:       CouponCode(now, noun),
		CreateURL:        p.createURL,
		Trigger:          trigger,
		CreatedAt:        now,
	}
}

// CouponCode is the upper-case month abbreviation, the day of month and noun, e.g. MAR4TABLE.
func CouponCode(day time.Time, noun string) string {
	return strings.ToUpper(day.Format("Jan")) + strconv.Itoa(day.Day()) + noun
}

// Daily run window: the hour is drawn from [firstHour, lastHour] and runs are
// scheduled for tomorrow once cutoffHour has passed.
const (
	firstHour  = 1
	lastHour   = 4
	cutoffHour = 5
)

// NextRunTime picks a random minute between 01:00 and 04:59 in now's location:
// today if it is still before 05:00, otherwise tomorrow. The result is always after now.
func NextRunTime(now time.Time, rng *rand.Rand) time.Time {
	hour := firstHour + rng.Intn(lastHour-firstHour+1)
	minute := rng.Intn(60)

	day := now
	if now.Hour() >= cutoffHour {
		day = now.AddDate(0, 0, 1)
	}

	next := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
